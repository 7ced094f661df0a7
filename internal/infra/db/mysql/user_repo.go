package mysql

import (
	"context"
	"database/sql"
	"errors"

	gomysql "github.com/go-sql-driver/mysql"

	domain "github.com/lifelens/lifelens/internal/domain/users"
)

const mysqlErrDuplicateEntry = 1062

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts an account; a duplicate email maps to the domain sentinel.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	const q = `
INSERT INTO users (email, password_hash, full_name, security_question, security_answer_hash, created_at)
VALUES (?,?,?,?,?,?);
`
	_, err := r.db.ExecContext(ctx, q,
		u.Email, u.PasswordHash, u.FullName, u.SecurityQuestion, u.SecurityAnswerHash, u.CreatedAt,
	)
	var me *gomysql.MySQLError
	if errors.As(err, &me) && me.Number == mysqlErrDuplicateEntry {
		return domain.ErrDuplicateEmail
	}
	return err
}

// Get by email
func (r *UserRepository) Get(ctx context.Context, email string) (*domain.User, error) {
	const q = `
SELECT email, password_hash, full_name, security_question, security_answer_hash, created_at
FROM users
WHERE email=? LIMIT 1;
`
	var u domain.User
	var question, answerHash sql.NullString
	err := r.db.QueryRowContext(ctx, q, email).Scan(
		&u.Email, &u.PasswordHash, &u.FullName, &question, &answerHash, &u.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	u.SecurityQuestion = fromNullString(question)
	u.SecurityAnswerHash = fromNullString(answerHash)
	return &u, nil
}

// UpdatePassword overwrites the password hash
func (r *UserRepository) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	const q = `UPDATE users SET password_hash=? WHERE email=?;`
	res, err := r.db.ExecContext(ctx, q, passwordHash, email)
	if err != nil {
		return err
	}
	return errIfNoRows(res)
}

// UpdateSecurityQuestion overwrites question and answer hash
func (r *UserRepository) UpdateSecurityQuestion(ctx context.Context, email, question, answerHash string) error {
	const q = `UPDATE users SET security_question=?, security_answer_hash=? WHERE email=?;`
	res, err := r.db.ExecContext(ctx, q, question, answerHash, email)
	if err != nil {
		return err
	}
	return errIfNoRows(res)
}

func errIfNoRows(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
