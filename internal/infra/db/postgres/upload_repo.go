package postgres

import (
	"context"
	"database/sql"
	"errors"

	domain "github.com/lifelens/lifelens/internal/domain/uploads"
)

type UploadRepository struct {
	db *sql.DB
}

func NewUploadRepository(db *sql.DB) *UploadRepository {
	return &UploadRepository{db: db}
}

// Save inserts a new upload and returns the generated id.
func (r *UploadRepository) Save(ctx context.Context, u *domain.Upload) (int64, error) {
	const q = `
INSERT INTO uploads (user_email, filename, file_path, file_type, upload_date, analysis_status)
VALUES ($1,$2,$3,$4,$5,$6)
RETURNING id;
`
	var id int64
	err := r.db.QueryRowContext(ctx, q,
		u.UserEmail, u.Filename, u.Path, u.FileType, u.UploadDate, u.AnalysisStatus,
	).Scan(&id)
	return id, err
}

// Get by id
func (r *UploadRepository) Get(ctx context.Context, id int64) (*domain.Upload, error) {
	const q = `
SELECT id, user_email, filename, file_path, file_type, upload_date, analysis_status
FROM uploads
WHERE id=$1 LIMIT 1;
`
	var u domain.Upload
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&u.ID, &u.UserEmail, &u.Filename, &u.Path, &u.FileType, &u.UploadDate, &u.AnalysisStatus,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ListByUser returns all uploads for a user, newest first.
func (r *UploadRepository) ListByUser(ctx context.Context, email string) ([]*domain.Upload, error) {
	const q = `
SELECT id, user_email, filename, file_path, file_type, upload_date, analysis_status
FROM uploads
WHERE user_email=$1
ORDER BY upload_date DESC, id DESC;
`
	rows, err := r.db.QueryContext(ctx, q, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Upload
	for rows.Next() {
		var u domain.Upload
		if err := rows.Scan(
			&u.ID, &u.UserEmail, &u.Filename, &u.Path, &u.FileType, &u.UploadDate, &u.AnalysisStatus,
		); err != nil {
			return nil, err
		}
		out = append(out, &u)
	}
	return out, rows.Err()
}
