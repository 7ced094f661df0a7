package auth

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/lifelens/lifelens/internal/application"
	"github.com/lifelens/lifelens/internal/domain/users"
)

var (
	ErrInvalidEmail        = errors.New("invalid email format")
	ErrPasswordTooShort    = errors.New("password must be at least 6 characters")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrNoSecurityQuestion  = errors.New("no security question set")
	ErrWrongSecurityAnswer = errors.New("security answer does not match")
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

const minPasswordLen = 6

// Service implements the credential lifecycle: signup, login, security
// question management and password recovery. Passwords and security answers
// are stored as bcrypt hashes; the hash carries its own per-user salt.
type Service struct {
	Users    users.Repository
	Sessions *SessionStore
	Clock    application.Clock
}

// Register creates an account. The email must match local@domain.tld and the
// password must meet the minimum length.
func (s *Service) Register(ctx context.Context, email, password, fullName string) (*users.User, error) {
	if !emailPattern.MatchString(email) {
		return nil, ErrInvalidEmail
	}
	if len(password) < minPasswordLen {
		return nil, ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	u := &users.User{
		Email:        email,
		PasswordHash: string(hash),
		FullName:     fullName,
		CreatedAt:    s.Clock.Now(),
	}
	if err := s.Users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login verifies the credentials and opens a session. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	u, err := s.Users.Get(ctx, email)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return s.Sessions.Open(email, s.Clock.Now()), nil
}

// Logout closes the session for the given token. Unknown tokens are a no-op.
func (s *Service) Logout(token string) {
	s.Sessions.Close(token)
}

// SetSecurityQuestion stores the question verbatim and a hash of the
// normalized answer, overwriting any prior value.
func (s *Service) SetSecurityQuestion(ctx context.Context, email, question, answer string) error {
	if strings.TrimSpace(question) == "" || strings.TrimSpace(answer) == "" {
		return fmt.Errorf("question and answer are required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(normalizeAnswer(answer)), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing answer: %w", err)
	}
	return s.Users.UpdateSecurityQuestion(ctx, email, question, string(hash))
}

// SecurityQuestion returns the question for the recovery flow.
func (s *Service) SecurityQuestion(ctx context.Context, email string) (string, error) {
	u, err := s.Users.Get(ctx, email)
	if err != nil {
		return "", err
	}
	if u.SecurityQuestion == "" {
		return "", ErrNoSecurityQuestion
	}
	return u.SecurityQuestion, nil
}

// VerifySecurityAnswer compares the normalized answer against the stored
// hash. It reports false when no question is set; errors are reserved for
// storage failures.
func (s *Service) VerifySecurityAnswer(ctx context.Context, email, answer string) (bool, error) {
	u, err := s.Users.Get(ctx, email)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if u.SecurityAnswerHash == "" {
		return false, nil
	}
	return bcrypt.CompareHashAndPassword([]byte(u.SecurityAnswerHash), []byte(normalizeAnswer(answer))) == nil, nil
}

// RecoverPassword verifies the security answer and resets the password in one
// operation, so a reset can never happen without a matching answer.
func (s *Service) RecoverPassword(ctx context.Context, email, answer, newPassword string) error {
	if len(newPassword) < minPasswordLen {
		return ErrPasswordTooShort
	}
	ok, err := s.VerifySecurityAnswer(ctx, email, answer)
	if err != nil {
		return err
	}
	if !ok {
		return ErrWrongSecurityAnswer
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	return s.Users.UpdatePassword(ctx, email, string(hash))
}

// Security answers are matched case- and whitespace-insensitively.
func normalizeAnswer(answer string) string {
	return strings.ToLower(strings.TrimSpace(answer))
}
