package users

import "context"

// Repository port for account persistence
type Repository interface {
	Create(ctx context.Context, u *User) error
	Get(ctx context.Context, email string) (*User, error)
	UpdatePassword(ctx context.Context, email, passwordHash string) error
	UpdateSecurityQuestion(ctx context.Context, email, question, answerHash string) error
}
