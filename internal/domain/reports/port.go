package reports

import "context"

// Repository port for report persistence. Reports are append-only.
type Repository interface {
	Save(ctx context.Context, r *Report) (int64, error)
	ListByUser(ctx context.Context, email string) ([]*Report, error)
}
