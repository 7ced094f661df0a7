package analyses

import "context"

// Repository port for analysis persistence.
//
// Save must insert the analysis row and advance the owning upload to
// completed in a single transaction, so a stored analysis always implies a
// completed upload. LatestByUpload returns (nil, nil) when no analysis has
// been stored yet.
type Repository interface {
	Save(ctx context.Context, a *Analysis) (int64, error)
	LatestByUpload(ctx context.Context, uploadID int64) (*Analysis, error)
	ListByUser(ctx context.Context, email string) ([]*Analysis, error)
}
