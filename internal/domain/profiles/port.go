package profiles

import "context"

// Repository port for profile persistence. Get returns (nil, nil) when the
// user has not saved a profile yet; that is a benign state, not an error.
type Repository interface {
	Upsert(ctx context.Context, p *Profile) error
	Get(ctx context.Context, email string) (*Profile, error)
}
