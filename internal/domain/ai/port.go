package ai

import (
	"context"
	"encoding/json"

	"github.com/lifelens/lifelens/internal/domain/profiles"
)

// Client is the port to the remote inference service. Implementations perform
// a single blocking call, no retries. The profile argument is optional and
// may be nil.
type Client interface {
	AnalyzeScan(ctx context.Context, image []byte, profile *profiles.Profile) (*ScanAnalysis, error)
	AssessRisk(ctx context.Context, profile *profiles.Profile) (*RiskAssessment, error)
	GenerateInsights(ctx context.Context, profile *profiles.Profile, history []json.RawMessage) (*HealthInsights, error)
}
