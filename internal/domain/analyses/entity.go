package analyses

import (
	"encoding/json"
	"strings"
	"time"
)

// RiskLevel is the ordinal classification attached to an analysis.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskModerate RiskLevel = "moderate"
	RiskHigh     RiskLevel = "high"
	RiskUnknown  RiskLevel = "unknown"
)

// NormalizeRiskLevel maps a free-text model answer onto the enum. Anything
// unrecognized becomes RiskUnknown.
func NormalizeRiskLevel(s string) RiskLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return RiskLow
	case "moderate", "medium":
		return RiskModerate
	case "high":
		return RiskHigh
	default:
		return RiskUnknown
	}
}

// ClampConfidence bounds a confidence score to [0, 100].
func ClampConfidence(n int) int {
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}

// Analysis is one immutable result produced by the remote inference call for
// an uploaded artifact. Filename is populated only by the joined list query.
type Analysis struct {
	ID              int64           `json:"id"`
	UploadID        int64           `json:"upload_id"`
	UserEmail       string          `json:"user_email"`
	Data            json.RawMessage `json:"analysis_data"`
	RiskLevel       RiskLevel       `json:"risk_level"`
	ConfidenceScore int             `json:"confidence_score"`
	AnalyzedAt      time.Time       `json:"analyzed_at"`
	Filename        string          `json:"filename,omitempty"`
}
