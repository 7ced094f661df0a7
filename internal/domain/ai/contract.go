package ai

import (
	"bytes"
	"fmt"
	"strconv"
)

// Response contracts for the remote inference service. The service only
// guarantees a JSON object; every field here is optional and consumers must
// handle absence explicitly.

// Score tolerates models returning a confidence value as either a JSON
// number or a quoted number.
type Score int

func (s *Score) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return fmt.Errorf("invalid score %q: %w", b, err)
	}
	*s = Score(f)
	return nil
}

// KidneyIndicators is the per-organ assessment block of a scan analysis.
type KidneyIndicators struct {
	Size          string `json:"size,omitempty"`
	Structure     string `json:"structure,omitempty"`
	Abnormalities string `json:"abnormalities,omitempty"`
}

// ScanAnalysis is the structured assessment of one uploaded scan image.
type ScanAnalysis struct {
	ScanType          string            `json:"scan_type,omitempty"`
	ImageQuality      string            `json:"image_quality,omitempty"`
	KeyFindings       []string          `json:"key_findings,omitempty"`
	PotentialConcerns []string          `json:"potential_concerns,omitempty"`
	KidneyIndicators  *KidneyIndicators `json:"kidney_indicators,omitempty"`
	Recommendations   []string          `json:"recommendations,omitempty"`
	RiskLevel         string            `json:"risk_level,omitempty"`
	ConfidenceScore   *Score            `json:"confidence_score,omitempty"`
	Disclaimer        string            `json:"disclaimer,omitempty"`
}

// RiskAssessment is the demographics-only risk evaluation.
type RiskAssessment struct {
	RiskLevel                   string   `json:"risk_level,omitempty"`
	RiskFactors                 []string `json:"risk_factors,omitempty"`
	ProtectiveFactors           []string `json:"protective_factors,omitempty"`
	PersonalizedRecommendations []string `json:"personalized_recommendations,omitempty"`
	WarningSignsToWatch         []string `json:"warning_signs_to_watch,omitempty"`
	PreventiveMeasures          []string `json:"preventive_measures,omitempty"`
}

// HealthInsights is the aggregate view over a user's profile and analysis
// history.
type HealthInsights struct {
	OverallHealthStatus      string   `json:"overall_health_status,omitempty"`
	RiskFactors              []string `json:"risk_factors,omitempty"`
	PositiveIndicators       []string `json:"positive_indicators,omitempty"`
	LifestyleRecommendations []string `json:"lifestyle_recommendations,omitempty"`
	DietaryAdjustments       []string `json:"dietary_adjustments,omitempty"`
	MonitoringSuggestions    []string `json:"monitoring_suggestions,omitempty"`
	Trends                   string   `json:"trends,omitempty"`
	NextSteps                []string `json:"next_steps,omitempty"`
}
