// Package prompt builds the instructions sent to the inference service.
// Every prompt requests a response constrained to a fixed JSON object shape;
// the shapes mirror the contracts in internal/domain/ai.
package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lifelens/lifelens/internal/domain/profiles"
)

// ForScanAnalysis builds the vision prompt for a single scan image. The
// profile is optional patient context.
func ForScanAnalysis(p *profiles.Profile) string {
	var b strings.Builder
	b.WriteString(`You are a medical imaging AI assistant specializing in kidney health analysis.
Analyze this medical scan and provide a structured assessment.
`)
	b.WriteString(patientContext(p))
	b.WriteString(`
Please provide a detailed analysis in JSON format with the following structure:
{
    "scan_type": "type of medical scan (ultrasound/X-ray/CT/etc)",
    "image_quality": "assessment of image quality (excellent/good/fair/poor)",
    "key_findings": ["list of key observations"],
    "potential_concerns": ["list of any concerning findings or areas requiring attention"],
    "kidney_indicators": {
        "size": "assessment of kidney size",
        "structure": "assessment of kidney structure",
        "abnormalities": "any visible abnormalities"
    },
    "recommendations": ["list of recommended actions or follow-ups"],
    "risk_level": "overall risk assessment (low/moderate/high)",
    "confidence_score": "AI confidence in analysis (0-100)",
    "disclaimer": "important medical disclaimer"
}

Important: This is for educational and monitoring purposes. Always emphasize the need for professional medical review.`)
	return b.String()
}

// ForRiskAssessment builds the demographics-only risk prompt.
func ForRiskAssessment(p *profiles.Profile) string {
	var b strings.Builder
	b.WriteString("Based on the following patient demographics, assess kidney health risk factors and provide recommendations:\n")
	b.WriteString(patientContext(p))
	b.WriteString(`
Provide assessment in JSON format:
{
    "risk_level": "low/moderate/high",
    "risk_factors": ["list of identified risk factors"],
    "protective_factors": ["positive factors that reduce risk"],
    "personalized_recommendations": ["specific recommendations for this patient"],
    "warning_signs_to_watch": ["symptoms to monitor"],
    "preventive_measures": ["preventive actions to take"]
}`)
	return b.String()
}

// ForInsights builds the aggregate prompt over the profile and the stored
// analysis history.
func ForInsights(p *profiles.Profile, history []json.RawMessage) string {
	historyJSON, err := json.MarshalIndent(history, "", "  ")
	if err != nil || len(history) == 0 {
		historyJSON = []byte("[]")
	}

	var b strings.Builder
	b.WriteString(`You are a kidney health specialist AI. Based on the patient's demographics and scan analysis history,
provide comprehensive health insights and recommendations in JSON format:
`)
	b.WriteString(patientContext(p))
	fmt.Fprintf(&b, "\nScan Analysis History:\n%s\n", historyJSON)
	b.WriteString(`
Provide insights in this JSON structure:
{
    "overall_health_status": "overall kidney health assessment",
    "risk_factors": ["identified risk factors"],
    "positive_indicators": ["positive health indicators"],
    "lifestyle_recommendations": ["specific lifestyle changes recommended"],
    "dietary_adjustments": ["specific dietary recommendations"],
    "monitoring_suggestions": ["what to monitor and how often"],
    "trends": "analysis of trends if multiple scans available",
    "next_steps": ["recommended next steps for care"]
}`)
	return b.String()
}

func patientContext(p *profiles.Profile) string {
	if p == nil {
		return ""
	}
	history := p.MedicalHistory
	if strings.TrimSpace(history) == "" {
		history = "None provided"
	}
	return fmt.Sprintf(`
Patient Context:
- Age: %d
- Gender: %s
- Weight: %g kg
- Height: %g cm
- Daily Water Intake: %g glasses
- Medical History: %s
`, p.Age, orUnknown(p.Gender), p.WeightKG, p.HeightCM, p.DailyWaterIntake, history)
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Unknown"
	}
	return s
}
