package profiles

import "time"

// Profile is the latest known health profile for a user. At most one row per
// user; saved in place, no history is retained.
type Profile struct {
	UserEmail        string    `json:"user_email"`
	Age              int       `json:"age"`
	Gender           string    `json:"gender"`
	WeightKG         float64   `json:"weight"`
	HeightCM         float64   `json:"height"`
	DailyWaterIntake float64   `json:"daily_water_intake"` // glasses per day
	MedicalHistory   string    `json:"medical_history"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// BMI returns the body mass index, or 0 when weight or height is missing.
func (p *Profile) BMI() float64 {
	if p == nil || p.WeightKG <= 0 || p.HeightCM <= 0 {
		return 0
	}
	m := p.HeightCM / 100
	return p.WeightKG / (m * m)
}

// BMICategory classifies a BMI value using the standard WHO cutoffs.
func BMICategory(bmi float64) string {
	switch {
	case bmi <= 0:
		return "Unknown"
	case bmi < 18.5:
		return "Underweight"
	case bmi < 25:
		return "Normal weight"
	case bmi < 30:
		return "Overweight"
	default:
		return "Obese"
	}
}
