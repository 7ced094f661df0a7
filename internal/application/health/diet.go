package health

import (
	"fmt"
	"strings"

	"github.com/lifelens/lifelens/internal/domain/profiles"
)

// DietPlan is the kidney-friendly meal plan. It is a static lookup
// personalized by simple demographic rules, not an AI product.
type DietPlan struct {
	Breakfast  []string `json:"breakfast"`
	Lunch      []string `json:"lunch"`
	Dinner     []string `json:"dinner"`
	Snacks     []string `json:"snacks"`
	Guidelines []string `json:"guidelines"`
	Notes      []string `json:"notes,omitempty"`
}

const recommendedWaterGlasses = 8

func buildDietPlan(p *profiles.Profile) *DietPlan {
	plan := &DietPlan{
		Breakfast: []string{
			"Low-sodium oatmeal with berries",
			"Egg whites with vegetables",
			"Fresh fruit salad",
			"Herbal tea or water",
		},
		Lunch: []string{
			"Grilled chicken or fish (3-4 oz)",
			"Steamed vegetables (cauliflower, cabbage)",
			"White rice or quinoa (1/2 cup)",
			"Fresh cucumber salad",
		},
		Dinner: []string{
			"Lean protein (turkey, fish)",
			"Green beans or asparagus",
			"Sweet potato (small portion)",
			"Mixed greens salad",
		},
		Snacks: []string{
			"Apple slices",
			"Unsalted crackers",
			"Fresh berries",
			"Herbal tea",
		},
		Guidelines: []string{
			"Limit sodium to less than 2,300mg per day",
			"Monitor protein intake (consult with healthcare provider)",
			"Stay well-hydrated with water",
			"Limit phosphorus and potassium if advised by doctor",
			"Avoid processed and packaged foods",
			"Choose fresh fruits and vegetables",
			"Cook without added salt - use herbs and spices",
		},
	}

	if p == nil {
		return plan
	}

	if p.Age > 65 {
		plan.Notes = append(plan.Notes, "Consider smaller, more frequent meals. Focus on easily digestible foods.")
	}
	if p.WeightKG > 80 {
		plan.Notes = append(plan.Notes, "Monitor portion sizes. Consider reducing carbohydrate portions.")
	}

	history := strings.ToLower(p.MedicalHistory)
	if strings.Contains(history, "diabetes") {
		plan.Notes = append(plan.Notes, "Monitor carbohydrate intake. Choose complex carbs over simple sugars.")
		plan.Breakfast = append([]string{"Check blood sugar before meals"}, plan.Breakfast...)
	}
	if strings.Contains(history, "hypertension") || strings.Contains(history, "high blood pressure") {
		plan.Notes = append(plan.Notes, "Strictly limit sodium intake. Avoid processed foods.")
	}
	if strings.Contains(history, "kidney stones") {
		plan.Notes = append(plan.Notes, "Increase water intake. Limit oxalate-rich foods like spinach and nuts.")
	}

	if p.DailyWaterIntake < recommendedWaterGlasses {
		plan.Notes = append(plan.Notes, fmt.Sprintf(
			"Current intake: %g glasses. Recommended: 8-10 glasses of water daily (unless restricted by doctor).",
			p.DailyWaterIntake))
	}

	return plan
}
