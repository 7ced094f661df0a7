package profiles

import (
	"math"
	"testing"
)

func TestBMI(t *testing.T) {
	p := &Profile{WeightKG: 70, HeightCM: 175}
	if got := p.BMI(); math.Abs(got-22.86) > 0.01 {
		t.Errorf("BMI = %.2f, want 22.86", got)
	}
}

func TestBMIMissingMeasurements(t *testing.T) {
	cases := []struct {
		name string
		p    *Profile
	}{
		{"nil profile", nil},
		{"no weight", &Profile{HeightCM: 175}},
		{"no height", &Profile{WeightKG: 70}},
		{"negative height", &Profile{WeightKG: 70, HeightCM: -1}},
	}
	for _, tc := range cases {
		if got := tc.p.BMI(); got != 0 {
			t.Errorf("%s: BMI = %g, want 0", tc.name, got)
		}
	}
}

func TestBMICategory(t *testing.T) {
	cases := []struct {
		bmi  float64
		want string
	}{
		{0, "Unknown"},
		{-1, "Unknown"},
		{17, "Underweight"},
		{18.5, "Normal weight"},
		{24.9, "Normal weight"},
		{25, "Overweight"},
		{29.9, "Overweight"},
		{30, "Obese"},
		{42, "Obese"},
	}
	for _, tc := range cases {
		if got := BMICategory(tc.bmi); got != tc.want {
			t.Errorf("BMICategory(%g) = %q, want %q", tc.bmi, got, tc.want)
		}
	}
}
