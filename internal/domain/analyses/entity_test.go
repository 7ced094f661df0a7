package analyses

import "testing"

func TestNormalizeRiskLevel(t *testing.T) {
	cases := []struct {
		in   string
		want RiskLevel
	}{
		{"low", RiskLow},
		{"Low", RiskLow},
		{" moderate ", RiskModerate},
		{"medium", RiskModerate},
		{"MEDIUM", RiskModerate},
		{"high", RiskHigh},
		{"", RiskUnknown},
		{"severe", RiskUnknown},
		{"n/a", RiskUnknown},
	}
	for _, tc := range cases {
		if got := NormalizeRiskLevel(tc.in); got != tc.want {
			t.Errorf("NormalizeRiskLevel(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestClampConfidence(t *testing.T) {
	cases := []struct{ in, want int }{
		{-10, 0},
		{0, 0},
		{55, 55},
		{100, 100},
		{250, 100},
	}
	for _, tc := range cases {
		if got := ClampConfidence(tc.in); got != tc.want {
			t.Errorf("ClampConfidence(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
