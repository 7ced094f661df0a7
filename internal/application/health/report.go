package health

import (
	"fmt"
	"strings"
	"time"

	"github.com/lifelens/lifelens/internal/domain/profiles"
	"github.com/lifelens/lifelens/internal/domain/uploads"
)

// buildReportContent renders the plain-text health report: patient
// information, BMI, optional scan details and the static recommendation
// sections.
func buildReportContent(p *profiles.Profile, up *uploads.Upload, now time.Time) string {
	var b strings.Builder

	b.WriteString("# Health Report\n\n")
	fmt.Fprintf(&b, "**Generated on:** %s\n\n", now.Format("2006-01-02 15:04:05"))
	b.WriteString("## Patient Information\n")

	if p != nil {
		fmt.Fprintf(&b, "- **Age:** %d\n", p.Age)
		fmt.Fprintf(&b, "- **Gender:** %s\n", orNotProvided(p.Gender))
		fmt.Fprintf(&b, "- **Weight:** %g kg\n", p.WeightKG)
		fmt.Fprintf(&b, "- **Height:** %g cm\n", p.HeightCM)
		fmt.Fprintf(&b, "- **Daily Water Intake:** %g glasses\n", p.DailyWaterIntake)
		if bmi := p.BMI(); bmi > 0 {
			fmt.Fprintf(&b, "- **BMI:** %.1f (%s)\n", bmi, profiles.BMICategory(bmi))
		}
	} else {
		b.WriteString("- No demographics on file\n")
	}

	if up != nil {
		b.WriteString("\n## Uploaded Scan Information\n")
		fmt.Fprintf(&b, "- **Filename:** %s\n", up.Filename)
		fmt.Fprintf(&b, "- **File Type:** %s\n", up.FileType)
		fmt.Fprintf(&b, "- **Upload Date:** %s\n", up.UploadDate.Format("2006-01-02 15:04:05"))
	}

	b.WriteString(`
## Health Recommendations

### Dietary Guidelines
- Follow a kidney-friendly diet low in sodium
- Monitor protein intake based on kidney function
- Stay adequately hydrated
- Limit processed foods

### Lifestyle Recommendations
- Regular exercise as tolerated
- Monitor blood pressure regularly
- Avoid smoking and limit alcohol
- Get adequate sleep

### Follow-up Care
- Schedule regular check-ups with your healthcare provider
- Monitor kidney function through lab tests
- Keep track of symptoms and report changes

---

*Note: This report is for informational purposes only and should not replace professional medical advice. Always consult with your healthcare provider for personalized recommendations.*
`)

	return b.String()
}

func orNotProvided(s string) string {
	if s == "" {
		return "Not provided"
	}
	return s
}
