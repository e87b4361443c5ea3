package authenticity

import (
	"strings"

	"github.com/bryanwahyu/medtrust/internal/domain/records"
)

// ContentScore cross-checks semantically related parts of the record and
// returns a content-trust score in [0,100]. The float is preserved here;
// rounding happens once, at aggregation.
func ContentScore(rec *records.HealthRecord) float64 {
	score := 100.0

	// Diagnosis-treatment consistency applies only when both are present.
	if rec.Diagnosis != nil && rec.Treatment != nil {
		score -= (100 - diagnosisTreatmentScore(rec.Diagnosis, rec.Treatment)) * 0.3
	}

	// Follow-up appropriateness applies only when a severity is recorded.
	if rec.Diagnosis != nil && rec.Diagnosis.Severity != "" {
		score -= (100 - followUpScore(rec.Diagnosis.Severity, rec.FollowUp)) * 0.2
	}

	return clampScore(score)
}

func diagnosisTreatmentScore(d *records.Diagnosis, t *records.Treatment) float64 {
	score := 100.0

	if strings.TrimSpace(t.Plan) == "" {
		score -= 30
	}

	// Moderate and severe conditions are expected to carry medications.
	if (d.Severity == records.SeverityModerate || d.Severity == records.SeveritySevere) && len(t.Medications) == 0 {
		score -= 20
	}

	if len(t.Recommendations) == 0 {
		score -= 10
	}

	return clampScore(score)
}

func followUpScore(severity records.Severity, f *records.FollowUp) float64 {
	score := 100.0

	if severity == records.SeveritySevere && (f == nil || !f.Required) {
		score -= 50
	}

	if severity == records.SeverityModerate && (f == nil || !f.Required) {
		score -= 30
	}

	if f != nil && f.Required && f.Date == nil {
		score -= 20
	}

	return clampScore(score)
}

func clampScore(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}
