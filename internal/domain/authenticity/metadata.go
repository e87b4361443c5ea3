package authenticity

import (
	"github.com/bryanwahyu/medtrust/internal/domain/records"
)

// MetadataScore rates how trustworthy the record's metadata looks, 0-100.
// Starts at 100 and deducts for suspicious access patterns, an unverifiable
// provider and an incomplete diagnosis. Floor is 0.
func MetadataScore(rec *records.HealthRecord, suspicion int) int {
	score := 100

	score -= 10 * suspicion

	if rec.Provider == nil || rec.Provider.Institution == "" {
		score -= 20
	}

	if rec.Diagnosis == nil || rec.Diagnosis.Condition == "" {
		score -= 15
	}

	if score < 0 {
		score = 0
	}
	return score
}
