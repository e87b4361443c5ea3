package authenticity

import (
	"time"

	"github.com/bryanwahyu/medtrust/internal/domain/records"
)

// Flag is a discrete structural or temporal anomaly code.
type Flag string

const (
	FlagMissingProvider    Flag = "MISSING_PROVIDER"
	FlagFutureDate         Flag = "FUTURE_DATE"
	FlagInvertedTimestamps Flag = "INVERTED_TIMESTAMPS"
)

// DetectRedFlags inspects a record snapshot for basic red flags.
// Absent optional sub-objects never fail; absence is itself the signal.
func DetectRedFlags(rec *records.HealthRecord, now time.Time) []Flag {
	var flags []Flag

	if rec.Provider == nil || rec.Provider.Name == "" {
		flags = append(flags, FlagMissingProvider)
	}

	if rec.Date.After(now) {
		flags = append(flags, FlagFutureDate)
	}

	if !rec.CreatedAt.IsZero() && !rec.UpdatedAt.IsZero() && rec.UpdatedAt.Before(rec.CreatedAt) {
		flags = append(flags, FlagInvertedTimestamps)
	}

	return flags
}
