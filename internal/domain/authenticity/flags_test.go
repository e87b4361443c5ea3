package authenticity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bryanwahyu/medtrust/internal/domain/records"
)

var evalTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestDetectRedFlags(t *testing.T) {
	base := func() *records.HealthRecord {
		return &records.HealthRecord{
			Date:      evalTime.AddDate(0, 0, -7),
			Provider:  &records.Provider{Name: "Dr. X", Institution: "City Hospital"},
			CreatedAt: evalTime.AddDate(0, 0, -6),
			UpdatedAt: evalTime.AddDate(0, 0, -5),
		}
	}

	t.Run("clean record has no flags", func(t *testing.T) {
		assert.Empty(t, DetectRedFlags(base(), evalTime))
	})

	t.Run("nil provider", func(t *testing.T) {
		rec := base()
		rec.Provider = nil
		assert.Equal(t, []Flag{FlagMissingProvider}, DetectRedFlags(rec, evalTime))
	})

	t.Run("provider without name", func(t *testing.T) {
		rec := base()
		rec.Provider = &records.Provider{Institution: "City Hospital"}
		assert.Equal(t, []Flag{FlagMissingProvider}, DetectRedFlags(rec, evalTime))
	})

	t.Run("future date", func(t *testing.T) {
		rec := base()
		rec.Date = evalTime.Add(time.Hour)
		assert.Equal(t, []Flag{FlagFutureDate}, DetectRedFlags(rec, evalTime))
	})

	t.Run("date equal to evaluation instant is not future", func(t *testing.T) {
		rec := base()
		rec.Date = evalTime
		assert.Empty(t, DetectRedFlags(rec, evalTime))
	})

	t.Run("inverted timestamps", func(t *testing.T) {
		rec := base()
		rec.CreatedAt = evalTime
		rec.UpdatedAt = evalTime.Add(-time.Minute)
		assert.Equal(t, []Flag{FlagInvertedTimestamps}, DetectRedFlags(rec, evalTime))
	})

	t.Run("missing timestamps never flag", func(t *testing.T) {
		rec := base()
		rec.CreatedAt = time.Time{}
		rec.UpdatedAt = time.Time{}
		assert.Empty(t, DetectRedFlags(rec, evalTime))
	})

	t.Run("all three in detection order", func(t *testing.T) {
		rec := base()
		rec.Provider = nil
		rec.Date = evalTime.AddDate(0, 0, 1) // tomorrow
		rec.CreatedAt = evalTime
		rec.UpdatedAt = evalTime.Add(-time.Hour)
		assert.Equal(t,
			[]Flag{FlagMissingProvider, FlagFutureDate, FlagInvertedTimestamps},
			DetectRedFlags(rec, evalTime))
	})
}
