package authenticity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bryanwahyu/medtrust/internal/domain/records"
)

func TestMetadataScore(t *testing.T) {
	full := func() *records.HealthRecord {
		return &records.HealthRecord{
			Provider:  &records.Provider{Name: "Dr. X", Institution: "City Hospital"},
			Diagnosis: &records.Diagnosis{Condition: "Sprain", Severity: records.SeverityMild},
		}
	}

	tests := []struct {
		name      string
		mutate    func(*records.HealthRecord)
		suspicion int
		want      int
	}{
		{name: "complete metadata", want: 100},
		{name: "missing institution", mutate: func(r *records.HealthRecord) { r.Provider.Institution = "" }, want: 80},
		{name: "nil provider", mutate: func(r *records.HealthRecord) { r.Provider = nil }, want: 80},
		{name: "missing condition", mutate: func(r *records.HealthRecord) { r.Diagnosis.Condition = "" }, want: 85},
		{name: "nil diagnosis", mutate: func(r *records.HealthRecord) { r.Diagnosis = nil }, want: 85},
		{name: "both missing", mutate: func(r *records.HealthRecord) { r.Provider = nil; r.Diagnosis = nil }, want: 65},
		{name: "suspicion five", suspicion: 5, want: 50},
		{name: "floor at zero", suspicion: 20, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := full()
			if tt.mutate != nil {
				tt.mutate(rec)
			}
			assert.Equal(t, tt.want, MetadataScore(rec, tt.suspicion))
		})
	}
}

// An extra rapid access entry may lower the metadata score but can never
// raise it.
func TestMetadataScoreMonotonicInSuspicion(t *testing.T) {
	t0 := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	rec := &records.HealthRecord{
		Provider:  &records.Provider{Name: "Dr. X", Institution: "City Hospital"},
		Diagnosis: &records.Diagnosis{Condition: "Sprain"},
	}

	log := []records.AccessEntry{entry(t0, "10.0.0.1"), entry(t0.Add(5*time.Minute), "10.0.0.1")}
	before := MetadataScore(rec, SuspicionCount(log))

	log = append(log, entry(t0.Add(5*time.Minute+10*time.Second), "10.0.0.2"))
	after := MetadataScore(rec, SuspicionCount(log))

	assert.LessOrEqual(t, after, before)
}
