package authenticity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bryanwahyu/medtrust/internal/domain/records"
)

func TestContentScore(t *testing.T) {
	followUpDate := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		rec  *records.HealthRecord
		want float64
	}{
		{
			name: "no diagnosis and no treatment",
			rec:  &records.HealthRecord{},
			want: 100,
		},
		{
			name: "consistent mild record",
			rec: &records.HealthRecord{
				Diagnosis: &records.Diagnosis{Condition: "Sprain", Severity: records.SeverityMild},
				Treatment: &records.Treatment{Plan: "Rest", Recommendations: []string{"Ice pack"}},
			},
			want: 100,
		},
		{
			name: "severe without treatment or follow-up",
			rec: &records.HealthRecord{
				Diagnosis: &records.Diagnosis{Condition: "Fracture", Severity: records.SeveritySevere},
			},
			// follow-up sub-check only: 100 - (100-50)*0.2
			want: 90,
		},
		{
			name: "moderate without follow-up",
			rec: &records.HealthRecord{
				Diagnosis: &records.Diagnosis{Condition: "Strain", Severity: records.SeverityModerate},
				Treatment: &records.Treatment{
					Plan:            "Physio",
					Medications:     []records.Medication{{Name: "Ibuprofen"}},
					Recommendations: []string{"Limit training"},
				},
			},
			want: 94,
		},
		{
			name: "severe with hollow treatment",
			rec: &records.HealthRecord{
				Diagnosis: &records.Diagnosis{Condition: "Fracture", Severity: records.SeveritySevere},
				Treatment: &records.Treatment{Plan: "   "},
			},
			// dt=40 -> -18, fu=50 -> -10
			want: 72,
		},
		{
			name: "follow-up required but undated",
			rec: &records.HealthRecord{
				Diagnosis: &records.Diagnosis{Condition: "Sprain", Severity: records.SeverityMild},
				FollowUp:  &records.FollowUp{Required: true},
			},
			want: 96,
		},
		{
			name: "severe with proper follow-up",
			rec: &records.HealthRecord{
				Diagnosis: &records.Diagnosis{Condition: "Fracture", Severity: records.SeveritySevere},
				Treatment: &records.Treatment{
					Plan:            "Cast and rest",
					Medications:     []records.Medication{{Name: "Paracetamol"}},
					Recommendations: []string{"No contact training"},
				},
				FollowUp: &records.FollowUp{Required: true, Date: &followUpDate},
			},
			want: 100,
		},
		{
			name: "diagnosis without severity skips follow-up check",
			rec: &records.HealthRecord{
				Diagnosis: &records.Diagnosis{Condition: "Unknown"},
				Treatment: &records.Treatment{Plan: "Observe", Recommendations: []string{"Re-examine"}},
			},
			want: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ContentScore(tt.rec), 1e-9)
		})
	}
}

func TestClampScore(t *testing.T) {
	assert.Equal(t, 0.0, clampScore(-5))
	assert.Equal(t, 100.0, clampScore(101))
	assert.Equal(t, 42.5, clampScore(42.5))
}
