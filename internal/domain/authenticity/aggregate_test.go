package authenticity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAggregateScore(t *testing.T) {
	tests := []struct {
		name     string
		metadata float64
		content  float64
		want     int
	}{
		{"both perfect", 100, 100, 100},
		{"both zero", 0, 0, 0},
		{"content dominates", 85, 70, 76},
		{"half rounds away from zero", 100, 57.5, 75},
		{"half rounds up at 83.5", 100, 72.5, 84},
		{"metadata only", 50, 100, 80},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AggregateScore(tt.metadata, tt.content))
		})
	}
}
