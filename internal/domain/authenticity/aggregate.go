package authenticity

import "math"

// Blend weights: metadata 40%, content 60%.
const (
	metadataWeight = 0.4
	contentWeight  = 0.6
)

// AggregateScore blends the metadata and content scores into the final
// authenticity score. Rounding is half away from zero (math.Round), which
// for these non-negative inputs behaves as round-half-up.
func AggregateScore(metadata, content float64) int {
	return int(math.Round(metadata*metadataWeight + content*contentWeight))
}
