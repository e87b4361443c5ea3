package authenticity

// Score thresholds that trigger reviewer actions.
const (
	scoreNeedsImmediateReview = 50
	scoreNeedsExtraReview     = 75
)

// FlagRemediations maps each red flag to its remediation step. Flags
// without an entry are skipped silently.
var FlagRemediations = map[Flag]string{
	FlagMissingProvider:    "Update document with complete provider details",
	FlagFutureDate:         "Verify and correct document date",
	FlagInvertedTimestamps: "Review document modification history",
}

// Recommendations builds the ordered reviewer action list: score-driven
// items first, then one item per detected flag in detection order.
// Duplicates from overlapping checks are acceptable.
func Recommendations(score int, flags []Flag) []string {
	var out []string

	if score < scoreNeedsImmediateReview {
		out = append(out,
			"Document requires immediate verification by medical staff",
			"Consider requesting original documentation from the provider",
		)
	} else if score < scoreNeedsExtraReview {
		out = append(out,
			"Additional verification recommended",
			"Request supporting documentation if available",
		)
	}

	for _, f := range flags {
		if step, ok := FlagRemediations[f]; ok {
			out = append(out, step)
		}
	}

	return out
}
