// Package authenticity scores how trustworthy a health record snapshot
// looks. It is a deterministic rule-based engine: no I/O, no shared state,
// no clock reads. Every invocation is a pure function of the record and the
// evaluation time, so it is safe to call concurrently and repeatedly.
package authenticity

import (
	"errors"
	"fmt"
	"time"

	"github.com/bryanwahyu/medtrust/internal/domain/records"
)

// ErrMissingDate rejects a record without its mandatory event date. Every
// other field may be absent; absence is treated as a signal, never an error.
var ErrMissingDate = errors.New("record date is required")

// ErrInternal wraps any unexpected failure inside the scoring pipeline.
// The whole call fails; no partial result is returned.
var ErrInternal = errors.New("authenticity analysis failed")

// Analyze runs the full scoring pipeline over a record snapshot and returns
// a fresh AnalysisResult. evalTime is the instant "now" is measured against
// for the future-date check; callers inject it so runs stay deterministic.
// The record is never mutated.
func Analyze(rec *records.HealthRecord, evalTime time.Time) (res records.AnalysisResult, err error) {
	if rec == nil || rec.Date.IsZero() {
		return records.AnalysisResult{}, ErrMissingDate
	}

	defer func() {
		if r := recover(); r != nil {
			res = records.AnalysisResult{}
			err = fmt.Errorf("%w: %v", ErrInternal, r)
		}
	}()

	flags := DetectRedFlags(rec, evalTime)
	suspicion := SuspicionCount(rec.AccessLog)

	metadata := MetadataScore(rec, suspicion)
	content := ContentScore(rec)
	score := AggregateScore(float64(metadata), content)

	codes := make([]string, len(flags))
	for i, f := range flags {
		codes[i] = string(f)
	}

	return records.AnalysisResult{
		Authenticity: records.Authenticity{
			Score: score,
			Flags: codes,
		},
		Recommendations: Recommendations(score, flags),
		AnalyzedAt:      evalTime,
	}, nil
}
