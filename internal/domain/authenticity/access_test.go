package authenticity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bryanwahyu/medtrust/internal/domain/records"
)

func entry(at time.Time, ip string) records.AccessEntry {
	return records.AccessEntry{User: "u1", Action: records.ActionView, Timestamp: at, IPAddress: ip}
}

func TestSuspicionCount(t *testing.T) {
	t0 := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	t.Run("empty log", func(t *testing.T) {
		assert.Equal(t, 0, SuspicionCount(nil))
	})

	t.Run("single entry", func(t *testing.T) {
		assert.Equal(t, 0, SuspicionCount([]records.AccessEntry{entry(t0, "10.0.0.1")}))
	})

	t.Run("gaps of exactly 60s do not count", func(t *testing.T) {
		log := []records.AccessEntry{
			entry(t0, "10.0.0.1"),
			entry(t0.Add(60*time.Second), "10.0.0.1"),
			entry(t0.Add(120*time.Second), "10.0.0.1"),
		}
		assert.Equal(t, 0, SuspicionCount(log))
	})

	t.Run("rapid pairs counted per adjacent gap", func(t *testing.T) {
		log := []records.AccessEntry{
			entry(t0, "10.0.0.1"),
			entry(t0.Add(30*time.Second), "10.0.0.1"),
			entry(t0.Add(10*time.Minute), "10.0.0.1"),
			entry(t0.Add(10*time.Minute+5*time.Second), "10.0.0.1"),
		}
		assert.Equal(t, 2, SuspicionCount(log))
	})

	t.Run("log unsorted by time is sorted before pairing", func(t *testing.T) {
		// Insertion order hides the rapid pair; sorted order reveals it.
		log := []records.AccessEntry{
			entry(t0.Add(10*time.Minute), "10.0.0.1"),
			entry(t0, "10.0.0.1"),
			entry(t0.Add(30*time.Second), "10.0.0.1"),
		}
		assert.Equal(t, 1, SuspicionCount(log))
	})

	t.Run("three distinct IPs tolerated", func(t *testing.T) {
		log := []records.AccessEntry{
			entry(t0, "10.0.0.1"),
			entry(t0.Add(2*time.Minute), "10.0.0.2"),
			entry(t0.Add(4*time.Minute), "10.0.0.3"),
		}
		assert.Equal(t, 0, SuspicionCount(log))
	})

	t.Run("more than three distinct IPs adds exactly one", func(t *testing.T) {
		log := []records.AccessEntry{
			entry(t0, "10.0.0.1"),
			entry(t0.Add(2*time.Minute), "10.0.0.2"),
			entry(t0.Add(4*time.Minute), "10.0.0.3"),
			entry(t0.Add(6*time.Minute), "10.0.0.4"),
			entry(t0.Add(8*time.Minute), "10.0.0.5"),
		}
		// one unit regardless of how many IPs past the threshold
		assert.Equal(t, 1, SuspicionCount(log))
	})

	t.Run("five rapid entries across four IPs", func(t *testing.T) {
		log := []records.AccessEntry{
			entry(t0, "10.0.0.1"),
			entry(t0.Add(10*time.Second), "10.0.0.2"),
			entry(t0.Add(20*time.Second), "10.0.0.3"),
			entry(t0.Add(30*time.Second), "10.0.0.4"),
			entry(t0.Add(40*time.Second), "10.0.0.1"),
		}
		// four gap violations plus one IP-dispersion violation
		assert.Equal(t, 5, SuspicionCount(log))
	})

	t.Run("input order is not mutated", func(t *testing.T) {
		log := []records.AccessEntry{
			entry(t0.Add(time.Hour), "10.0.0.1"),
			entry(t0, "10.0.0.2"),
		}
		SuspicionCount(log)
		assert.Equal(t, t0.Add(time.Hour), log[0].Timestamp)
		assert.Equal(t, t0, log[1].Timestamp)
	})
}
