package metrics

import "testing"

// The collectors register lazily behind a sync.Once; recording from multiple
// call sites must never panic or double-register.
func TestRecordersAreSafeToCallRepeatedly(t *testing.T) {
	for i := 0; i < 3; i++ {
		RecordTurn("opening", "pro")
		RecordTurn("rebuttal", "con")
		RecordFallbackTurn()
		RecordDuplicateRetry()
		RecordEvidenceLookup("hit")
		RecordEvidenceLookup("error")
		ObserveProviderDuration("openai", 0.25)
	}
}
