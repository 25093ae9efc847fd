package session

import "time"

// LoadOutcome classifies what Manager.Load found in the request.
type LoadOutcome string

const (
	LoadMissing  LoadOutcome = "missing"
	LoadRestored LoadOutcome = "restored"
	LoadExpired  LoadOutcome = "expired"
	LoadRejected LoadOutcome = "rejected"
	LoadInvalid  LoadOutcome = "invalid"
)

// SaveOutcome classifies what Session.Save wrote.
type SaveOutcome string

const (
	SaveWritten  SaveOutcome = "written"
	SaveDeleted  SaveOutcome = "deleted"
	SaveExpired  SaveOutcome = "expired"
	SaveTooLarge SaveOutcome = "too_large"
	SaveTimeout  SaveOutcome = "timeout"
	SaveFailed   SaveOutcome = "failed"
)

// Reasons reported to Observer.KeyAttemptFailed.
const (
	ReasonTimeout   = "timeout"
	ReasonDecrypt   = "decrypt"
	ReasonMalformed = "malformed"
	ReasonExpired   = "expired"
	ReasonCanceled  = "canceled"
	ReasonError     = "error"
)

// Observer receives session lifecycle events. Implementations must be safe
// for concurrent use.
type Observer interface {
	SessionLoaded(outcome LoadOutcome, elapsed time.Duration)
	KeyAttemptFailed(keyIndex int, reason string)
	SessionSaved(outcome SaveOutcome, size int)
}

// NopObserver discards all events.
type NopObserver struct{}

func (NopObserver) SessionLoaded(LoadOutcome, time.Duration) {}
func (NopObserver) KeyAttemptFailed(int, string)            {}
func (NopObserver) SessionSaved(SaveOutcome, int)           {}
