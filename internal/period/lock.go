package period

// State enumerates the period lifecycle. Locked is terminal: a cooperative
// opens a later period as a fresh snapshot, never by unlocking this one.
type State string

const (
	StateNoPeriod State = "NO_PERIOD"
	StateUnlocked State = "UNLOCKED"
	StateLocked   State = "LOCKED"
)

// StateOf derives the lifecycle state from the stored snapshot.
func StateOf(s *Snapshot) State {
	switch {
	case s == nil:
		return StateNoPeriod
	case s.Locked:
		return StateLocked
	default:
		return StateUnlocked
	}
}

// DirectChangeDecision is the gate result consulted before any direct field
// mutation of the snapshot.
type DirectChangeDecision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

// ValidateDirectChange permits direct mutation while no snapshot exists or
// the snapshot is unlocked, and rejects with the PERIOD_LOCKED reason code
// once locked. The rejection is surfaced as an error by the service, never
// silently redirected to the correction path.
func ValidateDirectChange(s *Snapshot) DirectChangeDecision {
	if StateOf(s) == StateLocked {
		return DirectChangeDecision{Allowed: false, Reason: ReasonPeriodLocked}
	}
	return DirectChangeDecision{Allowed: true}
}

// IsLocked reports whether the stored snapshot exists and is locked.
func IsLocked(s *Snapshot) bool {
	return StateOf(s) == StateLocked
}
