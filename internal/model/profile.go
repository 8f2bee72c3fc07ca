package model

import "time"

// PlatformProfile is the per-platform configuration read by every pipeline
// stage as a gating input. It is long-lived and persisted by the storage
// layer; the pipeline itself only reads it.
type PlatformProfile struct {
	UpdatedAt          time.Time
	Platform           Platform
	PackageIdentifiers []string // current package name first, legacy names after
	MinimumAmount      float64
	PriorityWeight     float64
	IsEnabled          bool
	AutoAcceptEnabled  bool
	ShouldRemove       bool // platform deprecated; gate out all signals
}

// AttemptOutcome is the terminal (or pending) result of one accept attempt.
type AttemptOutcome string

// Attempt outcomes.
const (
	OutcomePending   AttemptOutcome = "PENDING"
	OutcomeSucceeded AttemptOutcome = "SUCCEEDED"
	OutcomeFailed    AttemptOutcome = "FAILED"
	OutcomeAbandoned AttemptOutcome = "ABANDONED"
)

// AcceptanceAttempt tracks one in-flight accept operation. It is created
// when the coordinator begins processing a signal and discarded once a
// terminal outcome is reached.
type AcceptanceAttempt struct {
	StartedAt  time.Time
	LastAction time.Time
	Signal     OrderSignal
	Outcome    AttemptOutcome
	Platform   Platform
	Retries    int
}
