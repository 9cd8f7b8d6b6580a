package models

// Kind classifies a monitor. The main and custom monitors are seeded at
// startup and can never be removed; extra monitors are added and removed by
// viewers at runtime.
type Kind string

const (
	KindMain   Kind = "main"
	KindCustom Kind = "custom"
	KindExtra  Kind = "extra"
)

// Status is the debounced health of a monitor. It only changes once the
// confirmation threshold of consecutive identical probe outcomes is reached.
type Status string

const (
	StatusUnknown Status = "unknown"
	StatusUp      Status = "up"
	StatusDown    Status = "down"
)

// Monitor is a single tracked network target plus its rolling health state.
type Monitor struct {
	ID     string `json:"id"`
	Target string `json:"target"`
	Label  string `json:"label,omitempty"`
	Kind   Kind   `json:"kind"`

	ConfirmedStatus      Status `json:"confirmed_status"`
	ConsecutiveFailures  int    `json:"consecutive_failures"`
	ConsecutiveSuccesses int    `json:"consecutive_successes"`
}
