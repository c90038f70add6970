package provision

// Phase identifies a stage of the provisioning sequence.
type Phase string

const (
	// PhasePowerOff is the modem power-down before key-store writes
	PhasePowerOff Phase = "power-off"

	// PhaseIdentity is the identity read and region write
	PhaseIdentity Phase = "identity"

	// PhaseCredentials is the staged-record forwarding loop
	PhaseCredentials Phase = "credentials"

	// PhaseComplete is emitted once after the outcome is recorded
	PhaseComplete Phase = "complete"
)

// Event reports progress during a provisioning run.
type Event struct {
	// Phase is the stage the run is in
	Phase Phase

	// Record is the 1-based record being forwarded; zero outside the
	// credential loop
	Record int

	// TotalRecords is the staged record count; zero outside the
	// credential loop
	TotalRecords int
}

// EventCallback receives progress events during Run.
type EventCallback func(Event)
