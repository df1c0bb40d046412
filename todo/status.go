package todo

import "context"

// Phase is the state the application starts in.
type Phase string

const (
	// PhaseReady means the backend answered and the todos loaded.
	PhaseReady Phase = "ready"

	// PhaseSetup means the startup health probe failed. The user is shown
	// setup guidance and a retry control.
	PhaseSetup Phase = "setup"

	// PhaseError means the backend is set up but loading the todos failed.
	PhaseError Phase = "error"
)

// Status describes the startup state.
type Status struct {
	Phase    Phase     `json:"phase"`
	Kind     ErrorKind `json:"kind,omitempty"`
	Message  string    `json:"message,omitempty"`
	Guidance []string  `json:"guidance,omitempty"`
}

// Ready reports whether the application can be used.
func (s Status) Ready() bool {
	return s.Phase == PhaseReady
}

// SetupGuidance lists the steps that usually fix a failed health probe.
func SetupGuidance() []string {
	return []string{
		"Check that the backend driver and URL are configured ([backend] in focusflow.toml or FOCUSFLOW_DATABASE_URL).",
		"Create the todos and sub_todos tables by running `focusflow migrate`.",
		"Check that the database role can read and write the todos and sub_todos tables.",
	}
}

// Probe checks the backend's health.
func Probe(ctx context.Context, port Port) Status {
	if err := port.ProbeHealth(ctx); err != nil {
		return Status{
			Phase:    PhaseSetup,
			Kind:     KindOf(err),
			Message:  "Cannot connect to the todo backend: " + err.Error(),
			Guidance: SetupGuidance(),
		}
	}
	return Status{Phase: PhaseReady}
}

// Startup probes the backend and then loads the user's todos into cache.
// A failed probe and a failed load produce different phases.
func Startup(ctx context.Context, port Port, cache *Cache) Status {
	status := Probe(ctx, port)
	if !status.Ready() {
		return status
	}
	if _, err := cache.Todos(ctx); err != nil {
		return StatusFromError(err)
	}
	return status
}

// StatusFromError describes a failure to load todos after startup.
func StatusFromError(err error) Status {
	return Status{Phase: PhaseError, Kind: KindOf(err), Message: err.Error()}
}
