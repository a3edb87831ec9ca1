package models

import "time"

// Report describes a single bootstrap run.
type Report struct {
	ID         int64     `json:"id,omitempty"`
	Path       string    `json:"path"`
	Found      bool      `json:"found"`
	Propagated []string  `json:"propagated"`
	Skipped    []string  `json:"skipped"`
	CreatedAt  time.Time `json:"createdAt"`
}

// CheckResult is an outcome of required keys check.
type CheckResult struct {
	Defined     []string            `json:"defined"`
	Missing     []string            `json:"missing"`
	Suggestions map[string][]string `json:"suggestions,omitempty"`
}

// OK reports whether every required key is defined.
func (r CheckResult) OK() bool {
	return len(r.Missing) == 0
}

const (
	ErrRunID int64 = 0

	DefaultPrefix   = "REACT_APP_"
	RootMarker      = "app-root"
	RootSelector    = `[data-testid="app-root"]`
	BackendURLKey   = "REACT_APP_BACKEND_SERVICE_URL"
	WebsocketURLKey = "REACT_APP_WEBSOCKET_SERVICE_URL"
)
