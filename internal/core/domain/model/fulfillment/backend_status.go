package fulfillment

// BackendState is the observable state of one backend-side fulfillment,
// re-derived from persisted records on every call.
type BackendState string

const (
	BackendStatePending    BackendState = "pending"
	BackendStateProcessing BackendState = "processing"
	BackendStateFulfilled  BackendState = "fulfilled"
	BackendStateFailed     BackendState = "failed"
)

// BackendStatus is a backend's read-only answer to a status query. Safe to
// request repeatedly: deriving it has no side effects on fulfillment state.
type BackendStatus struct {
	State BackendState

	// Message is a human-readable status line for support tooling.
	Message string

	// TrackingInfo carries backend-specific observations, e.g. access counts
	// and expiry for digital delivery or carrier data for print.
	TrackingInfo map[string]any
}
