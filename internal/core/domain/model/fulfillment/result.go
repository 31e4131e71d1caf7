package fulfillment

// Result is the transient outcome a backend returns for one claimed batch of
// items. One Result describes the whole batch, not one item. Results are
// never persisted verbatim: they reduce into the order's fulfillment status
// and into tracking records.
type Result struct {
	// Backend is the reporting backend's name, set by the router.
	Backend string

	Success bool

	// FulfillmentID identifies the backend-side fulfillment for later
	// Status/Cancel calls (order id for digital delivery, provider
	// submission id for print).
	FulfillmentID string

	// TrackingInfo carries backend-specific context such as issued download
	// grants or provider tracking data.
	TrackingInfo map[string]any

	Err *Error
}

// NewSuccessResult creates a successful batch result.
func NewSuccessResult(fulfillmentID string, trackingInfo map[string]any) Result {
	return Result{
		Success:       true,
		FulfillmentID: fulfillmentID,
		TrackingInfo:  trackingInfo,
	}
}

// NewFailedResult creates a failed batch result carrying a classified error.
func NewFailedResult(err *Error) Result {
	return Result{
		Success: false,
		Err:     err,
	}
}

// ErrorMessage returns the failure message, empty for successful results.
func (r Result) ErrorMessage() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}
