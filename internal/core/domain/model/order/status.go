package order

import (
	"fmt"

	"pawtraits/internal/pkg/errs"
)

// Status represents the fulfillment lifecycle state of an order.
// It implements a state machine with defined transitions so orders follow
// the correct fulfillment workflow.
//
// State transitions:
//
//	Pending -> Processing -> Fulfilled | PartiallyFulfilled | Failed
//	Failed  -> Processing (failed runs may be retried)
//
// Fulfilled and PartiallyFulfilled are terminal for this subsystem; a
// partially fulfilled order is resolved by an operator, not by re-running
// the router.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status after checkout, before any backend has run.
	Pending

	// Processing indicates a fulfillment run is in flight for the order.
	Processing

	// Fulfilled indicates every backend group succeeded.
	Fulfilled

	// PartiallyFulfilled indicates at least one backend group succeeded and
	// at least one failed. Surfaced distinctly so operators can intervene.
	PartiallyFulfilled

	// Failed indicates no backend group succeeded. Failed orders may be
	// fulfilled again.
	Failed
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:            "unknown",
		Pending:            "pending",
		Processing:         "processing",
		Fulfilled:          "fulfilled",
		PartiallyFulfilled: "partially_fulfilled",
		Failed:             "failed",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Pending:            "pending",
		Processing:         "processing",
		Fulfilled:          "fulfilled",
		PartiallyFulfilled: "partially_fulfilled",
		Failed:             "failed",
	}
}

// Validate checks if the Status value is valid.
// Unknown (0) and out-of-range values are invalid.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the persisted name of the status.
// Implements fmt.Stringer and is safe to call on any Status value.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// ValidateStart checks if a fulfillment run may begin from the current status
// without performing the transition.
//
// Valid statuses to start from:
//   - Pending (first run)
//   - Failed (operator-triggered re-run)
//
// Everything else is rejected: this is the status precondition that guards
// against double invocation of fulfillment for the same order.
func (s Status) ValidateStart() error {
	if s != Pending && s != Failed {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to start fulfillment", s.String()),
		)
	}
	return nil
}

// Start transitions the status to Processing.
//
// Valid transitions:
//   - Pending -> Processing
//   - Failed -> Processing (re-run)
//
// Returns (0, error) if the transition is not allowed from the current status.
func (s Status) Start() (Status, error) {
	if err := s.ValidateStart(); err != nil {
		return 0, err
	}

	return Processing, nil
}

// CompleteWith transitions the status from Processing to the reduced outcome
// of a fulfillment run.
//
// Valid outcomes are Fulfilled, PartiallyFulfilled and Failed; any other
// outcome, or a current status other than Processing, is rejected.
func (s Status) CompleteWith(outcome Status) (Status, error) {
	if s != Processing {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to complete fulfillment", s.String()),
		)
	}

	switch outcome {
	case Fulfilled, PartiallyFulfilled, Failed:
		return outcome, nil
	default:
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid fulfillment outcome", outcome.String()),
		)
	}
}
