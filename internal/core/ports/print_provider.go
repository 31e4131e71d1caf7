package ports

import "context"

// PrintSubmissionItem is one physical line item submitted for printing.
type PrintSubmissionItem struct {
	ItemID      string
	ProductType string
	// StorageKeys reference the portrait assets to print, in order.
	StorageKeys []string
}

// PrintSubmission is a batch of physical items for one order.
type PrintSubmission struct {
	OrderID     string
	OrderNumber string
	Items       []PrintSubmissionItem
}

// PrintJob is the provider's view of a submitted batch.
type PrintJob struct {
	ID     string
	Status string
	// TrackingNumber and Carrier are empty until the provider ships the job.
	TrackingNumber string
	Carrier        string
}

// PrintProvider is the opaque print-on-demand collaborator. The protocol
// details are the adapter's concern; retry policy and timeouts live behind
// this port, never in the router.
type PrintProvider interface {
	// Submit sends a batch of physical items for printing and returns the
	// provider-side job.
	Submit(ctx context.Context, submission PrintSubmission) (PrintJob, error)

	// Job retrieves the current provider-side state of a submitted job.
	Job(ctx context.Context, jobID string) (PrintJob, error)
}
