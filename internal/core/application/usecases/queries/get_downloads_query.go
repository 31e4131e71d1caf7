package queries

import (
	"errors"
	"time"

	"pawtraits/internal/core/domain/model/kernel"
	"pawtraits/internal/pkg/errs"
	"pawtraits/internal/pkg/guard"
)

var ErrGetDownloadsQueryIsNotConstructed = errors.New(
	"GetDownloadsQuery must be created via NewGetDownloadsQuery constructor",
)

// GetDownloadsQuery retrieves the active download grants of one order:
// every digital item projection whose download window has not yet closed.
//
// Example:
//
//	query, err := NewGetDownloadsQuery(orderID, time.Now())
//	if err != nil {
//	    return err
//	}
//	handler := NewGetDownloadsQueryHandler(db)
//	downloads, err := handler.Handle(ctx, query)
type GetDownloadsQuery struct {
	orderID kernel.UUID
	now     time.Time

	guard guard.ConstructorGuard
}

// NewGetDownloadsQuery creates a downloads query for the given order at the
// given moment. The moment is explicit so the activity cutoff is
// deterministic in tests.
func NewGetDownloadsQuery(orderID kernel.UUID, now time.Time) (GetDownloadsQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetDownloadsQuery{}, errs.NewValueIsRequiredErrorWithCause("orderID", err)
	}
	if now.IsZero() {
		return GetDownloadsQuery{}, errs.NewValueIsRequiredError("now")
	}

	return GetDownloadsQuery{
		orderID: orderID,
		now:     now,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// OrderID returns the identifier of the order whose downloads to list.
func (q GetDownloadsQuery) OrderID() kernel.UUID {
	return q.orderID
}

// Now returns the activity cutoff moment.
func (q GetDownloadsQuery) Now() time.Time {
	return q.now
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetDownloadsQueryIsNotConstructed if validation fails.
func (q GetDownloadsQuery) Validate() error {
	return q.guard.Validate(ErrGetDownloadsQueryIsNotConstructed)
}

// GetDownloadsQueryResponse is one active download grant projection.
type GetDownloadsQueryResponse struct {
	ItemID        kernel.UUID
	DownloadURL   string
	Format        string
	FileSizeBytes int64
	ExpiresAt     time.Time
	AccessCount   int
}
