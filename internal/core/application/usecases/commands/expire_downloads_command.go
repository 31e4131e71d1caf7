package commands

import (
	"errors"
	"time"

	"pawtraits/internal/pkg/errs"
	"pawtraits/internal/pkg/guard"
)

var ErrExpireDownloadsCommandIsNotConstructed = errors.New(
	"ExpireDownloadsCommand must be created via NewExpireDownloadsCommand constructor",
)

// ExpireDownloadsCommand triggers the expiry sweep: every order whose
// digital delivery was sent and whose download window has closed at the
// given moment is marked expired. The moment is explicit so the sweep is
// deterministic in tests.
type ExpireDownloadsCommand struct {
	now time.Time

	guard guard.ConstructorGuard
}

// NewExpireDownloadsCommand creates an expiry sweep command for the given moment.
func NewExpireDownloadsCommand(now time.Time) (ExpireDownloadsCommand, error) {
	if now.IsZero() {
		return ExpireDownloadsCommand{}, errs.NewValueIsRequiredError("now")
	}

	return ExpireDownloadsCommand{
		now:   now,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// Now returns the sweep moment.
func (c *ExpireDownloadsCommand) Now() time.Time {
	return c.now
}

// Validate ensures the command was created through the constructor.
// Returns ErrExpireDownloadsCommandIsNotConstructed if validation fails.
func (c *ExpireDownloadsCommand) Validate() error {
	return c.guard.Validate(
		ErrExpireDownloadsCommandIsNotConstructed,
	)
}
