package ports

import (
	"context"

	"pawtraits/internal/core/domain/model/kernel"
)

// ImageStore resolves a generated portrait image identifier to its storage
// reference in the asset CDN. The actual transformation and signing of assets
// happens behind the external download endpoint, not here.
type ImageStore interface {
	// StorageKey returns the storage reference for an image.
	// Returns an errs.ObjectNotFoundError-wrapped error when the image
	// metadata is missing.
	StorageKey(ctx context.Context, imageID kernel.UUID) (string, error)
}
