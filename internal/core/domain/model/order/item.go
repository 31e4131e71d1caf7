package order

import (
	"errors"
	"time"

	"pawtraits/internal/core/domain/model/kernel"
	"pawtraits/internal/pkg/errs"
)

// ErrItemIsNotConstructed is returned when an Item instance was not created
// through the NewItem/NewMultiImageItem factory functions.
var ErrItemIsNotConstructed = errors.New("Item must be created via NewItem or NewMultiImageItem constructor")

// ErrItemHasNoImages is returned when an item carries neither a single image
// reference nor a non-empty image list.
var ErrItemHasNoImages = errors.New("item must reference at least one image")

// Item is a line item belonging to exactly one Order. It carries the product
// classification, the portrait image reference(s) the item was generated
// from, and the digital-delivery projection written when a download grant is
// issued.
//
// An item references either a single image (imageID) or an ordered list of
// images (imageIDs) for multi-image products such as multi-pet collages.
// The two are mutually exclusive.
//
// downloadAccessCount is incremented by the external download endpoint, never
// by this subsystem; it is restored from persistence and read when deriving
// delivery status.
type Item struct {
	id          kernel.UUID
	productType ProductType

	imageID  *kernel.UUID
	imageIDs []kernel.UUID

	// preferredFormat comes from the item's product configuration and may be
	// empty, in which case the digital delivery service applies its default.
	preferredFormat string

	isDigital              bool
	downloadURL            string
	downloadURLGeneratedAt *time.Time
	downloadExpiresAt      *time.Time
	digitalFileFormat      string
	digitalFileSizeBytes   int64
	downloadAccessCount    int

	isConstructed bool
}

// NewItem creates a single-image line item.
//
// Parameters:
//   - id: unique item identifier
//   - productType: physical print, digital download, or unspecified (legacy)
//   - imageID: the generated portrait image this item was purchased for
//   - preferredFormat: digital file format from the product configuration,
//     empty for the default
func NewItem(id kernel.UUID, productType ProductType, imageID kernel.UUID, preferredFormat string) (*Item, error) {
	if err := errors.Join(
		id.Validate(),
		productType.Validate(),
		imageID.Validate(),
	); err != nil {
		return nil, err
	}

	return &Item{
		id:              id,
		productType:     productType,
		imageID:         &imageID,
		preferredFormat: preferredFormat,
		isConstructed:   true,
	}, nil
}

// NewMultiImageItem creates a line item for a multi-image product.
// The image list must be non-empty; its order is preserved and determines
// the order download grants are generated in.
func NewMultiImageItem(id kernel.UUID, productType ProductType, imageIDs []kernel.UUID, preferredFormat string) (*Item, error) {
	if err := errors.Join(
		id.Validate(),
		productType.Validate(),
	); err != nil {
		return nil, err
	}

	if len(imageIDs) == 0 {
		return nil, ErrItemHasNoImages
	}

	ids := make([]kernel.UUID, len(imageIDs))
	for i, imageID := range imageIDs {
		if err := imageID.Validate(); err != nil {
			return nil, err
		}
		ids[i] = imageID
	}

	return &Item{
		id:              id,
		productType:     productType,
		imageIDs:        ids,
		preferredFormat: preferredFormat,
		isConstructed:   true,
	}, nil
}

// RestoreItem reconstructs an item from persistence, including the
// digital-delivery projection. Used only by repository implementations.
func RestoreItem(
	id kernel.UUID,
	productType ProductType,
	imageID *kernel.UUID,
	imageIDs []kernel.UUID,
	preferredFormat string,
	isDigital bool,
	downloadURL string,
	downloadURLGeneratedAt *time.Time,
	downloadExpiresAt *time.Time,
	digitalFileFormat string,
	digitalFileSizeBytes int64,
	downloadAccessCount int,
) (*Item, error) {
	var item *Item
	var err error

	if len(imageIDs) > 0 {
		item, err = NewMultiImageItem(id, productType, imageIDs, preferredFormat)
	} else {
		if imageID == nil {
			return nil, ErrItemHasNoImages
		}
		item, err = NewItem(id, productType, *imageID, preferredFormat)
	}
	if err != nil {
		return nil, err
	}

	item.isDigital = isDigital
	item.downloadURL = downloadURL
	item.downloadURLGeneratedAt = downloadURLGeneratedAt
	item.downloadExpiresAt = downloadExpiresAt
	item.digitalFileFormat = digitalFileFormat
	item.digitalFileSizeBytes = digitalFileSizeBytes
	item.downloadAccessCount = downloadAccessCount
	return item, nil
}

// Validate ensures the Item was properly constructed through a factory function.
func (i *Item) Validate() error {
	if i == nil || !i.isConstructed {
		return ErrItemIsNotConstructed
	}
	return nil
}

// ID returns the item's unique identifier.
func (i *Item) ID() kernel.UUID {
	return i.id
}

// ProductType returns the item's product classification.
func (i *Item) ProductType() ProductType {
	return i.productType
}

// IsMultiImage reports whether the item references an ordered image list
// rather than a single image.
func (i *Item) IsMultiImage() bool {
	return len(i.imageIDs) > 0
}

// ImageRefs returns the item's image references in generation order.
// Single-image items return a one-element slice.
func (i *Item) ImageRefs() []kernel.UUID {
	if i.IsMultiImage() {
		refs := make([]kernel.UUID, len(i.imageIDs))
		copy(refs, i.imageIDs)
		return refs
	}
	return []kernel.UUID{*i.imageID}
}

// ImageID returns the single image reference, or nil for multi-image items.
func (i *Item) ImageID() *kernel.UUID {
	return i.imageID
}

// ImageIDs returns the ordered image list, empty for single-image items.
func (i *Item) ImageIDs() []kernel.UUID {
	return i.imageIDs
}

// PreferredFormat returns the digital file format from the product
// configuration. Empty means "use the service default".
func (i *Item) PreferredFormat() string {
	return i.preferredFormat
}

// IsDigital reports whether a download grant has been issued for this item.
func (i *Item) IsDigital() bool {
	return i.isDigital
}

// DownloadURL returns the most recently persisted download URL.
func (i *Item) DownloadURL() string {
	return i.downloadURL
}

// DownloadURLGeneratedAt returns when the persisted grant was generated.
func (i *Item) DownloadURLGeneratedAt() *time.Time {
	return i.downloadURLGeneratedAt
}

// DownloadExpiresAt returns when the persisted grant expires.
func (i *Item) DownloadExpiresAt() *time.Time {
	return i.downloadExpiresAt
}

// DigitalFileFormat returns the persisted grant's file format.
func (i *Item) DigitalFileFormat() string {
	return i.digitalFileFormat
}

// DigitalFileSizeBytes returns the persisted grant's estimated file size.
func (i *Item) DigitalFileSizeBytes() int64 {
	return i.digitalFileSizeBytes
}

// DownloadAccessCount returns how many times the item's download has been
// served by the external download endpoint.
func (i *Item) DownloadAccessCount() int {
	return i.downloadAccessCount
}

// ApplyGrant copies a download grant's fields onto the item and resets the
// access counter. When an item produces multiple grants (multi-image
// product), each call overwrites the previous one: only the last grant's
// fields survive on the item row. That limitation is deliberate and relied
// upon downstream; the full grant list travels in the fulfillment result's
// tracking info instead.
func (i *Item) ApplyGrant(downloadURL, fileFormat string, fileSizeBytes int64, generatedAt, expiresAt time.Time) error {
	if downloadURL == "" {
		return errs.NewValueIsRequiredError("downloadURL")
	}
	if fileFormat == "" {
		return errs.NewValueIsRequiredError("fileFormat")
	}

	i.isDigital = true
	i.downloadURL = downloadURL
	i.digitalFileFormat = fileFormat
	i.digitalFileSizeBytes = fileSizeBytes
	i.downloadURLGeneratedAt = &generatedAt
	i.downloadExpiresAt = &expiresAt
	i.downloadAccessCount = 0
	return nil
}

// ExpireDownload forces the item's grant expiry to the given moment.
// Items without a grant are left untouched.
func (i *Item) ExpireDownload(now time.Time) {
	if !i.isDigital {
		return
	}
	i.downloadExpiresAt = &now
}
