package order

import (
	"fmt"

	"pawtraits/internal/pkg/errs"
)

// ProductType classifies what a line item physically is: a physical print, a
// standalone purchased digital download, or unspecified for legacy rows
// created before the type was recorded. Legacy items are treated as physical,
// which also entitles them to the bundled digital copy.
type ProductType int

const (
	// ProductTypeUnspecified marks legacy items with no recorded product type.
	// Treated as a physical print everywhere a decision is needed.
	ProductTypeUnspecified ProductType = iota

	// ProductTypePhysicalPrint is a printed portrait shipped by the
	// print-on-demand provider. Physical purchases include a bundled
	// digital copy.
	ProductTypePhysicalPrint

	// ProductTypeDigitalDownload is a standalone purchased digital product.
	ProductTypeDigitalDownload
)

func getProductTypeStrings() map[ProductType]string {
	return map[ProductType]string{
		ProductTypeUnspecified:     "unspecified",
		ProductTypePhysicalPrint:   "physical_print",
		ProductTypeDigitalDownload: "digital_download",
	}
}

// Validate checks if the ProductType value is valid.
// Unspecified is valid: it is real legacy data, not an error.
func (p ProductType) Validate() error {
	if _, ok := getProductTypeStrings()[p]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("product type is invalid",
			fmt.Errorf("%d is not a valid product type", p))
	}
	return nil
}

// IsPhysical reports whether the item requires physical printing.
// Unspecified legacy items count as physical.
func (p ProductType) IsPhysical() bool {
	return p == ProductTypePhysicalPrint || p == ProductTypeUnspecified
}

// IsDigital reports whether the item is an explicitly purchased digital download.
func (p ProductType) IsDigital() bool {
	return p == ProductTypeDigitalDownload
}

// String returns the persisted name of the product type.
func (p ProductType) String() string {
	if str, ok := getProductTypeStrings()[p]; ok {
		return str
	}
	return "unspecified"
}

// FulfillmentType is the order-level classification derived from its items.
//
// Hybrid is reserved for orders combining physical items with separately
// purchased digital line items. An order of physical prints is classified
// Physical even though every print carries a bundled digital copy: the
// bundled copy is a free add-on, not a purchased digital product.
type FulfillmentType int

const (
	// FulfillmentTypeUnclassified is the zero value before the router has
	// classified the order.
	FulfillmentTypeUnclassified FulfillmentType = iota

	// FulfillmentTypePhysical covers orders whose items are all physical
	// (including legacy unspecified items).
	FulfillmentTypePhysical

	// FulfillmentTypeDigital covers orders whose items are all purchased
	// digital downloads.
	FulfillmentTypeDigital

	// FulfillmentTypeHybrid covers orders with at least one physical item and
	// at least one purchased digital item.
	FulfillmentTypeHybrid
)

func getFulfillmentTypeStrings() map[FulfillmentType]string {
	return map[FulfillmentType]string{
		FulfillmentTypeUnclassified: "unclassified",
		FulfillmentTypePhysical:     "physical",
		FulfillmentTypeDigital:      "digital",
		FulfillmentTypeHybrid:       "hybrid",
	}
}

// Validate checks if the FulfillmentType is one of the classified values.
func (t FulfillmentType) Validate() error {
	switch t {
	case FulfillmentTypePhysical, FulfillmentTypeDigital, FulfillmentTypeHybrid:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("fulfillment type is invalid",
			fmt.Errorf("%d is not a valid fulfillment type", t))
	}
}

// String returns the persisted name of the fulfillment type.
func (t FulfillmentType) String() string {
	if str, ok := getFulfillmentTypeStrings()[t]; ok {
		return str
	}
	return "unclassified"
}

// DigitalDeliveryStatus tracks the order-level state of digital delivery.
type DigitalDeliveryStatus int

const (
	// DigitalDeliveryNone means no download grants have been issued yet.
	DigitalDeliveryNone DigitalDeliveryStatus = iota

	// DigitalDeliverySent means download grants were issued and are live
	// until the order-level expiry.
	DigitalDeliverySent

	// DigitalDeliveryExpired means the grants have lapsed or were cancelled.
	DigitalDeliveryExpired
)

func getDigitalDeliveryStatusStrings() map[DigitalDeliveryStatus]string {
	return map[DigitalDeliveryStatus]string{
		DigitalDeliveryNone:    "none",
		DigitalDeliverySent:    "sent",
		DigitalDeliveryExpired: "expired",
	}
}

// Validate checks if the DigitalDeliveryStatus value is valid.
func (d DigitalDeliveryStatus) Validate() error {
	if _, ok := getDigitalDeliveryStatusStrings()[d]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("digital delivery status is invalid",
			fmt.Errorf("%d is not a valid digital delivery status", d))
	}
	return nil
}

// String returns the persisted name of the digital delivery status.
func (d DigitalDeliveryStatus) String() string {
	if str, ok := getDigitalDeliveryStatusStrings()[d]; ok {
		return str
	}
	return "none"
}
