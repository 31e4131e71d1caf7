// Package order provides domain entities and business logic for order
// fulfillment in the pet-portrait shop. It implements the Order aggregate
// root with lifecycle management and state transitions.
//
// The package includes:
//   - Order: The aggregate root owning line items and the fulfillment lifecycle
//   - Item: A line item carrying product classification, image references and
//     the digital-delivery projection
//   - Status: A state machine that enforces valid fulfillment status transitions
//   - ProductType, FulfillmentType, DigitalDeliveryStatus: classification enums
//
// Key business rules:
//   - Orders must have a valid identifier, a non-empty order number, and items
//   - Fulfillment follows pending -> processing -> fulfilled | partially_fulfilled | failed,
//     with failed runs eligible for re-runs
//   - Classification keeps physical-with-bundled-copy orders "physical";
//     hybrid is reserved for purchased digital add-ons
//
// The package follows Domain-Driven Design principles, providing rich domain
// behavior, encapsulation, and validation to ensure business rules are enforced.
package order
