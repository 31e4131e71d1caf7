// Package services provides domain services that orchestrate fulfillment
// across multiple domain entities. It implements workflows that don't
// naturally belong to a single aggregate root.
//
// The package includes:
//   - FulfillmentRouter: classifies an order and fans its items out to
//     every capable backend, then reduces the per-backend results into one
//     order-level outcome
//   - DigitalDeliveryService: the backend that issues time-limited download
//     grants for digital items and bundled digital copies
//   - PrintBackend: the backend that submits physical items to the external
//     print-on-demand provider
//
// Backends are peers behind the Backend capability interface; the router
// never inspects which concrete backend claimed an item.
package services
