// Package fulfillment provides the shared value objects of the fulfillment
// subsystem: the per-backend batch Result, the classified Error taxonomy,
// time-limited DownloadGrant authorizations, and the read-only BackendStatus
// projection.
//
// These types form the vocabulary between the fulfillment router and its
// backends. They are transient by design: results and grants are reduced into
// order state and tracking records rather than persisted verbatim.
package fulfillment
