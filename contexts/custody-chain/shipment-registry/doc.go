// Package shipmentregistry implements the custody ledger core: shipment
// records, their append-only location histories, per-actor indices, and
// role/handler-gated mutation.
//
// Layering:
// - domain: shipment/location entities, status machine, errors
// - application: commands/queries/workers using explicit ports
// - ports: stable boundaries for persistence/authorization/events
// - adapters: concrete HTTP, memory, postgres, and event publisher implementations
// - transport: module-private DTOs for HTTP contracts
//
// Boundary notes:
// - Keep this module self-contained under custody-chain context.
// - Role checks reach the authorization module only through the RoleChecker
//   port, wired in bootstrap.
// - Every mutation commits all of its effects (record, history, indices,
//   outbox rows) or none of them.
package shipmentregistry
