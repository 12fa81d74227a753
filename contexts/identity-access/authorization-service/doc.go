// Package authorization implements the role-storage capability service
// consumed by the custody ledger.
//
// Layering:
// - domain: role tokens, grant records, invariants, errors
// - application: commands/queries/workers using explicit ports
// - ports: stable boundaries for persistence/events
// - adapters: concrete HTTP, memory, postgres, and event publisher implementations
// - transport: module-private DTOs for HTTP contracts
//
// Boundary notes:
// - Keep this module self-contained under identity-access context.
// - Do not import other context adapters into domain/application.
// - Other modules consume role checks through their own ports, wired in bootstrap.
package authorization
