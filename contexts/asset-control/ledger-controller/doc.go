// Package ledgercontroller implements the pausable asset ledger controller:
// an authorization gate in front of an external asset-management service.
//
// Layering:
// - domain: control state, identity, gate decisions, errors
// - application: commands/queries/workers using explicit ports
// - ports: ledger collaborator, persistence, outbox, metrics boundaries
// - adapters: api handler, memory, postgres, sqlite, metrics and event publisher implementations
// - contracts: module-private DTOs for the command surface
//
// Boundary notes:
// - The gate never inspects amounts or balances; the ledger owns numeric policy.
// - Identities arrive authenticated; no signature checks happen here.
// - Do not import adapters into domain/application.
package ledgercontroller
