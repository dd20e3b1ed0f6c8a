package ports

import (
	"context"
	"time"

	"tokengate/contexts/asset-control/ledger-controller/domain/entities"
	"tokengate/contexts/asset-control/ledger-controller/domain/valueobjects"
	contractsv1 "tokengate/contracts/gen/events/v1"
)

// MintHandle identifies an asset inside the external ledger.
type MintHandle = valueobjects.Identity

// CreateAssetInput is forwarded to the ledger once per asset.
type CreateAssetInput struct {
	Mint            valueobjects.Identity
	Decimals        uint8
	MintAuthority   valueobjects.Identity
	FreezeAuthority valueobjects.Identity
}

// Ledger is the external asset-management collaborator. Implementations
// re-validate every authority they are handed; the controller never inspects
// amounts or balances and returns ledger errors unmodified.
//
// AccountMint is the only read the controller makes. Move carries no mint, so
// the gate uses it to find the control state that governs the source account.
type Ledger interface {
	AccountMint(ctx context.Context, account valueobjects.Identity) (MintHandle, error)
	CreateAsset(ctx context.Context, input CreateAssetInput) (MintHandle, error)
	Issue(ctx context.Context, mint MintHandle, destination valueobjects.Identity, authority valueobjects.Identity, amount uint64) error
	Destroy(ctx context.Context, mint MintHandle, source valueobjects.Identity, authority valueobjects.Identity, amount uint64) error
	Move(ctx context.Context, source valueobjects.Identity, destination valueobjects.Identity, authority valueobjects.Identity, amount uint64) error
	Freeze(ctx context.Context, account valueobjects.Identity, mint MintHandle, authority valueobjects.Identity) error
	Unfreeze(ctx context.Context, account valueobjects.Identity, mint MintHandle, authority valueobjects.Identity) error
}

// LedgerSavepointer is an optional Ledger capability. Savepoint captures the
// ledger state and returns a function restoring it; a unit of work that fails
// after reaching the ledger calls it so neither side keeps partial effects.
type LedgerSavepointer interface {
	Savepoint() (restore func())
}

// EventEnvelope reuses the canonical cross-runtime envelope contract.
type EventEnvelope = contractsv1.Envelope

// StateTx is the view of storage available inside one unit of work. Reads
// through it see, and hold, the latest committed control state.
type StateTx interface {
	GetControlState(ctx context.Context, mint valueobjects.Identity) (entities.ControlState, error)
	CreateControlState(ctx context.Context, state entities.ControlState) error
	SaveControlState(ctx context.Context, state entities.ControlState) error
	AppendOutbox(ctx context.Context, envelope EventEnvelope) error
}

// Repository is the durable boundary for control state. WithinTransaction
// serializes units of work per store and commits only when fn returns nil.
type Repository interface {
	GetControlState(ctx context.Context, mint valueobjects.Identity) (entities.ControlState, error)
	WithinTransaction(ctx context.Context, fn func(ctx context.Context, tx StateTx) error) error
}

// OutboxMessage represents a pending relay message.
type OutboxMessage struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

// OutboxRepository supports worker relay polling and acknowledgement.
type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

// EventPublisher emits relayed events to the event bus adapter.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

// Clock abstracts current time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts UUID generation for outbox rows.
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// Gate decision outcomes reported to DecisionRecorder.
const (
	OutcomeAllowed        = "allowed"
	OutcomePaused         = "paused"
	OutcomeUnauthorized   = "unauthorized"
	OutcomeNotInitialized = "not_initialized"
	OutcomeLedgerError    = "ledger_error"
	OutcomeFailed         = "failed"
)

// DecisionRecorder observes gate decisions. Implementations must not block.
type DecisionRecorder interface {
	RecordDecision(operation string, outcome string)
	RecordPaused(mint string, paused bool)
}
