package ports

import (
	"context"
	"time"

	"freightledger/contexts/identity-access/authorization-service/domain/entities"
	contractsv1 "freightledger/contracts/gen/events/v1"
)

// Clock abstracts current time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts UUID generation for outbox rows.
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// GrantRoleInput is persisted atomically with its outbox record. The
// admin check on Sender happens inside the repository mutation so the
// whole operation commits or leaves no trace.
type GrantRoleInput struct {
	Role      string
	Actor     string
	Sender    string
	OutboxID  string
	GrantedAt time.Time
}

// RevokeRoleInput captures revoke metadata; same atomicity contract as grant.
type RevokeRoleInput struct {
	Role      string
	Actor     string
	Sender    string
	OutboxID  string
	RevokedAt time.Time
}

// Repository is the write/read boundary for role membership state.
type Repository interface {
	HasRole(ctx context.Context, role string, actor string) (bool, error)
	ListActorRoles(ctx context.Context, actor string) ([]entities.RoleGrant, error)
	GrantRole(ctx context.Context, input GrantRoleInput) (entities.RoleGrant, error)
	RevokeRole(ctx context.Context, input RevokeRoleInput) (entities.RoleGrant, error)
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

// RoleChangedEvent reuses the canonical cross-runtime envelope contract.
type RoleChangedEvent = contractsv1.Envelope

// RoleChangedPublisher emits role change events to the event bus adapter.
type RoleChangedPublisher interface {
	PublishRoleChanged(ctx context.Context, event RoleChangedEvent) error
}
