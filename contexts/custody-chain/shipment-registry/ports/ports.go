package ports

import (
	"context"
	"time"

	contractsv1 "freightledger/contracts/gen/events/v1"
	"freightledger/contexts/custody-chain/shipment-registry/domain/entities"
)

// Clock abstracts time to keep use cases deterministic in tests.
type Clock interface {
	Now() time.Time
}

// IDGenerator issues outbox/event ids. Shipment ids are not generated
// here; the repository allocates them densely inside the create mutation.
type IDGenerator interface {
	NewID() string
}

// RoleChecker answers role membership questions. The concrete checker is
// the authorization module, bridged in bootstrap to keep context
// boundaries clean.
type RoleChecker interface {
	HasRole(ctx context.Context, role string, actor string) (bool, error)
}

// CreateShipmentInput carries a validated creation request into the
// repository. The repository allocates the id, so a rejected create never
// consumes one.
type CreateShipmentInput struct {
	ProductName string
	Description string
	Recipient   string
	IPFSHash    string
	Sender      string
	OutboxID    string
	CreatedAt   time.Time
}

// UpdateLocationInput appends a history record. ActorHasTransporterRole is
// resolved by the use case before the mutation; the repository combines it
// with the current-handler check under its own lock.
type UpdateLocationInput struct {
	ShipmentID              uint64
	Latitude                string
	Longitude               string
	Sender                  string
	ActorHasTransporterRole bool
	OutboxID                string
	RecordedAt              time.Time
}

// UpdateStatusInput changes lifecycle state. DeliveredOutboxID is consumed
// only when Status is Delivered; both ids are generated up front so the
// repository never calls back into the generator mid-transaction.
type UpdateStatusInput struct {
	ShipmentID              uint64
	Status                  entities.Status
	Sender                  string
	ActorHasTransporterRole bool
	StatusOutboxID          string
	DeliveredOutboxID       string
	UpdatedAt               time.Time
}

type TransferHandlerInput struct {
	ShipmentID    uint64
	NewHandler    string
	Sender        string
	OutboxID      string
	TransferredAt time.Time
}

// Repository persists shipments, histories, and per-actor indices.
// Mutations perform their authorization and state checks inside the same
// critical section as the write so concurrent callers observe
// all-or-nothing outcomes.
type Repository interface {
	CreateShipment(ctx context.Context, input CreateShipmentInput) (entities.Shipment, error)
	UpdateLocation(ctx context.Context, input UpdateLocationInput) (entities.LocationRecord, error)
	UpdateStatus(ctx context.Context, input UpdateStatusInput) (entities.Shipment, error)
	TransferHandler(ctx context.Context, input TransferHandlerInput) (entities.Shipment, error)

	GetShipment(ctx context.Context, id uint64) (entities.Shipment, error)
	ListLocations(ctx context.Context, shipmentID uint64) ([]entities.LocationRecord, error)
	ListUserShipments(ctx context.Context, actor string) ([]uint64, error)
	CountShipments(ctx context.Context) (uint64, error)
}

// OutboxMessage is one pending custody event row, written atomically with
// the state change that produced it.
type OutboxMessage struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

// CustodyEvent is the canonical envelope shape shared across modules.
type CustodyEvent = contractsv1.Envelope

type CustodyEventPublisher interface {
	PublishCustodyEvent(ctx context.Context, event CustodyEvent) error
}

// EventDedupStore lets consumers process each event id at most once.
type EventDedupStore interface {
	MarkProcessed(ctx context.Context, consumer string, eventID string, processedAt time.Time) (bool, error)
}
