package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"freightledger/contexts/custody-chain/shipment-registry/application"
	"freightledger/contexts/custody-chain/shipment-registry/domain/entities"
	domainerrors "freightledger/contexts/custody-chain/shipment-registry/domain/errors"
	"freightledger/contexts/custody-chain/shipment-registry/ports"
)

type shipmentModel struct {
	ID             uint64 `gorm:"primaryKey"`
	ProductName    string `gorm:"not null"`
	Description    string
	Manufacturer   string `gorm:"not null;index"`
	Recipient      string `gorm:"not null"`
	IPFSHash       string
	Status         uint8  `gorm:"not null"`
	CurrentHandler string `gorm:"not null;index"`
	IsActive       bool   `gorm:"not null"`
	CreatedAt      time.Time
	DeliveredAt    *time.Time
}

func (shipmentModel) TableName() string { return "custody_shipments" }

type locationModel struct {
	ID         uint64 `gorm:"primaryKey;autoIncrement"`
	ShipmentID uint64 `gorm:"not null;index"`
	Latitude   string `gorm:"not null"`
	Longitude  string `gorm:"not null"`
	RecordedBy string `gorm:"not null"`
	RecordedAt time.Time
}

func (locationModel) TableName() string { return "custody_locations" }

type userIndexModel struct {
	ID         uint64 `gorm:"primaryKey;autoIncrement"`
	Actor      string `gorm:"not null;uniqueIndex:idx_custody_user_shipment"`
	ShipmentID uint64 `gorm:"not null;uniqueIndex:idx_custody_user_shipment"`
}

func (userIndexModel) TableName() string { return "custody_user_index" }

// counterModel is a single-row table guarding dense id allocation. The row
// is locked FOR UPDATE inside the create transaction, so concurrent
// creates serialize and failed creates never consume an id.
type counterModel struct {
	ID     uint8  `gorm:"primaryKey"`
	NextID uint64 `gorm:"not null"`
}

func (counterModel) TableName() string { return "custody_counter" }

type outboxModel struct {
	OutboxID     string `gorm:"primaryKey"`
	Seq          uint64 `gorm:"autoIncrement;uniqueIndex"`
	EventType    string `gorm:"not null"`
	PartitionKey string `gorm:"not null"`
	Payload      []byte `gorm:"not null"`
	CreatedAt    time.Time
	PublishedAt  *time.Time `gorm:"index"`
}

func (outboxModel) TableName() string { return "custody_outbox" }

type processedEventModel struct {
	Consumer    string `gorm:"primaryKey"`
	EventID     string `gorm:"primaryKey"`
	ProcessedAt time.Time
}

func (processedEventModel) TableName() string { return "custody_processed_events" }

// Migrate creates or updates the registry tables and seeds the counter
// row.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&shipmentModel{},
		&locationModel{},
		&userIndexModel{},
		&counterModel{},
		&outboxModel{},
		&processedEventModel{},
	); err != nil {
		return err
	}
	return db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&counterModel{ID: 1, NextID: 0}).Error
}

// Repository is the gorm-backed registry store. Every mutation runs in one
// transaction holding row locks for its checks, matching the atomicity the
// in-memory store gets from its mutex.
type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	return &Repository{db: db, logger: application.ResolveLogger(logger)}
}

var _ ports.Repository = (*Repository)(nil)
var _ ports.OutboxRepository = (*Repository)(nil)
var _ ports.EventDedupStore = (*Repository)(nil)

func (r *Repository) CreateShipment(ctx context.Context, input ports.CreateShipmentInput) (entities.Shipment, error) {
	var created shipmentModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var counter counterModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&counter, "id = ?", 1).Error; err != nil {
			return err
		}
		id := counter.NextID + 1

		created = shipmentModel{
			ID:             id,
			ProductName:    input.ProductName,
			Description:    input.Description,
			Manufacturer:   input.Sender,
			Recipient:      input.Recipient,
			IPFSHash:       input.IPFSHash,
			Status:         uint8(entities.StatusCreated),
			CurrentHandler: input.Sender,
			IsActive:       true,
			CreatedAt:      input.CreatedAt,
		}
		if err := tx.Create(&created).Error; err != nil {
			return err
		}
		if err := tx.Model(&counterModel{}).Where("id = ?", 1).
			Update("next_id", id).Error; err != nil {
			return err
		}
		if err := indexUser(tx, input.Sender, id); err != nil {
			return err
		}
		if err := indexUser(tx, input.Recipient, id); err != nil {
			return err
		}
		return appendOutbox(tx, input.OutboxID, entities.EventShipmentCreated, id, entities.ShipmentCreatedEvent{
			ShipmentID:   id,
			Manufacturer: input.Sender,
			ProductName:  input.ProductName,
		}, input.CreatedAt)
	})
	if err != nil {
		return entities.Shipment{}, err
	}
	return toEntity(created), nil
}

func (r *Repository) UpdateLocation(ctx context.Context, input ports.UpdateLocationInput) (entities.LocationRecord, error) {
	var record entities.LocationRecord
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		shipment, err := lockShipment(tx, input.ShipmentID)
		if err != nil {
			return err
		}
		if shipment.CurrentHandler != input.Sender && !input.ActorHasTransporterRole {
			return domainerrors.ErrNotAuthorized
		}

		row := locationModel{
			ShipmentID: input.ShipmentID,
			Latitude:   input.Latitude,
			Longitude:  input.Longitude,
			RecordedBy: input.Sender,
			RecordedAt: input.RecordedAt,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		record = entities.LocationRecord{
			ShipmentID: row.ShipmentID,
			Latitude:   row.Latitude,
			Longitude:  row.Longitude,
			RecordedBy: row.RecordedBy,
			RecordedAt: row.RecordedAt,
		}
		return appendOutbox(tx, input.OutboxID, entities.EventLocationUpdated, input.ShipmentID, entities.LocationUpdatedEvent{
			ShipmentID: input.ShipmentID,
			Latitude:   input.Latitude,
			Longitude:  input.Longitude,
		}, input.RecordedAt)
	})
	if err != nil {
		return entities.LocationRecord{}, err
	}
	return record, nil
}

func (r *Repository) UpdateStatus(ctx context.Context, input ports.UpdateStatusInput) (entities.Shipment, error) {
	var updated shipmentModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		shipment, err := lockShipment(tx, input.ShipmentID)
		if err != nil {
			return err
		}
		if !shipment.IsActive {
			return domainerrors.ErrShipmentNotActive
		}
		if shipment.CurrentHandler != input.Sender && !input.ActorHasTransporterRole {
			return domainerrors.ErrNotAuthorized
		}

		shipment.Status = uint8(input.Status)
		if input.Status == entities.StatusDelivered {
			deliveredAt := input.UpdatedAt
			shipment.IsActive = false
			shipment.DeliveredAt = &deliveredAt
		}
		if err := tx.Save(&shipment).Error; err != nil {
			return err
		}
		if err := appendOutbox(tx, input.StatusOutboxID, entities.EventStatusUpdated, input.ShipmentID, entities.StatusUpdatedEvent{
			ShipmentID: input.ShipmentID,
			Status:     input.Status,
		}, input.UpdatedAt); err != nil {
			return err
		}
		if input.Status == entities.StatusDelivered {
			if err := appendOutbox(tx, input.DeliveredOutboxID, entities.EventShipmentDelivered, input.ShipmentID, entities.ShipmentDeliveredEvent{
				ShipmentID: input.ShipmentID,
			}, input.UpdatedAt); err != nil {
				return err
			}
		}
		updated = shipment
		return nil
	})
	if err != nil {
		return entities.Shipment{}, err
	}
	return toEntity(updated), nil
}

func (r *Repository) TransferHandler(ctx context.Context, input ports.TransferHandlerInput) (entities.Shipment, error) {
	var updated shipmentModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		shipment, err := lockShipment(tx, input.ShipmentID)
		if err != nil {
			return err
		}
		if shipment.CurrentHandler != input.Sender {
			return domainerrors.ErrNotCurrentHandler
		}

		oldHandler := shipment.CurrentHandler
		shipment.CurrentHandler = input.NewHandler
		if err := tx.Save(&shipment).Error; err != nil {
			return err
		}
		if err := indexUser(tx, input.NewHandler, input.ShipmentID); err != nil {
			return err
		}
		updated = shipment
		return appendOutbox(tx, input.OutboxID, entities.EventHandlerChanged, input.ShipmentID, entities.HandlerChangedEvent{
			ShipmentID: input.ShipmentID,
			OldHandler: oldHandler,
			NewHandler: input.NewHandler,
		}, input.TransferredAt)
	})
	if err != nil {
		return entities.Shipment{}, err
	}
	return toEntity(updated), nil
}

func (r *Repository) GetShipment(ctx context.Context, id uint64) (entities.Shipment, error) {
	var row shipmentModel
	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entities.Shipment{}, domainerrors.ErrShipmentNotFound
	}
	if err != nil {
		return entities.Shipment{}, err
	}
	return toEntity(row), nil
}

func (r *Repository) ListLocations(ctx context.Context, shipmentID uint64) ([]entities.LocationRecord, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&shipmentModel{}).
		Where("id = ?", shipmentID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, domainerrors.ErrShipmentNotFound
	}

	var rows []locationModel
	if err := r.db.WithContext(ctx).
		Where("shipment_id = ?", shipmentID).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	records := make([]entities.LocationRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, entities.LocationRecord{
			ShipmentID: row.ShipmentID,
			Latitude:   row.Latitude,
			Longitude:  row.Longitude,
			RecordedBy: row.RecordedBy,
			RecordedAt: row.RecordedAt,
		})
	}
	return records, nil
}

func (r *Repository) ListUserShipments(ctx context.Context, actor string) ([]uint64, error) {
	var rows []userIndexModel
	if err := r.db.WithContext(ctx).
		Where("actor = ?", actor).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	ids := make([]uint64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ShipmentID)
	}
	return ids, nil
}

func (r *Repository) CountShipments(ctx context.Context) (uint64, error) {
	var counter counterModel
	if err := r.db.WithContext(ctx).First(&counter, "id = ?", 1).Error; err != nil {
		return 0, err
	}
	return counter.NextID, nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("published_at IS NULL").
		Order("seq ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	messages := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		messages = append(messages, ports.OutboxMessage{
			OutboxID:     row.OutboxID,
			EventType:    row.EventType,
			PartitionKey: row.PartitionKey,
			Payload:      row.Payload,
			CreatedAt:    row.CreatedAt,
		})
	}
	return messages, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	return r.db.WithContext(ctx).Model(&outboxModel{}).
		Where("outbox_id = ?", outboxID).
		Update("published_at", publishedAt).Error
}

func (r *Repository) MarkProcessed(ctx context.Context, consumer string, eventID string, processedAt time.Time) (bool, error) {
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).
		Create(&processedEventModel{Consumer: consumer, EventID: eventID, ProcessedAt: processedAt})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func lockShipment(tx *gorm.DB, id uint64) (shipmentModel, error) {
	var row shipmentModel
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shipmentModel{}, domainerrors.ErrShipmentNotFound
	}
	if err != nil {
		return shipmentModel{}, err
	}
	return row, nil
}

func indexUser(tx *gorm.DB, actor string, shipmentID uint64) error {
	return tx.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&userIndexModel{Actor: actor, ShipmentID: shipmentID}).Error
}

func appendOutbox(tx *gorm.DB, outboxID, eventType string, shipmentID uint64, payload any, createdAt time.Time) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return tx.Create(&outboxModel{
		OutboxID:     outboxID,
		EventType:    eventType,
		PartitionKey: strconv.FormatUint(shipmentID, 10),
		Payload:      body,
		CreatedAt:    createdAt,
	}).Error
}

func toEntity(row shipmentModel) entities.Shipment {
	return entities.Shipment{
		ID:             row.ID,
		ProductName:    row.ProductName,
		Description:    row.Description,
		Manufacturer:   row.Manufacturer,
		Recipient:      row.Recipient,
		IPFSHash:       row.IPFSHash,
		Status:         entities.Status(row.Status),
		CurrentHandler: row.CurrentHandler,
		IsActive:       row.IsActive,
		CreatedAt:      row.CreatedAt,
		DeliveredAt:    row.DeliveredAt,
	}
}
