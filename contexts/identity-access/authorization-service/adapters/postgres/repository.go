package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"freightledger/contexts/identity-access/authorization-service/domain/entities"
	domainerrors "freightledger/contexts/identity-access/authorization-service/domain/errors"
	"freightledger/contexts/identity-access/authorization-service/domain/valueobjects"
	"freightledger/contexts/identity-access/authorization-service/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"

	eventRoleGranted = "authz.role_granted"
	eventRoleRevoked = "authz.role_revoked"
)

type roleGrantModel struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	Role      string `gorm:"size:64;index:idx_authz_role_actor"`
	Actor     string `gorm:"size:128;index:idx_authz_role_actor"`
	GrantedBy string `gorm:"size:128"`
	GrantedAt time.Time
	IsActive  bool `gorm:"index"`
	RevokedBy string
	RevokedAt *time.Time
}

func (roleGrantModel) TableName() string { return "authz_role_grants" }

type outboxModel struct {
	OutboxID     string `gorm:"primaryKey;size:36"`
	EventType    string `gorm:"size:64"`
	PartitionKey string `gorm:"size:128"`
	Payload      []byte
	Status       string `gorm:"size:16;index"`
	CreatedAt    time.Time
	PublishedAt  *time.Time
}

func (outboxModel) TableName() string { return "authz_outbox" }

// Migrate creates/updates the module's tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&roleGrantModel{}, &outboxModel{})
}

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{db: db, logger: logger}
}

func (r *Repository) HasRole(ctx context.Context, role string, actor string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&roleGrantModel{}).
		Where("role = ? AND actor = ? AND is_active", role, actor).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) ListActorRoles(ctx context.Context, actor string) ([]entities.RoleGrant, error) {
	var rows []roleGrantModel
	err := r.db.WithContext(ctx).
		Where("actor = ?", actor).
		Order("id ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}

	items := make([]entities.RoleGrant, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

// GrantRole runs the admin check, the duplicate check, the grant insert,
// and the outbox insert in one transaction.
func (r *Repository) GrantRole(ctx context.Context, input ports.GrantRoleInput) (entities.RoleGrant, error) {
	row := roleGrantModel{
		Role:      input.Role,
		Actor:     input.Actor,
		GrantedBy: input.Sender,
		GrantedAt: input.GrantedAt.UTC(),
		IsActive:  true,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireAdmin(tx, input.Sender); err != nil {
			return err
		}

		var existing int64
		err := tx.Model(&roleGrantModel{}).
			Where("role = ? AND actor = ? AND is_active", input.Role, input.Actor).
			Count(&existing).
			Error
		if err != nil {
			return err
		}
		if existing > 0 {
			return domainerrors.ErrRoleAlreadyHeld
		}

		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		return appendOutbox(tx, input.OutboxID, eventRoleGranted, input.Actor, map[string]string{
			"role":        input.Role,
			"actor":       input.Actor,
			"action_type": "role_granted",
		}, input.GrantedAt.UTC())
	})
	if err != nil {
		return entities.RoleGrant{}, err
	}
	return row.toEntity(), nil
}

// RevokeRole flips the active grant and writes its outbox row in one
// transaction; the grant record itself is never deleted.
func (r *Repository) RevokeRole(ctx context.Context, input ports.RevokeRoleInput) (entities.RoleGrant, error) {
	var row roleGrantModel

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireAdmin(tx, input.Sender); err != nil {
			return err
		}

		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("role = ? AND actor = ? AND is_active", input.Role, input.Actor).
			First(&row).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrRoleNotHeld
			}
			return err
		}

		revokedAt := input.RevokedAt.UTC()
		row.IsActive = false
		row.RevokedBy = input.Sender
		row.RevokedAt = &revokedAt
		if err := tx.Save(&row).Error; err != nil {
			return err
		}
		return appendOutbox(tx, input.OutboxID, eventRoleRevoked, input.Actor, map[string]string{
			"role":        input.Role,
			"actor":       input.Actor,
			"action_type": "role_revoked",
		}, revokedAt)
	})
	if err != nil {
		return entities.RoleGrant{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []outboxModel
	err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}

	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:     row.OutboxID,
			EventType:    row.EventType,
			PartitionKey: row.PartitionKey,
			Payload:      row.Payload,
			CreatedAt:    row.CreatedAt,
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	published := publishedAt.UTC()
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", outboxID).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": &published,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("outbox record not found")
	}
	return nil
}

// SeedAdmin grants the administrative role to actor when no active admin
// grant exists yet. Used by bootstrap for first-run deployments.
func (r *Repository) SeedAdmin(ctx context.Context, actor string, now time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&roleGrantModel{}).
			Where("role = ? AND is_active", string(valueobjects.AdminRole)).
			Count(&count).
			Error
		if err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		return tx.Create(&roleGrantModel{
			Role:      string(valueobjects.AdminRole),
			Actor:     actor,
			GrantedBy: "genesis",
			GrantedAt: now.UTC(),
			IsActive:  true,
		}).Error
	})
}

func (m roleGrantModel) toEntity() entities.RoleGrant {
	return entities.RoleGrant{
		Role:      m.Role,
		Actor:     m.Actor,
		GrantedBy: m.GrantedBy,
		GrantedAt: m.GrantedAt,
		IsActive:  m.IsActive,
		RevokedBy: m.RevokedBy,
		RevokedAt: m.RevokedAt,
	}
}

func requireAdmin(tx *gorm.DB, sender string) error {
	var count int64
	err := tx.Model(&roleGrantModel{}).
		Where("role = ? AND actor = ? AND is_active", string(valueobjects.AdminRole), sender).
		Count(&count).
		Error
	if err != nil {
		return err
	}
	if count == 0 {
		return domainerrors.ErrMissingAdminRole
	}
	return nil
}

func appendOutbox(tx *gorm.DB, outboxID string, eventType string, partitionKey string, payload map[string]string, createdAt time.Time) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	err = tx.Create(&outboxModel{
		OutboxID:     outboxID,
		EventType:    eventType,
		PartitionKey: partitionKey,
		Payload:      body,
		Status:       outboxStatusPending,
		CreatedAt:    createdAt,
	}).Error
	if isUniqueViolation(err) {
		return errors.New("outbox id already used")
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
