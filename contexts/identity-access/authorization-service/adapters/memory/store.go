package memory

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"freightledger/contexts/identity-access/authorization-service/domain/entities"
	domainerrors "freightledger/contexts/identity-access/authorization-service/domain/errors"
	"freightledger/contexts/identity-access/authorization-service/domain/valueobjects"
	"freightledger/contexts/identity-access/authorization-service/ports"

	"github.com/google/uuid"
)

const (
	eventRoleGranted = "authz.role_granted"
	eventRoleRevoked = "authz.role_revoked"
)

// Store is an in-memory adapter implementing repository/outbox ports.
// It is intended for tests and local development wiring. All checks and
// mutations for one operation run under a single lock, matching the
// serialized-transaction execution model of the ledger.
type Store struct {
	mu sync.RWMutex

	grants []entities.RoleGrant
	active map[string]map[string]int // role -> actor -> index into grants

	outbox      []ports.OutboxMessage
	published   map[string]time.Time
	outboxIndex map[string]int
}

var _ ports.Repository = (*Store)(nil)
var _ ports.OutboxRepository = (*Store)(nil)

// NewStore builds an in-memory adapter. A non-empty rootAdmin is seeded
// with the administrative role, mirroring deployment-time bootstrap.
func NewStore(rootAdmin string) *Store {
	s := &Store{
		active:      make(map[string]map[string]int),
		published:   make(map[string]time.Time),
		outboxIndex: make(map[string]int),
	}
	if rootAdmin != "" {
		s.commitGrant(entities.RoleGrant{
			Role:      string(valueobjects.AdminRole),
			Actor:     rootAdmin,
			GrantedBy: "genesis",
			GrantedAt: time.Now().UTC(),
			IsActive:  true,
		})
	}
	return s
}

// HasRole reports whether actor currently holds role.
func (s *Store) HasRole(_ context.Context, role string, actor string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, held := s.active[role][actor]
	return held, nil
}

// ListActorRoles returns grants for one actor in grant order.
func (s *Store) ListActorRoles(_ context.Context, actor string) ([]entities.RoleGrant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.RoleGrant, 0)
	for _, grant := range s.grants {
		if grant.Actor == actor {
			items = append(items, grant)
		}
	}
	return items, nil
}

func (s *Store) GrantRole(_ context.Context, input ports.GrantRoleInput) (entities.RoleGrant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, isAdmin := s.active[string(valueobjects.AdminRole)][input.Sender]; !isAdmin {
		return entities.RoleGrant{}, domainerrors.ErrMissingAdminRole
	}
	if _, held := s.active[input.Role][input.Actor]; held {
		return entities.RoleGrant{}, domainerrors.ErrRoleAlreadyHeld
	}

	payload, err := json.Marshal(map[string]string{
		"role":        input.Role,
		"actor":       input.Actor,
		"action_type": "role_granted",
	})
	if err != nil {
		return entities.RoleGrant{}, err
	}

	grant := entities.RoleGrant{
		Role:      input.Role,
		Actor:     input.Actor,
		GrantedBy: input.Sender,
		GrantedAt: input.GrantedAt.UTC(),
		IsActive:  true,
	}
	s.commitGrant(grant)
	if err := s.appendOutbox(input.OutboxID, eventRoleGranted, input.Actor, payload, input.GrantedAt.UTC()); err != nil {
		return entities.RoleGrant{}, err
	}
	return grant, nil
}

func (s *Store) RevokeRole(_ context.Context, input ports.RevokeRoleInput) (entities.RoleGrant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, isAdmin := s.active[string(valueobjects.AdminRole)][input.Sender]; !isAdmin {
		return entities.RoleGrant{}, domainerrors.ErrMissingAdminRole
	}
	index, held := s.active[input.Role][input.Actor]
	if !held {
		return entities.RoleGrant{}, domainerrors.ErrRoleNotHeld
	}

	payload, err := json.Marshal(map[string]string{
		"role":        input.Role,
		"actor":       input.Actor,
		"action_type": "role_revoked",
	})
	if err != nil {
		return entities.RoleGrant{}, err
	}

	revokedAt := input.RevokedAt.UTC()
	grant := s.grants[index]
	grant.IsActive = false
	grant.RevokedBy = input.Sender
	grant.RevokedAt = &revokedAt
	s.grants[index] = grant
	delete(s.active[input.Role], input.Actor)

	if err := s.appendOutbox(input.OutboxID, eventRoleRevoked, input.Actor, payload, revokedAt); err != nil {
		return entities.RoleGrant{}, err
	}
	return grant, nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	rows := make([]ports.OutboxMessage, 0)
	for _, row := range s.outbox {
		if _, done := s.published[row.OutboxID]; done {
			continue
		}
		rows = append(rows, row)
		if len(rows) == limit {
			break
		}
	}
	return rows, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, publishedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.outboxIndex[outboxID]; !ok {
		return errors.New("outbox record not found")
	}
	s.published[outboxID] = publishedAt.UTC()
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func (s *Store) commitGrant(grant entities.RoleGrant) {
	s.grants = append(s.grants, grant)
	if s.active[grant.Role] == nil {
		s.active[grant.Role] = make(map[string]int)
	}
	s.active[grant.Role][grant.Actor] = len(s.grants) - 1
}

func (s *Store) appendOutbox(outboxID string, eventType string, partitionKey string, payload []byte, createdAt time.Time) error {
	if _, exists := s.outboxIndex[outboxID]; exists {
		return errors.New("outbox id already used")
	}
	s.outbox = append(s.outbox, ports.OutboxMessage{
		OutboxID:     outboxID,
		EventType:    eventType,
		PartitionKey: partitionKey,
		Payload:      append([]byte(nil), payload...),
		CreatedAt:    createdAt,
	})
	s.outboxIndex[outboxID] = len(s.outbox) - 1
	return nil
}
