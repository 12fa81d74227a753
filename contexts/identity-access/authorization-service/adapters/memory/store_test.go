package memory

import (
	"context"
	"testing"
	"time"

	domainerrors "freightledger/contexts/identity-access/authorization-service/domain/errors"
	"freightledger/contexts/identity-access/authorization-service/domain/valueobjects"
	"freightledger/contexts/identity-access/authorization-service/ports"
)

func TestRootAdminSeeded(t *testing.T) {
	store := NewStore("root-1")
	held, err := store.HasRole(context.Background(), string(valueobjects.AdminRole), "root-1")
	if err != nil {
		t.Fatalf("has role failed: %v", err)
	}
	if !held {
		t.Fatal("root admin must hold the administrative role")
	}
}

func TestGrantRoleRequiresAdminSender(t *testing.T) {
	store := NewStore("root-1")
	_, err := store.GrantRole(context.Background(), ports.GrantRoleInput{
		Role:      string(valueobjects.ManufacturerRole),
		Actor:     "maker-1",
		Sender:    "maker-1",
		OutboxID:  "out-1",
		GrantedAt: time.Now().UTC(),
	})
	if err != domainerrors.ErrMissingAdminRole {
		t.Fatalf("expected admin denial, got %v", err)
	}
	if err.Error() != "AccessControl: sender does not have required role" {
		t.Fatalf("unexpected denial message %q", err.Error())
	}

	pending, _ := store.ListPendingOutbox(context.Background(), 10)
	if len(pending) != 0 {
		t.Fatalf("denied grant must not append outbox rows, got %d", len(pending))
	}
}

func TestGrantRevokeLifecycle(t *testing.T) {
	store := NewStore("root-1")
	ctx := context.Background()
	role := string(valueobjects.TransporterRole)

	grant, err := store.GrantRole(ctx, ports.GrantRoleInput{
		Role:      role,
		Actor:     "carrier-1",
		Sender:    "root-1",
		OutboxID:  "out-1",
		GrantedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("grant failed: %v", err)
	}
	if grant.GrantedBy != "root-1" || !grant.IsActive {
		t.Fatalf("unexpected grant %+v", grant)
	}

	held, _ := store.HasRole(ctx, role, "carrier-1")
	if !held {
		t.Fatal("granted role must be held")
	}

	if _, err := store.GrantRole(ctx, ports.GrantRoleInput{
		Role:      role,
		Actor:     "carrier-1",
		Sender:    "root-1",
		OutboxID:  "out-2",
		GrantedAt: time.Now().UTC(),
	}); err != domainerrors.ErrRoleAlreadyHeld {
		t.Fatalf("expected duplicate grant rejection, got %v", err)
	}

	revoked, err := store.RevokeRole(ctx, ports.RevokeRoleInput{
		Role:      role,
		Actor:     "carrier-1",
		Sender:    "root-1",
		OutboxID:  "out-3",
		RevokedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("revoke failed: %v", err)
	}
	if revoked.IsActive || revoked.RevokedAt == nil {
		t.Fatalf("revoked grant must be inactive with timestamp, got %+v", revoked)
	}

	held, _ = store.HasRole(ctx, role, "carrier-1")
	if held {
		t.Fatal("revoked role must not be held")
	}

	if _, err := store.RevokeRole(ctx, ports.RevokeRoleInput{
		Role:      role,
		Actor:     "carrier-1",
		Sender:    "root-1",
		OutboxID:  "out-4",
		RevokedAt: time.Now().UTC(),
	}); err != domainerrors.ErrRoleNotHeld {
		t.Fatalf("expected not-held rejection, got %v", err)
	}
}

func TestListActorRolesKeepsHistory(t *testing.T) {
	store := NewStore("root-1")
	ctx := context.Background()
	role := string(valueobjects.ManufacturerRole)

	if _, err := store.GrantRole(ctx, ports.GrantRoleInput{
		Role:      role,
		Actor:     "maker-1",
		Sender:    "root-1",
		OutboxID:  "out-1",
		GrantedAt: time.Now().UTC(),
	}); err != nil {
		t.Fatalf("grant failed: %v", err)
	}
	if _, err := store.RevokeRole(ctx, ports.RevokeRoleInput{
		Role:      role,
		Actor:     "maker-1",
		Sender:    "root-1",
		OutboxID:  "out-2",
		RevokedAt: time.Now().UTC(),
	}); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}

	grants, err := store.ListActorRoles(ctx, "maker-1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(grants) != 1 {
		t.Fatalf("expected the revoked grant in history, got %d", len(grants))
	}
	if grants[0].IsActive {
		t.Fatal("historical grant must be inactive")
	}
}

func TestOutboxRowsAppendedPerMutation(t *testing.T) {
	store := NewStore("root-1")
	ctx := context.Background()
	role := string(valueobjects.TransporterRole)

	if _, err := store.GrantRole(ctx, ports.GrantRoleInput{
		Role:      role,
		Actor:     "carrier-1",
		Sender:    "root-1",
		OutboxID:  "out-1",
		GrantedAt: time.Now().UTC(),
	}); err != nil {
		t.Fatalf("grant failed: %v", err)
	}
	if _, err := store.RevokeRole(ctx, ports.RevokeRoleInput{
		Role:      role,
		Actor:     "carrier-1",
		Sender:    "root-1",
		OutboxID:  "out-2",
		RevokedAt: time.Now().UTC(),
	}); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}

	pending, err := store.ListPendingOutbox(ctx, 10)
	if err != nil {
		t.Fatalf("list outbox failed: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(pending))
	}
	if pending[0].EventType != "authz.role_granted" || pending[1].EventType != "authz.role_revoked" {
		t.Fatalf("unexpected event types %s,%s", pending[0].EventType, pending[1].EventType)
	}

	if err := store.MarkOutboxPublished(ctx, "out-1", time.Now().UTC()); err != nil {
		t.Fatalf("mark published failed: %v", err)
	}
	pending, _ = store.ListPendingOutbox(ctx, 10)
	if len(pending) != 1 || pending[0].OutboxID != "out-2" {
		t.Fatalf("expected only out-2 pending, got %v", pending)
	}
}
