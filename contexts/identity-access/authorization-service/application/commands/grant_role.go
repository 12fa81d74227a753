package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "freightledger/contexts/identity-access/authorization-service/application"
	"freightledger/contexts/identity-access/authorization-service/domain/entities"
	domainerrors "freightledger/contexts/identity-access/authorization-service/domain/errors"
	"freightledger/contexts/identity-access/authorization-service/domain/valueobjects"
	"freightledger/contexts/identity-access/authorization-service/ports"
)

// GrantRoleCommand contains transport-agnostic input for a role grant.
// Role may be a human-readable name or a canonical token.
type GrantRoleCommand struct {
	Role   string
	Actor  string
	Sender string
}

// GrantRoleUseCase coordinates admin-gated role membership grants.
type GrantRoleUseCase struct {
	Repository  ports.Repository
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

// Execute validates command input and writes the grant atomically with its
// outbox record. The admin check on Sender is part of the repository
// mutation, so a denied grant leaves no partial state behind.
func (u GrantRoleUseCase) Execute(ctx context.Context, cmd GrantRoleCommand) (entities.RoleGrant, error) {
	logger := application.ResolveLogger(u.Logger)

	if strings.TrimSpace(cmd.Role) == "" {
		return entities.RoleGrant{}, domainerrors.ErrInvalidRole
	}
	if strings.TrimSpace(cmd.Actor) == "" {
		return entities.RoleGrant{}, domainerrors.ErrInvalidActor
	}
	if strings.TrimSpace(cmd.Sender) == "" {
		return entities.RoleGrant{}, domainerrors.ErrInvalidSender
	}

	role := valueobjects.Resolve(cmd.Role)
	logger.Info("grant role started",
		"event", "authz_grant_role_started",
		"module", "identity-access/authorization-service",
		"layer", "application",
		"role", string(role),
		"actor", cmd.Actor,
		"sender", cmd.Sender,
	)

	outboxID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return entities.RoleGrant{}, err
	}

	grant, err := u.Repository.GrantRole(ctx, ports.GrantRoleInput{
		Role:      string(role),
		Actor:     strings.TrimSpace(cmd.Actor),
		Sender:    strings.TrimSpace(cmd.Sender),
		OutboxID:  outboxID,
		GrantedAt: u.now(),
	})
	if err != nil {
		logger.Error("grant role write failed",
			"event", "authz_grant_role_write_failed",
			"module", "identity-access/authorization-service",
			"layer", "application",
			"role", string(role),
			"actor", cmd.Actor,
			"sender", cmd.Sender,
			"error", err.Error(),
		)
		return entities.RoleGrant{}, err
	}

	logger.Info("grant role completed",
		"event", "authz_grant_role_completed",
		"module", "identity-access/authorization-service",
		"layer", "application",
		"role", string(role),
		"actor", grant.Actor,
		"sender", cmd.Sender,
	)
	return grant, nil
}

func (u GrantRoleUseCase) now() time.Time {
	if u.Clock != nil {
		return u.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
