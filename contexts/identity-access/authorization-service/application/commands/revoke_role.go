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

// RevokeRoleCommand contains transport-agnostic input for a role revocation.
type RevokeRoleCommand struct {
	Role   string
	Actor  string
	Sender string
}

// RevokeRoleUseCase coordinates admin-gated role membership revocations.
type RevokeRoleUseCase struct {
	Repository  ports.Repository
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

// Execute validates command input and flips the active grant atomically
// with its outbox record.
func (u RevokeRoleUseCase) Execute(ctx context.Context, cmd RevokeRoleCommand) (entities.RoleGrant, error) {
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
	logger.Info("revoke role started",
		"event", "authz_revoke_role_started",
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

	grant, err := u.Repository.RevokeRole(ctx, ports.RevokeRoleInput{
		Role:      string(role),
		Actor:     strings.TrimSpace(cmd.Actor),
		Sender:    strings.TrimSpace(cmd.Sender),
		OutboxID:  outboxID,
		RevokedAt: u.now(),
	})
	if err != nil {
		logger.Error("revoke role write failed",
			"event", "authz_revoke_role_write_failed",
			"module", "identity-access/authorization-service",
			"layer", "application",
			"role", string(role),
			"actor", cmd.Actor,
			"sender", cmd.Sender,
			"error", err.Error(),
		)
		return entities.RoleGrant{}, err
	}

	logger.Info("revoke role completed",
		"event", "authz_revoke_role_completed",
		"module", "identity-access/authorization-service",
		"layer", "application",
		"role", string(role),
		"actor", grant.Actor,
		"sender", cmd.Sender,
	)
	return grant, nil
}

func (u RevokeRoleUseCase) now() time.Time {
	if u.Clock != nil {
		return u.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
