package queries

import (
	"context"
	"log/slog"
	"strings"

	application "freightledger/contexts/identity-access/authorization-service/application"
	"freightledger/contexts/identity-access/authorization-service/domain/entities"
	domainerrors "freightledger/contexts/identity-access/authorization-service/domain/errors"
	"freightledger/contexts/identity-access/authorization-service/ports"
)

// ListActorRolesUseCase returns active and historical grants for one actor.
type ListActorRolesUseCase struct {
	Repository ports.Repository
	Logger     *slog.Logger
}

func (u ListActorRolesUseCase) Execute(ctx context.Context, actor string) ([]entities.RoleGrant, error) {
	if strings.TrimSpace(actor) == "" {
		return nil, domainerrors.ErrInvalidActor
	}

	grants, err := u.Repository.ListActorRoles(ctx, strings.TrimSpace(actor))
	if err != nil {
		application.ResolveLogger(u.Logger).Error("actor roles lookup failed",
			"event", "authz_list_actor_roles_failed",
			"module", "identity-access/authorization-service",
			"layer", "application",
			"actor", actor,
			"error", err.Error(),
		)
		return nil, err
	}
	return grants, nil
}
