package queries

import (
	"context"
	"log/slog"
	"strings"

	application "freightledger/contexts/identity-access/authorization-service/application"
	domainerrors "freightledger/contexts/identity-access/authorization-service/domain/errors"
	"freightledger/contexts/identity-access/authorization-service/domain/valueobjects"
	"freightledger/contexts/identity-access/authorization-service/ports"
)

// HasRoleQuery is the request model for a single membership lookup.
type HasRoleQuery struct {
	Role  string
	Actor string
}

// HasRoleUseCase answers membership lookups. Pure read, no caching:
// consumers always observe the latest committed grant state.
type HasRoleUseCase struct {
	Repository ports.Repository
	Logger     *slog.Logger
}

func (u HasRoleUseCase) Execute(ctx context.Context, query HasRoleQuery) (bool, error) {
	if strings.TrimSpace(query.Role) == "" {
		return false, domainerrors.ErrInvalidRole
	}
	if strings.TrimSpace(query.Actor) == "" {
		return false, domainerrors.ErrInvalidActor
	}

	role := valueobjects.Resolve(query.Role)
	held, err := u.Repository.HasRole(ctx, string(role), strings.TrimSpace(query.Actor))
	if err != nil {
		application.ResolveLogger(u.Logger).Error("role lookup failed",
			"event", "authz_has_role_failed",
			"module", "identity-access/authorization-service",
			"layer", "application",
			"role", string(role),
			"actor", query.Actor,
			"error", err.Error(),
		)
		return false, err
	}
	return held, nil
}
