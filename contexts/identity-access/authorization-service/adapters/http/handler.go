package httpadapter

import (
	"context"
	"log/slog"

	application "freightledger/contexts/identity-access/authorization-service/application"
	"freightledger/contexts/identity-access/authorization-service/application/commands"
	"freightledger/contexts/identity-access/authorization-service/application/queries"
	httptransport "freightledger/contexts/identity-access/authorization-service/transport/http"
)

// Handler maps HTTP DTOs to application commands/queries.
type Handler struct {
	HasRole        queries.HasRoleUseCase
	ListActorRoles queries.ListActorRolesUseCase
	GrantRole      commands.GrantRoleUseCase
	RevokeRole     commands.RevokeRoleUseCase
	Logger         *slog.Logger
}

// HasRoleHandler answers one membership lookup.
func (h Handler) HasRoleHandler(
	ctx context.Context,
	request httptransport.HasRoleRequest,
) (httptransport.HasRoleResponse, error) {
	held, err := h.HasRole.Execute(ctx, queries.HasRoleQuery{
		Role:  request.Role,
		Actor: request.Actor,
	})
	if err != nil {
		return httptransport.HasRoleResponse{}, err
	}
	return httptransport.HasRoleResponse{
		Role:  request.Role,
		Actor: request.Actor,
		Held:  held,
	}, nil
}

// ListActorRolesHandler returns active and historical grants for an actor.
func (h Handler) ListActorRolesHandler(ctx context.Context, actor string) (httptransport.ListActorRolesResponse, error) {
	grants, err := h.ListActorRoles.Execute(ctx, actor)
	if err != nil {
		return httptransport.ListActorRolesResponse{}, err
	}

	items := make([]httptransport.RoleGrantDTO, 0, len(grants))
	for _, grant := range grants {
		items = append(items, httptransport.RoleGrantDTO{
			Role:      grant.Role,
			Actor:     grant.Actor,
			GrantedBy: grant.GrantedBy,
			GrantedAt: grant.GrantedAt,
			IsActive:  grant.IsActive,
			RevokedBy: grant.RevokedBy,
			RevokedAt: grant.RevokedAt,
		})
	}
	return httptransport.ListActorRolesResponse{
		Actor: actor,
		Roles: items,
	}, nil
}

// GrantRoleHandler executes an admin-gated role grant.
func (h Handler) GrantRoleHandler(
	ctx context.Context,
	sender string,
	request httptransport.GrantRoleRequest,
) (httptransport.GrantRoleResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	logger.Info("http authz grant role received",
		"event", "authz_http_grant_role_received",
		"module", "identity-access/authorization-service",
		"layer", "transport",
		"role", request.Role,
		"actor", request.Actor,
		"sender", sender,
	)

	grant, err := h.GrantRole.Execute(ctx, commands.GrantRoleCommand{
		Role:   request.Role,
		Actor:  request.Actor,
		Sender: sender,
	})
	if err != nil {
		logger.Error("http authz grant role failed",
			"event", "authz_http_grant_role_failed",
			"module", "identity-access/authorization-service",
			"layer", "transport",
			"role", request.Role,
			"actor", request.Actor,
			"sender", sender,
			"error", err.Error(),
		)
		return httptransport.GrantRoleResponse{}, err
	}
	return httptransport.GrantRoleResponse{
		Role:      grant.Role,
		Actor:     grant.Actor,
		GrantedBy: grant.GrantedBy,
		GrantedAt: grant.GrantedAt,
	}, nil
}

// RevokeRoleHandler executes an admin-gated role revocation.
func (h Handler) RevokeRoleHandler(
	ctx context.Context,
	sender string,
	request httptransport.RevokeRoleRequest,
) (httptransport.RevokeRoleResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	logger.Info("http authz revoke role received",
		"event", "authz_http_revoke_role_received",
		"module", "identity-access/authorization-service",
		"layer", "transport",
		"role", request.Role,
		"actor", request.Actor,
		"sender", sender,
	)

	grant, err := h.RevokeRole.Execute(ctx, commands.RevokeRoleCommand{
		Role:   request.Role,
		Actor:  request.Actor,
		Sender: sender,
	})
	if err != nil {
		logger.Error("http authz revoke role failed",
			"event", "authz_http_revoke_role_failed",
			"module", "identity-access/authorization-service",
			"layer", "transport",
			"role", request.Role,
			"actor", request.Actor,
			"sender", sender,
			"error", err.Error(),
		)
		return httptransport.RevokeRoleResponse{}, err
	}
	return httptransport.RevokeRoleResponse{
		Role:      grant.Role,
		Actor:     grant.Actor,
		RevokedBy: grant.RevokedBy,
		RevokedAt: grant.RevokedAt,
	}, nil
}
