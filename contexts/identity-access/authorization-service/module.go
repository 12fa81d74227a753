package authorization

import (
	"log/slog"

	httpadapter "freightledger/contexts/identity-access/authorization-service/adapters/http"
	"freightledger/contexts/identity-access/authorization-service/adapters/memory"
	"freightledger/contexts/identity-access/authorization-service/application/commands"
	"freightledger/contexts/identity-access/authorization-service/application/queries"
	"freightledger/contexts/identity-access/authorization-service/ports"
)

// Module is the authorization-service composition root exposed to runtime wiring.
type Module struct {
	Handler httpadapter.Handler
	HasRole queries.HasRoleUseCase
	Store   *memory.Store
}

// Dependencies captures all runtime ports/config required by NewModule.
type Dependencies struct {
	Repository  ports.Repository
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

// NewModule wires use-cases and the transport handler using explicit ports.
func NewModule(deps Dependencies) Module {
	hasRole := queries.HasRoleUseCase{
		Repository: deps.Repository,
		Logger:     deps.Logger,
	}
	listActorRoles := queries.ListActorRolesUseCase{
		Repository: deps.Repository,
		Logger:     deps.Logger,
	}
	grantRole := commands.GrantRoleUseCase{
		Repository:  deps.Repository,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGenerator,
		Logger:      deps.Logger,
	}
	revokeRole := commands.RevokeRoleUseCase{
		Repository:  deps.Repository,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGenerator,
		Logger:      deps.Logger,
	}

	handler := httpadapter.Handler{
		HasRole:        hasRole,
		ListActorRoles: listActorRoles,
		GrantRole:      grantRole,
		RevokeRole:     revokeRole,
		Logger:         deps.Logger,
	}

	return Module{
		Handler: handler,
		HasRole: hasRole,
	}
}

// NewInMemoryModule builds a development/testing module with in-memory
// adapters, seeding rootAdmin with the administrative role.
func NewInMemoryModule(logger *slog.Logger, rootAdmin string) Module {
	store := memory.NewStore(rootAdmin)
	module := NewModule(Dependencies{
		Repository:  store,
		Clock:       store,
		IDGenerator: store,
		Logger:      logger,
	})
	module.Store = store
	return module
}
