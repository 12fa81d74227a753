package shipmentregistry

import (
	"log/slog"

	httpadapter "freightledger/contexts/custody-chain/shipment-registry/adapters/http"
	"freightledger/contexts/custody-chain/shipment-registry/adapters/memory"
	"freightledger/contexts/custody-chain/shipment-registry/application/commands"
	"freightledger/contexts/custody-chain/shipment-registry/application/queries"
	"freightledger/contexts/custody-chain/shipment-registry/ports"
)

// Role names the registry checks through the RoleChecker port. The
// authorization module resolves names to its own tokens.
const (
	ManufacturerRoleName = "MANUFACTURER_ROLE"
	TransporterRoleName  = "TRANSPORTER_ROLE"
)

// Module is the shipment-registry composition root exposed to runtime
// wiring.
type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

// Dependencies captures all runtime ports/config required by NewModule.
type Dependencies struct {
	Repository  ports.Repository
	Roles       ports.RoleChecker
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

// NewModule wires use-cases and the transport handler using explicit
// ports.
func NewModule(deps Dependencies) Module {
	createShipment := commands.CreateShipmentUseCase{
		Repository:       deps.Repository,
		Roles:            deps.Roles,
		Clock:            deps.Clock,
		IDGenerator:      deps.IDGenerator,
		ManufacturerRole: ManufacturerRoleName,
		Logger:           deps.Logger,
	}
	updateLocation := commands.UpdateLocationUseCase{
		Repository:      deps.Repository,
		Roles:           deps.Roles,
		Clock:           deps.Clock,
		IDGenerator:     deps.IDGenerator,
		TransporterRole: TransporterRoleName,
		Logger:          deps.Logger,
	}
	updateStatus := commands.UpdateStatusUseCase{
		Repository:      deps.Repository,
		Roles:           deps.Roles,
		Clock:           deps.Clock,
		IDGenerator:     deps.IDGenerator,
		TransporterRole: TransporterRoleName,
		Logger:          deps.Logger,
	}
	transferHandler := commands.TransferHandlerUseCase{
		Repository:  deps.Repository,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGenerator,
		Logger:      deps.Logger,
	}

	handler := httpadapter.Handler{
		CreateShipment:     createShipment,
		UpdateLocation:     updateLocation,
		UpdateStatus:       updateStatus,
		TransferHandler:    transferHandler,
		GetShipment:        queries.GetShipmentUseCase{Repository: deps.Repository},
		GetLocationHistory: queries.GetLocationHistoryUseCase{Repository: deps.Repository},
		ListUserShipments:  queries.ListUserShipmentsUseCase{Repository: deps.Repository},
		ShipmentCounter:    queries.ShipmentCounterUseCase{Repository: deps.Repository},
		Logger:             deps.Logger,
	}

	return Module{
		Handler: handler,
	}
}

// NewInMemoryModule builds a development/testing module with in-memory
// adapters. The role checker still comes from the caller so the registry
// stays decoupled from the authorization module.
func NewInMemoryModule(logger *slog.Logger, roles ports.RoleChecker) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository:  store,
		Roles:       roles,
		Clock:       store,
		IDGenerator: store,
		Logger:      logger,
	})
	module.Store = store
	return module
}
