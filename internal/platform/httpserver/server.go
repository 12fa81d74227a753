package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"

	shipmentregistry "freightledger/contexts/custody-chain/shipment-registry"
	authorization "freightledger/contexts/identity-access/authorization-service"
	_ "freightledger/internal/platform/httpserver/docs"

	httpSwagger "github.com/swaggo/http-swagger"
)

type Server struct {
	mux           *http.ServeMux
	logger        *slog.Logger
	addr          string
	registry      shipmentregistry.Module
	authorization authorization.Module
}

func New(
	registry shipmentregistry.Module,
	authorizationModule authorization.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:           http.NewServeMux(),
		logger:        logger,
		addr:          addr,
		registry:      registry,
		authorization: authorizationModule,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler exposes the mux for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /api/registry/v1/shipments", s.handleCreateShipment)
	s.mux.HandleFunc("GET /api/registry/v1/shipments/count", s.handleShipmentCounter)
	s.mux.HandleFunc("GET /api/registry/v1/shipments/{shipment_id}", s.handleGetShipment)
	s.mux.HandleFunc("POST /api/registry/v1/shipments/{shipment_id}/location", s.handleUpdateLocation)
	s.mux.HandleFunc("GET /api/registry/v1/shipments/{shipment_id}/locations", s.handleGetLocationHistory)
	s.mux.HandleFunc("POST /api/registry/v1/shipments/{shipment_id}/status", s.handleUpdateStatus)
	s.mux.HandleFunc("POST /api/registry/v1/shipments/{shipment_id}/transfer", s.handleTransferHandler)
	s.mux.HandleFunc("GET /api/registry/v1/users/{actor}/shipments", s.handleListUserShipments)

	s.mux.HandleFunc("POST /api/authz/v1/check", s.handleAuthzCheck)
	s.mux.HandleFunc("GET /api/authz/v1/actors/{actor}/roles", s.handleAuthzListActorRoles)
	s.mux.HandleFunc("POST /api/authz/v1/roles/grant", s.handleAuthzGrantRole)
	s.mux.HandleFunc("POST /api/authz/v1/roles/revoke", s.handleAuthzRevokeRole)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
