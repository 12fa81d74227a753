package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	registryerrors "freightledger/contexts/custody-chain/shipment-registry/domain/errors"
	registryhttp "freightledger/contexts/custody-chain/shipment-registry/transport/http"
)

func (s *Server) handleCreateShipment(w http.ResponseWriter, r *http.Request) {
	sender := r.Header.Get("X-User-Id")
	if sender == "" {
		writeRegistryError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	var req registryhttp.CreateShipmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRegistryError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.registry.Handler.CreateShipmentHandler(r.Context(), sender, req)
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetShipment(w http.ResponseWriter, r *http.Request) {
	shipmentID, ok := parseShipmentID(w, r)
	if !ok {
		return
	}
	resp, err := s.registry.Handler.GetShipmentHandler(r.Context(), shipmentID)
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateLocation(w http.ResponseWriter, r *http.Request) {
	sender := r.Header.Get("X-User-Id")
	if sender == "" {
		writeRegistryError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}
	shipmentID, ok := parseShipmentID(w, r)
	if !ok {
		return
	}

	var req registryhttp.UpdateLocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRegistryError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.registry.Handler.UpdateLocationHandler(r.Context(), sender, shipmentID, req)
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetLocationHistory(w http.ResponseWriter, r *http.Request) {
	shipmentID, ok := parseShipmentID(w, r)
	if !ok {
		return
	}
	resp, err := s.registry.Handler.GetLocationHistoryHandler(r.Context(), shipmentID)
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	sender := r.Header.Get("X-User-Id")
	if sender == "" {
		writeRegistryError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}
	shipmentID, ok := parseShipmentID(w, r)
	if !ok {
		return
	}

	var req registryhttp.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRegistryError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.registry.Handler.UpdateStatusHandler(r.Context(), sender, shipmentID, req)
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTransferHandler(w http.ResponseWriter, r *http.Request) {
	sender := r.Header.Get("X-User-Id")
	if sender == "" {
		writeRegistryError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}
	shipmentID, ok := parseShipmentID(w, r)
	if !ok {
		return
	}

	var req registryhttp.TransferHandlerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRegistryError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.registry.Handler.TransferHandlerHandler(r.Context(), sender, shipmentID, req)
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListUserShipments(w http.ResponseWriter, r *http.Request) {
	actor := r.PathValue("actor")
	resp, err := s.registry.Handler.ListUserShipmentsHandler(r.Context(), actor)
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleShipmentCounter(w http.ResponseWriter, r *http.Request) {
	resp, err := s.registry.Handler.ShipmentCounterHandler(r.Context())
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func parseShipmentID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	raw := r.PathValue("shipment_id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		writeRegistryError(w, http.StatusBadRequest, "invalid_shipment_id", "shipment_id must be a positive integer")
		return 0, false
	}
	return id, true
}

func writeRegistryDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, registryerrors.ErrShipmentNotFound):
		writeRegistryError(w, http.StatusNotFound, "shipment_not_found", err.Error())
	case errors.Is(err, registryerrors.ErrManufacturerRoleRequired):
		writeRegistryError(w, http.StatusForbidden, "missing_role", err.Error())
	case errors.Is(err, registryerrors.ErrNotAuthorized):
		writeRegistryError(w, http.StatusForbidden, "not_authorized", err.Error())
	case errors.Is(err, registryerrors.ErrNotCurrentHandler):
		writeRegistryError(w, http.StatusForbidden, "not_current_handler", err.Error())
	case errors.Is(err, registryerrors.ErrShipmentNotActive):
		writeRegistryError(w, http.StatusConflict, "shipment_not_active", err.Error())
	case errors.Is(err, registryerrors.ErrInvalidStatus):
		writeRegistryError(w, http.StatusUnprocessableEntity, "invalid_status", err.Error())
	case errors.Is(err, registryerrors.ErrInvalidShipmentInput),
		errors.Is(err, registryerrors.ErrInvalidActor):
		writeRegistryError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeRegistryError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeRegistryError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, registryhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
