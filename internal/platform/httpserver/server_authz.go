package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	authzerrors "freightledger/contexts/identity-access/authorization-service/domain/errors"
	authzhttp "freightledger/contexts/identity-access/authorization-service/transport/http"
)

func (s *Server) handleAuthzCheck(w http.ResponseWriter, r *http.Request) {
	var req authzhttp.HasRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAuthzError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.authorization.Handler.HasRoleHandler(r.Context(), req)
	if err != nil {
		writeAuthzDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAuthzListActorRoles(w http.ResponseWriter, r *http.Request) {
	actor := r.PathValue("actor")
	resp, err := s.authorization.Handler.ListActorRolesHandler(r.Context(), actor)
	if err != nil {
		writeAuthzDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAuthzGrantRole(w http.ResponseWriter, r *http.Request) {
	sender := r.Header.Get("X-User-Id")
	if sender == "" {
		writeAuthzError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	var req authzhttp.GrantRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAuthzError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.authorization.Handler.GrantRoleHandler(r.Context(), sender, req)
	if err != nil {
		writeAuthzDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAuthzRevokeRole(w http.ResponseWriter, r *http.Request) {
	sender := r.Header.Get("X-User-Id")
	if sender == "" {
		writeAuthzError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	var req authzhttp.RevokeRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAuthzError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.authorization.Handler.RevokeRoleHandler(r.Context(), sender, req)
	if err != nil {
		writeAuthzDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeAuthzDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, authzerrors.ErrMissingAdminRole):
		writeAuthzError(w, http.StatusForbidden, "missing_role", err.Error())
	case errors.Is(err, authzerrors.ErrInvalidRole),
		errors.Is(err, authzerrors.ErrInvalidActor),
		errors.Is(err, authzerrors.ErrInvalidSender):
		writeAuthzError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, authzerrors.ErrRoleAlreadyHeld),
		errors.Is(err, authzerrors.ErrRoleNotHeld):
		writeAuthzError(w, http.StatusConflict, "conflict", err.Error())
	default:
		writeAuthzError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeAuthzError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, authzhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
