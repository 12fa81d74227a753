package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	shipmentregistry "freightledger/contexts/custody-chain/shipment-registry"
	registryhttp "freightledger/contexts/custody-chain/shipment-registry/transport/http"
	authorization "freightledger/contexts/identity-access/authorization-service"
	authqueries "freightledger/contexts/identity-access/authorization-service/application/queries"
)

type rolesBridge struct {
	hasRole authqueries.HasRoleUseCase
}

func (b rolesBridge) HasRole(ctx context.Context, role string, actor string) (bool, error) {
	return b.hasRole.Execute(ctx, authqueries.HasRoleQuery{Role: role, Actor: actor})
}

func newTestServer() *Server {
	authModule := authorization.NewInMemoryModule(slog.Default(), "root-1")
	registryModule := shipmentregistry.NewInMemoryModule(slog.Default(), rolesBridge{hasRole: authModule.HasRole})
	return New(registryModule, authModule, slog.Default(), ":0")
}

func grantRole(t *testing.T, server *Server, role string, actor string) {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"role": role, "actor": actor})
	req := httptest.NewRequest(http.MethodPost, "/api/authz/v1/roles/grant", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Id", "root-1")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("grant %s to %s failed: %d body=%s", role, actor, rr.Code, rr.Body.String())
	}
}

func createShipment(t *testing.T, server *Server, sender string) registryhttp.ShipmentDTO {
	t.Helper()
	body := []byte(`{"product_name":"vaccine batch","description":"cold chain","recipient":"clinic-9","ipfs_hash":"QmDocs"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/registry/v1/shipments", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Id", sender)

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create shipment failed: %d body=%s", rr.Code, rr.Body.String())
	}
	var resp registryhttp.ShipmentDTO
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response failed: %v", err)
	}
	return resp
}

func TestCreateShipmentRequiresUserHeader(t *testing.T) {
	server := newTestServer()
	body := []byte(`{"product_name":"pallet","recipient":"warehouse-2"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/registry/v1/shipments", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestCreateShipmentDeniedWithoutManufacturerRole(t *testing.T) {
	server := newTestServer()
	body := []byte(`{"product_name":"pallet","recipient":"warehouse-2"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/registry/v1/shipments", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Id", "stranger-1")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d body=%s", rr.Code, rr.Body.String())
	}
	var resp registryhttp.ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error body failed: %v", err)
	}
	if resp.Message != "AccessControl: sender does not have required role" {
		t.Fatalf("unexpected message %q", resp.Message)
	}
}

func TestCreateAndFetchShipment(t *testing.T) {
	server := newTestServer()
	grantRole(t, server, "MANUFACTURER_ROLE", "maker-1")

	created := createShipment(t, server, "maker-1")
	if created.ID != 1 {
		t.Fatalf("expected id 1, got %d", created.ID)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/registry/v1/shipments/1", nil)
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("get failed: %d body=%s", rr.Code, rr.Body.String())
	}

	var fetched registryhttp.ShipmentDTO
	if err := json.Unmarshal(rr.Body.Bytes(), &fetched); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if fetched.CurrentHandler != "maker-1" || !fetched.IsActive {
		t.Fatalf("unexpected state %+v", fetched)
	}
}

func TestGetShipmentUnknownIDReturns404(t *testing.T) {
	server := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/api/registry/v1/shipments/99", nil)
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestShipmentIDMustBePositiveInteger(t *testing.T) {
	server := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/api/registry/v1/shipments/abc", nil)
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestTransferDeniedForNonHandler(t *testing.T) {
	server := newTestServer()
	grantRole(t, server, "MANUFACTURER_ROLE", "maker-1")
	createShipment(t, server, "maker-1")

	body := []byte(`{"new_handler":"carrier-1"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/registry/v1/shipments/1/transfer", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Id", "stranger-1")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d body=%s", rr.Code, rr.Body.String())
	}
	var resp registryhttp.ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if resp.Message != "Not current handler" {
		t.Fatalf("unexpected message %q", resp.Message)
	}
}

func TestStatusUpdateOnDeliveredShipmentReturns409(t *testing.T) {
	server := newTestServer()
	grantRole(t, server, "MANUFACTURER_ROLE", "maker-1")
	createShipment(t, server, "maker-1")

	deliver := httptest.NewRequest(http.MethodPost, "/api/registry/v1/shipments/1/status", bytes.NewReader([]byte(`{"status":4}`)))
	deliver.Header.Set("Content-Type", "application/json")
	deliver.Header.Set("X-User-Id", "maker-1")
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, deliver)
	if rr.Code != http.StatusOK {
		t.Fatalf("deliver failed: %d body=%s", rr.Code, rr.Body.String())
	}

	again := httptest.NewRequest(http.MethodPost, "/api/registry/v1/shipments/1/status", bytes.NewReader([]byte(`{"status":1}`)))
	again.Header.Set("Content-Type", "application/json")
	again.Header.Set("X-User-Id", "maker-1")
	rr = httptest.NewRecorder()
	server.mux.ServeHTTP(rr, again)
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d body=%s", rr.Code, rr.Body.String())
	}
	var resp registryhttp.ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if resp.Message != "Shipment not active" {
		t.Fatalf("unexpected message %q", resp.Message)
	}
}

func TestLocationUpdateByGrantedTransporter(t *testing.T) {
	server := newTestServer()
	grantRole(t, server, "MANUFACTURER_ROLE", "maker-1")
	grantRole(t, server, "TRANSPORTER_ROLE", "carrier-1")
	createShipment(t, server, "maker-1")

	body := []byte(`{"latitude":"48.85","longitude":"2.35"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/registry/v1/shipments/1/location", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Id", "carrier-1")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("location update failed: %d body=%s", rr.Code, rr.Body.String())
	}

	history := httptest.NewRequest(http.MethodGet, "/api/registry/v1/shipments/1/locations", nil)
	rr = httptest.NewRecorder()
	server.mux.ServeHTTP(rr, history)
	if rr.Code != http.StatusOK {
		t.Fatalf("history failed: %d body=%s", rr.Code, rr.Body.String())
	}
	var resp registryhttp.LocationHistoryResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(resp.Locations) != 1 || resp.Locations[0].RecordedBy != "carrier-1" {
		t.Fatalf("unexpected history %+v", resp.Locations)
	}
}

func TestUserShipmentsEmptyForUnknownActor(t *testing.T) {
	server := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/api/registry/v1/users/nobody/shipments", nil)
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var resp registryhttp.UserShipmentsResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(resp.ShipmentIDs) != 0 {
		t.Fatalf("expected empty ids, got %v", resp.ShipmentIDs)
	}
}

func TestShipmentCounterRoute(t *testing.T) {
	server := newTestServer()
	grantRole(t, server, "MANUFACTURER_ROLE", "maker-1")
	createShipment(t, server, "maker-1")
	createShipment(t, server, "maker-1")

	req := httptest.NewRequest(http.MethodGet, "/api/registry/v1/shipments/count", nil)
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("count failed: %d body=%s", rr.Code, rr.Body.String())
	}
	var resp registryhttp.ShipmentCounterResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if resp.Total != 2 {
		t.Fatalf("expected 2, got %d", resp.Total)
	}
}
