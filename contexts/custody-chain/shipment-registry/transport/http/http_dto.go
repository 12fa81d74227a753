package httptransport

import "time"

// ShipmentDTO is the HTTP projection of a shipment record.
type ShipmentDTO struct {
	ID             uint64     `json:"id"`
	ProductName    string     `json:"product_name"`
	Description    string     `json:"description"`
	Manufacturer   string     `json:"manufacturer"`
	Recipient      string     `json:"recipient"`
	IPFSHash       string     `json:"ipfs_hash"`
	Status         uint8      `json:"status"`
	StatusLabel    string     `json:"status_label"`
	CurrentHandler string     `json:"current_handler"`
	IsActive       bool       `json:"is_active"`
	CreatedAt      time.Time  `json:"created_at"`
	DeliveredAt    *time.Time `json:"delivered_at,omitempty"`
}

type LocationRecordDTO struct {
	ShipmentID uint64    `json:"shipment_id"`
	Latitude   string    `json:"latitude"`
	Longitude  string    `json:"longitude"`
	RecordedBy string    `json:"recorded_by"`
	RecordedAt time.Time `json:"recorded_at"`
}

type CreateShipmentRequest struct {
	ProductName string `json:"product_name"`
	Description string `json:"description"`
	Recipient   string `json:"recipient"`
	IPFSHash    string `json:"ipfs_hash"`
}

type UpdateLocationRequest struct {
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
}

type UpdateStatusRequest struct {
	Status uint8 `json:"status"`
}

type TransferHandlerRequest struct {
	NewHandler string `json:"new_handler"`
}

type LocationHistoryResponse struct {
	ShipmentID uint64              `json:"shipment_id"`
	Locations  []LocationRecordDTO `json:"locations"`
}

type UserShipmentsResponse struct {
	Actor       string   `json:"actor"`
	ShipmentIDs []uint64 `json:"shipment_ids"`
}

type ShipmentCounterResponse struct {
	Total uint64 `json:"total"`
}

// ErrorResponse is the uniform error body emitted by the HTTP server.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
