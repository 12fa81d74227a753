package entities

import "time"

// Status is the shipment lifecycle state. Values are wire-stable; the
// intermediate checkpoints carry no fixed business meaning and may gain
// siblings without breaking consumers.
type Status uint8

const (
	StatusCreated Status = iota
	StatusInTransit
	StatusAtCheckpoint
	StatusOutForDelivery
	StatusDelivered
)

// Valid reports whether s is a defined lifecycle value.
func (s Status) Valid() bool {
	return s <= StatusDelivered
}

func (s Status) String() string {
	switch s {
	case StatusCreated:
		return "created"
	case StatusInTransit:
		return "in_transit"
	case StatusAtCheckpoint:
		return "at_checkpoint"
	case StatusOutForDelivery:
		return "out_for_delivery"
	case StatusDelivered:
		return "delivered"
	default:
		return "unknown"
	}
}

// Shipment is one custody record on the ledger. Ids are dense and start
// at 1. Manufacturer, recipient, and the creation metadata are immutable;
// status, handler, and the activity flag change only through registry
// operations. IsActive mirrors status != Delivered at all times.
type Shipment struct {
	ID             uint64     `json:"id"`
	ProductName    string     `json:"product_name"`
	Description    string     `json:"description"`
	Manufacturer   string     `json:"manufacturer"`
	Recipient      string     `json:"recipient"`
	IPFSHash       string     `json:"ipfs_hash"`
	Status         Status     `json:"status"`
	CurrentHandler string     `json:"current_handler"`
	IsActive       bool       `json:"is_active"`
	CreatedAt      time.Time  `json:"created_at"`
	DeliveredAt    *time.Time `json:"delivered_at,omitempty"`
}
