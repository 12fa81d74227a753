package entities

import "time"

// LocationRecord is one append-only location history entry. Coordinates
// are free-form strings; format validation belongs to callers, not this
// layer. Records are never mutated or removed once appended.
type LocationRecord struct {
	ShipmentID uint64    `json:"shipment_id"`
	Latitude   string    `json:"latitude"`
	Longitude  string    `json:"longitude"`
	RecordedBy string    `json:"recorded_by"`
	RecordedAt time.Time `json:"recorded_at"`
}
