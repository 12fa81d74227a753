package entities

// Event types recorded on the custody notification channel. The channel is
// append-only and never read back by the registry itself.
const (
	EventShipmentCreated   = "custody.shipment_created"
	EventLocationUpdated   = "custody.location_updated"
	EventStatusUpdated     = "custody.status_updated"
	EventShipmentDelivered = "custody.shipment_delivered"
	EventHandlerChanged    = "custody.handler_changed"
)

type ShipmentCreatedEvent struct {
	ShipmentID   uint64 `json:"shipment_id"`
	Manufacturer string `json:"manufacturer"`
	ProductName  string `json:"product_name"`
}

type LocationUpdatedEvent struct {
	ShipmentID uint64 `json:"shipment_id"`
	Latitude   string `json:"latitude"`
	Longitude  string `json:"longitude"`
}

type StatusUpdatedEvent struct {
	ShipmentID uint64 `json:"shipment_id"`
	Status     Status `json:"status"`
}

type ShipmentDeliveredEvent struct {
	ShipmentID uint64 `json:"shipment_id"`
}

type HandlerChangedEvent struct {
	ShipmentID uint64 `json:"shipment_id"`
	OldHandler string `json:"old_handler"`
	NewHandler string `json:"new_handler"`
}
