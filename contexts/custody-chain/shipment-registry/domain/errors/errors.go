package errors

import "errors"

// Reason strings on the first three sentinels are wire-compatible with the
// ledger contract surface and must not be reworded.
var (
	ErrNotAuthorized     = errors.New("Not authorized")
	ErrNotCurrentHandler = errors.New("Not current handler")
	ErrShipmentNotActive = errors.New("Shipment not active")

	// ErrManufacturerRoleRequired gates creation; the reason string matches
	// the role-gated denial emitted by the authorization surface.
	ErrManufacturerRoleRequired = errors.New("AccessControl: sender does not have required role")

	ErrShipmentNotFound     = errors.New("shipment not found")
	ErrInvalidStatus        = errors.New("invalid shipment status")
	ErrInvalidShipmentInput = errors.New("invalid shipment input")
	ErrInvalidActor         = errors.New("invalid actor")
)
