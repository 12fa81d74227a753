package queries

import (
	"context"

	"freightledger/contexts/custody-chain/shipment-registry/domain/entities"
	"freightledger/contexts/custody-chain/shipment-registry/ports"
)

type GetLocationHistoryQuery struct {
	ShipmentID uint64
}

// GetLocationHistoryUseCase returns a shipment's location records in
// insertion order. Fails when the shipment does not exist.
type GetLocationHistoryUseCase struct {
	Repository ports.Repository
}

func (uc GetLocationHistoryUseCase) Execute(ctx context.Context, query GetLocationHistoryQuery) ([]entities.LocationRecord, error) {
	return uc.Repository.ListLocations(ctx, query.ShipmentID)
}
