package queries

import (
	"context"

	"freightledger/contexts/custody-chain/shipment-registry/domain/entities"
	"freightledger/contexts/custody-chain/shipment-registry/ports"
)

type GetShipmentQuery struct {
	ShipmentID uint64
}

// GetShipmentUseCase reads one shipment record. No caching: reads go
// straight to the repository.
type GetShipmentUseCase struct {
	Repository ports.Repository
}

func (uc GetShipmentUseCase) Execute(ctx context.Context, query GetShipmentQuery) (entities.Shipment, error) {
	return uc.Repository.GetShipment(ctx, query.ShipmentID)
}
