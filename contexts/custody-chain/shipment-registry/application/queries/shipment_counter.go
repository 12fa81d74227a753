package queries

import (
	"context"

	"freightledger/contexts/custody-chain/shipment-registry/ports"
)

// ShipmentCounterUseCase reports the total number of shipments ever
// registered. Ids are dense, so the count equals the highest issued id.
type ShipmentCounterUseCase struct {
	Repository ports.Repository
}

func (uc ShipmentCounterUseCase) Execute(ctx context.Context) (uint64, error) {
	return uc.Repository.CountShipments(ctx)
}
