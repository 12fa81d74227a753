package queries

import (
	"context"
	"strings"

	domainerrors "freightledger/contexts/custody-chain/shipment-registry/domain/errors"
	"freightledger/contexts/custody-chain/shipment-registry/ports"
)

type ListUserShipmentsQuery struct {
	Actor string
}

// ListUserShipmentsUseCase returns the ids a user is or was associated
// with as manufacturer, recipient, or handler. Unknown users get an
// empty list, not an error.
type ListUserShipmentsUseCase struct {
	Repository ports.Repository
}

func (uc ListUserShipmentsUseCase) Execute(ctx context.Context, query ListUserShipmentsQuery) ([]uint64, error) {
	actor := strings.TrimSpace(query.Actor)
	if actor == "" {
		return nil, domainerrors.ErrInvalidActor
	}
	return uc.Repository.ListUserShipments(ctx, actor)
}
