package queries

import (
	"context"
	"log/slog"

	application "tokengate/contexts/asset-control/ledger-controller/application"
	"tokengate/contexts/asset-control/ledger-controller/domain/entities"
	domainerrors "tokengate/contexts/asset-control/ledger-controller/domain/errors"
	"tokengate/contexts/asset-control/ledger-controller/domain/valueobjects"
	"tokengate/contexts/asset-control/ledger-controller/ports"
)

// GetControlStateUseCase reads the committed control state of one asset.
type GetControlStateUseCase struct {
	Repository ports.Repository
	Logger     *slog.Logger
}

func (u GetControlStateUseCase) Execute(ctx context.Context, mint valueobjects.Identity) (entities.ControlState, error) {
	if mint.IsZero() {
		return entities.ControlState{}, domainerrors.ErrInvalidIdentity
	}
	state, err := u.Repository.GetControlState(ctx, mint)
	if err != nil {
		application.ResolveLogger(u.Logger).Warn("control state lookup failed",
			"event", "ledger_controller_state_lookup_failed",
			"module", application.ModuleName,
			"layer", "application",
			"mint", mint.String(),
			"error", err.Error(),
		)
		return entities.ControlState{}, err
	}
	return state, nil
}
