package commands

import (
	"context"
	"log/slog"

	"tokengate/contexts/asset-control/ledger-controller/domain/services"
	"tokengate/contexts/asset-control/ledger-controller/domain/valueobjects"
	"tokengate/contexts/asset-control/ledger-controller/ports"
)

// DestroyCommand burns Amount base units of Mint held by Source.
type DestroyCommand struct {
	Mint      valueobjects.Identity
	Source    valueobjects.Identity
	Authority valueobjects.Identity
	Amount    uint64
}

type DestroyUseCase struct {
	Repository ports.Repository
	Ledger     ports.Ledger
	Recorder   ports.DecisionRecorder
	Logger     *slog.Logger
}

func (u DestroyUseCase) Execute(ctx context.Context, cmd DestroyCommand) (ForwardResult, error) {
	gate := gatedForward{Repository: u.Repository, Ledger: u.Ledger, Recorder: u.Recorder, Logger: u.Logger}
	err := gate.run(ctx, services.OperationDestroy, cmd.Mint,
		[]any{
			"source", cmd.Source.String(),
			"authority", cmd.Authority.String(),
			"amount", valueobjects.FormatAmount(cmd.Amount, valueobjects.TokenDecimals),
		},
		func(ctx context.Context, ledger ports.Ledger) error {
			return ledger.Destroy(ctx, cmd.Mint, cmd.Source, cmd.Authority, cmd.Amount)
		},
	)
	if err != nil {
		return ForwardResult{}, err
	}
	return ForwardResult{Operation: services.OperationDestroy, Mint: cmd.Mint, Amount: cmd.Amount}, nil
}
