package commands

import (
	"context"
	"log/slog"

	"tokengate/contexts/asset-control/ledger-controller/domain/services"
	"tokengate/contexts/asset-control/ledger-controller/domain/valueobjects"
	"tokengate/contexts/asset-control/ledger-controller/ports"
)

// FreezeCommand targets one balance-holding Account of Mint. Authority is the
// freeze authority. It is used for both freeze and unfreeze.
type FreezeCommand struct {
	Mint      valueobjects.Identity
	Account   valueobjects.Identity
	Authority valueobjects.Identity
}

type FreezeAccountUseCase struct {
	Repository ports.Repository
	Ledger     ports.Ledger
	Recorder   ports.DecisionRecorder
	Logger     *slog.Logger
}

func (u FreezeAccountUseCase) Execute(ctx context.Context, cmd FreezeCommand) (ForwardResult, error) {
	gate := gatedForward{Repository: u.Repository, Ledger: u.Ledger, Recorder: u.Recorder, Logger: u.Logger}
	err := gate.run(ctx, services.OperationFreeze, cmd.Mint,
		[]any{"account", cmd.Account.String(), "authority", cmd.Authority.String()},
		func(ctx context.Context, ledger ports.Ledger) error {
			return ledger.Freeze(ctx, cmd.Account, cmd.Mint, cmd.Authority)
		},
	)
	if err != nil {
		return ForwardResult{}, err
	}
	return ForwardResult{Operation: services.OperationFreeze, Mint: cmd.Mint}, nil
}

type UnfreezeAccountUseCase struct {
	Repository ports.Repository
	Ledger     ports.Ledger
	Recorder   ports.DecisionRecorder
	Logger     *slog.Logger
}

func (u UnfreezeAccountUseCase) Execute(ctx context.Context, cmd FreezeCommand) (ForwardResult, error) {
	gate := gatedForward{Repository: u.Repository, Ledger: u.Ledger, Recorder: u.Recorder, Logger: u.Logger}
	err := gate.run(ctx, services.OperationUnfreeze, cmd.Mint,
		[]any{"account", cmd.Account.String(), "authority", cmd.Authority.String()},
		func(ctx context.Context, ledger ports.Ledger) error {
			return ledger.Unfreeze(ctx, cmd.Account, cmd.Mint, cmd.Authority)
		},
	)
	if err != nil {
		return ForwardResult{}, err
	}
	return ForwardResult{Operation: services.OperationUnfreeze, Mint: cmd.Mint}, nil
}
