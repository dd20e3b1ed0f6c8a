package commands

import (
	"context"
	"log/slog"

	"tokengate/contexts/asset-control/ledger-controller/domain/services"
	"tokengate/contexts/asset-control/ledger-controller/domain/valueobjects"
	"tokengate/contexts/asset-control/ledger-controller/ports"
)

// MoveCommand transfers Amount base units from Source to Destination. The
// transfer is gated by the control state of the source account's mint, and
// Mint must name that same mint.
type MoveCommand struct {
	Mint        valueobjects.Identity
	Source      valueobjects.Identity
	Destination valueobjects.Identity
	Authority   valueobjects.Identity
	Amount      uint64
}

type MoveUseCase struct {
	Repository ports.Repository
	Ledger     ports.Ledger
	Recorder   ports.DecisionRecorder
	Logger     *slog.Logger
}

func (u MoveUseCase) Execute(ctx context.Context, cmd MoveCommand) (ForwardResult, error) {
	gate := gatedForward{
		Repository: u.Repository,
		Ledger:     u.Ledger,
		Recorder:   u.Recorder,
		Logger:     u.Logger,
		ResolveMint: func(ctx context.Context, ledger ports.Ledger) (ports.MintHandle, error) {
			return ledger.AccountMint(ctx, cmd.Source)
		},
	}
	err := gate.run(ctx, services.OperationMove, cmd.Mint,
		[]any{
			"source", cmd.Source.String(),
			"destination", cmd.Destination.String(),
			"authority", cmd.Authority.String(),
			"amount", valueobjects.FormatAmount(cmd.Amount, valueobjects.TokenDecimals),
		},
		func(ctx context.Context, ledger ports.Ledger) error {
			return ledger.Move(ctx, cmd.Source, cmd.Destination, cmd.Authority, cmd.Amount)
		},
	)
	if err != nil {
		return ForwardResult{}, err
	}
	return ForwardResult{Operation: services.OperationMove, Mint: cmd.Mint, Amount: cmd.Amount}, nil
}
