package commands

import (
	"context"
	"log/slog"

	"tokengate/contexts/asset-control/ledger-controller/domain/services"
	"tokengate/contexts/asset-control/ledger-controller/domain/valueobjects"
	"tokengate/contexts/asset-control/ledger-controller/ports"
)

// IssueCommand mints Amount base units of Mint into Destination. Authority is
// the mint authority the invocation environment already authenticated.
type IssueCommand struct {
	Mint        valueobjects.Identity
	Destination valueobjects.Identity
	Authority   valueobjects.Identity
	Amount      uint64
}

type IssueUseCase struct {
	Repository ports.Repository
	Ledger     ports.Ledger
	Recorder   ports.DecisionRecorder
	Logger     *slog.Logger
}

func (u IssueUseCase) Execute(ctx context.Context, cmd IssueCommand) (ForwardResult, error) {
	gate := gatedForward{Repository: u.Repository, Ledger: u.Ledger, Recorder: u.Recorder, Logger: u.Logger}
	err := gate.run(ctx, services.OperationIssue, cmd.Mint,
		[]any{
			"destination", cmd.Destination.String(),
			"authority", cmd.Authority.String(),
			"amount", valueobjects.FormatAmount(cmd.Amount, valueobjects.TokenDecimals),
		},
		func(ctx context.Context, ledger ports.Ledger) error {
			return ledger.Issue(ctx, cmd.Mint, cmd.Destination, cmd.Authority, cmd.Amount)
		},
	)
	if err != nil {
		return ForwardResult{}, err
	}
	return ForwardResult{Operation: services.OperationIssue, Mint: cmd.Mint, Amount: cmd.Amount}, nil
}
