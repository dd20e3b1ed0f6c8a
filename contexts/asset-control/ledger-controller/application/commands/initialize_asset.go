package commands

import (
	"context"
	"log/slog"

	application "tokengate/contexts/asset-control/ledger-controller/application"
	"tokengate/contexts/asset-control/ledger-controller/domain/entities"
	domainerrors "tokengate/contexts/asset-control/ledger-controller/domain/errors"
	"tokengate/contexts/asset-control/ledger-controller/domain/services"
	"tokengate/contexts/asset-control/ledger-controller/domain/valueobjects"
	"tokengate/contexts/asset-control/ledger-controller/ports"

	"go.opentelemetry.io/otel/attribute"
)

// InitializeAssetCommand creates the asset in the ledger, issues the fixed
// initial supply to Destination and records Creator as the controller admin.
type InitializeAssetCommand struct {
	Mint            valueobjects.Identity
	Creator         valueobjects.Identity
	MintAuthority   valueobjects.Identity
	FreezeAuthority valueobjects.Identity
	Destination     valueobjects.Identity
}

type InitializeAssetResult struct {
	State         entities.ControlState
	InitialSupply uint64
	Decimals      uint8
}

// InitializeAssetUseCase runs asset creation, initial issue and control
// state creation as one unit of work: if any step fails nothing is stored.
type InitializeAssetUseCase struct {
	Repository  ports.Repository
	Ledger      ports.Ledger
	Recorder    ports.DecisionRecorder
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func (u InitializeAssetUseCase) Execute(ctx context.Context, cmd InitializeAssetCommand) (result InitializeAssetResult, err error) {
	logger := application.ResolveLogger(u.Logger)
	ctx, span := application.StartSpan(ctx, string(services.OperationInitialize),
		attribute.String("mint", cmd.Mint.String()),
		attribute.String("admin", cmd.Creator.String()),
	)
	defer func() { application.EndSpan(span, err) }()

	logger.Info("initialize asset started",
		"event", "ledger_controller_initialize_started",
		"module", application.ModuleName,
		"layer", "application",
		"mint", cmd.Mint.String(),
		"admin", cmd.Creator.String(),
		"destination", cmd.Destination.String(),
	)

	if u.Ledger == nil {
		return InitializeAssetResult{}, u.fail(logger, cmd, domainerrors.ErrLedgerUnavailable)
	}
	state, err := entities.NewControlState(cmd.Mint, cmd.Creator)
	if err != nil {
		return InitializeAssetResult{}, u.fail(logger, cmd, err)
	}

	now := resolveNow(u.Clock)
	err = u.Repository.WithinTransaction(ctx, func(ctx context.Context, tx ports.StateTx) (err error) {
		if err := tx.CreateControlState(ctx, state); err != nil {
			return err
		}
		restore := savepoint(u.Ledger)
		defer func() {
			if err != nil {
				restore()
			}
		}()
		handle, err := u.Ledger.CreateAsset(ctx, ports.CreateAssetInput{
			Mint:            cmd.Mint,
			Decimals:        valueobjects.TokenDecimals,
			MintAuthority:   cmd.MintAuthority,
			FreezeAuthority: cmd.FreezeAuthority,
		})
		if err != nil {
			return err
		}
		if err := u.Ledger.Issue(ctx, handle, cmd.Destination, cmd.MintAuthority, valueobjects.InitialSupply); err != nil {
			return err
		}
		return appendEvent(ctx, tx, u.IDGenerator, EventAssetInitialized, cmd.Mint, now, map[string]any{
			"mint":           cmd.Mint.String(),
			"admin":          cmd.Creator.String(),
			"destination":    cmd.Destination.String(),
			"decimals":       valueobjects.TokenDecimals,
			"initial_supply": valueobjects.InitialSupply,
			"is_paused":      false,
		})
	})
	if err != nil {
		return InitializeAssetResult{}, u.fail(logger, cmd, err)
	}

	u.record(ports.OutcomeAllowed)
	if u.Recorder != nil {
		u.Recorder.RecordPaused(cmd.Mint.String(), false)
	}
	logger.Info("initialize asset completed",
		"event", "ledger_controller_initialize_completed",
		"module", application.ModuleName,
		"layer", "application",
		"mint", cmd.Mint.String(),
		"admin", cmd.Creator.String(),
		"initial_supply", valueobjects.FormatAmount(valueobjects.InitialSupply, valueobjects.TokenDecimals),
	)
	return InitializeAssetResult{
		State:         state,
		InitialSupply: valueobjects.InitialSupply,
		Decimals:      valueobjects.TokenDecimals,
	}, nil
}

func (u InitializeAssetUseCase) fail(logger *slog.Logger, cmd InitializeAssetCommand, err error) error {
	u.record(ports.OutcomeFailed)
	logger.Error("initialize asset failed",
		"event", "ledger_controller_initialize_failed",
		"module", application.ModuleName,
		"layer", "application",
		"mint", cmd.Mint.String(),
		"admin", cmd.Creator.String(),
		"error", err.Error(),
	)
	return err
}

func (u InitializeAssetUseCase) record(outcome string) {
	if u.Recorder != nil {
		u.Recorder.RecordDecision(string(services.OperationInitialize), outcome)
	}
}
