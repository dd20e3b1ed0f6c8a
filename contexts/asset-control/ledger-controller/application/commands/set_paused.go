package commands

import (
	"context"
	"errors"
	"log/slog"

	application "tokengate/contexts/asset-control/ledger-controller/application"
	"tokengate/contexts/asset-control/ledger-controller/domain/entities"
	domainerrors "tokengate/contexts/asset-control/ledger-controller/domain/errors"
	"tokengate/contexts/asset-control/ledger-controller/domain/services"
	"tokengate/contexts/asset-control/ledger-controller/domain/valueobjects"
	"tokengate/contexts/asset-control/ledger-controller/ports"

	"go.opentelemetry.io/otel/attribute"
)

// PauseCommand flips the pause switch of Mint on behalf of Caller.
type PauseCommand struct {
	Mint   valueobjects.Identity
	Caller valueobjects.Identity
}

// PauseResult carries the committed state. Changed is false when the flag
// already had the requested value.
type PauseResult struct {
	State   entities.ControlState
	Changed bool
}

type PauseUseCase struct {
	Repository  ports.Repository
	Recorder    ports.DecisionRecorder
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func (u PauseUseCase) Execute(ctx context.Context, cmd PauseCommand) (PauseResult, error) {
	return setPaused{
		Repository:  u.Repository,
		Recorder:    u.Recorder,
		Clock:       u.Clock,
		IDGenerator: u.IDGenerator,
		Logger:      u.Logger,
	}.run(ctx, services.OperationPause, cmd, true)
}

type UnpauseUseCase struct {
	Repository  ports.Repository
	Recorder    ports.DecisionRecorder
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func (u UnpauseUseCase) Execute(ctx context.Context, cmd PauseCommand) (PauseResult, error) {
	return setPaused{
		Repository:  u.Repository,
		Recorder:    u.Recorder,
		Clock:       u.Clock,
		IDGenerator: u.IDGenerator,
		Logger:      u.Logger,
	}.run(ctx, services.OperationUnpause, cmd, false)
}

type setPaused struct {
	Repository  ports.Repository
	Recorder    ports.DecisionRecorder
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func (s setPaused) run(ctx context.Context, op services.Operation, cmd PauseCommand, value bool) (result PauseResult, err error) {
	logger := application.ResolveLogger(s.Logger)
	ctx, span := application.StartSpan(ctx, string(op),
		attribute.String("mint", cmd.Mint.String()),
		attribute.String("caller", cmd.Caller.String()),
	)
	defer func() { application.EndSpan(span, err) }()

	now := resolveNow(s.Clock)
	err = s.Repository.WithinTransaction(ctx, func(ctx context.Context, tx ports.StateTx) error {
		state, err := tx.GetControlState(ctx, cmd.Mint)
		if err != nil {
			return err
		}
		if err := services.Authorize(state, op, cmd.Caller); err != nil {
			return err
		}
		if state.IsPaused == value {
			result = PauseResult{State: state}
			return nil
		}
		state.SetPaused(value)
		if err := tx.SaveControlState(ctx, state); err != nil {
			return err
		}
		eventType := EventControllerUnpaused
		if value {
			eventType = EventControllerPaused
		}
		if err := appendEvent(ctx, tx, s.IDGenerator, eventType, cmd.Mint, now, map[string]any{
			"mint":      cmd.Mint.String(),
			"admin":     state.Admin.String(),
			"is_paused": state.IsPaused,
		}); err != nil {
			return err
		}
		result = PauseResult{State: state, Changed: true}
		return nil
	})
	if err != nil {
		outcome := classify(err, false)
		s.record(op, outcome)
		attrs := []any{
			"event", "ledger_controller_" + string(op) + "_rejected",
			"module", application.ModuleName,
			"layer", "application",
			"mint", cmd.Mint.String(),
			"caller", cmd.Caller.String(),
			"outcome", outcome,
			"error", err.Error(),
		}
		if errors.Is(err, domainerrors.ErrUnauthorized) || errors.Is(err, domainerrors.ErrNotInitialized) {
			logger.Warn("pause switch change rejected", attrs...)
		} else {
			logger.Error("pause switch change failed", attrs...)
		}
		return PauseResult{}, err
	}

	s.record(op, ports.OutcomeAllowed)
	if s.Recorder != nil {
		s.Recorder.RecordPaused(cmd.Mint.String(), result.State.IsPaused)
	}
	logger.Info("pause switch updated",
		"event", "ledger_controller_"+string(op)+"_completed",
		"module", application.ModuleName,
		"layer", "application",
		"mint", cmd.Mint.String(),
		"caller", cmd.Caller.String(),
		"is_paused", result.State.IsPaused,
		"changed", result.Changed,
	)
	return result, nil
}

func (s setPaused) record(op services.Operation, outcome string) {
	if s.Recorder != nil {
		s.Recorder.RecordDecision(string(op), outcome)
	}
}
