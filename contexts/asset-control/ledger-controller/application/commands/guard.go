package commands

import (
	"context"
	"errors"
	"log/slog"

	application "tokengate/contexts/asset-control/ledger-controller/application"
	domainerrors "tokengate/contexts/asset-control/ledger-controller/domain/errors"
	"tokengate/contexts/asset-control/ledger-controller/domain/services"
	"tokengate/contexts/asset-control/ledger-controller/domain/valueobjects"
	"tokengate/contexts/asset-control/ledger-controller/ports"

	"go.opentelemetry.io/otel/attribute"
)

// ForwardResult describes a request the gate let through to the ledger.
type ForwardResult struct {
	Operation services.Operation
	Mint      valueobjects.Identity
	Amount    uint64
}

// gatedForward is the shared pause-then-forward path of the five asset
// operations. The control state read and the ledger call share one unit of
// work, so a pause committed before it starts is always observed.
//
// ResolveMint, when set, asks the ledger which mint the request really
// touches. That mint keys the control state read, and a request naming a
// different mint is rejected with ErrInvalidInput.
type gatedForward struct {
	Repository  ports.Repository
	Ledger      ports.Ledger
	Recorder    ports.DecisionRecorder
	Logger      *slog.Logger
	ResolveMint func(ctx context.Context, ledger ports.Ledger) (valueobjects.Identity, error)
}

func (g gatedForward) run(
	ctx context.Context,
	op services.Operation,
	mint valueobjects.Identity,
	logAttrs []any,
	forward func(ctx context.Context, ledger ports.Ledger) error,
) (err error) {
	logger := application.ResolveLogger(g.Logger)
	ctx, span := application.StartSpan(ctx, string(op), attribute.String("mint", mint.String()))
	defer func() { application.EndSpan(span, err) }()

	attrs := append([]any{
		"event", "ledger_controller_" + string(op),
		"module", application.ModuleName,
		"layer", "application",
		"operation", string(op),
		"mint", mint.String(),
	}, logAttrs...)

	if g.Ledger == nil {
		g.record(op, ports.OutcomeFailed)
		logger.Error("asset operation rejected: ledger not configured", attrs...)
		return domainerrors.ErrLedgerUnavailable
	}

	forwarded := false
	err = g.Repository.WithinTransaction(ctx, func(ctx context.Context, tx ports.StateTx) error {
		key := mint
		if g.ResolveMint != nil {
			resolved, err := g.ResolveMint(ctx, g.Ledger)
			if err != nil {
				return err
			}
			key = resolved
		}
		state, err := tx.GetControlState(ctx, key)
		if err != nil {
			return err
		}
		if err := services.Authorize(state, op, valueobjects.Identity{}); err != nil {
			return err
		}
		if key != mint {
			return domainerrors.ErrInvalidInput
		}
		forwarded = true
		restore := savepoint(g.Ledger)
		if err := forward(ctx, g.Ledger); err != nil {
			restore()
			return err
		}
		return nil
	})
	if err != nil {
		outcome := classify(err, forwarded)
		g.record(op, outcome)
		attrs = append(attrs, "outcome", outcome, "error", err.Error())
		if outcome == ports.OutcomeLedgerError || outcome == ports.OutcomeFailed {
			logger.Error("asset operation failed", attrs...)
		} else {
			logger.Warn("asset operation rejected", attrs...)
		}
		return err
	}

	g.record(op, ports.OutcomeAllowed)
	logger.Info("asset operation forwarded", append(attrs, "outcome", ports.OutcomeAllowed)...)
	return nil
}

func (g gatedForward) record(op services.Operation, outcome string) {
	if g.Recorder != nil {
		g.Recorder.RecordDecision(string(op), outcome)
	}
}

// savepoint must be taken while the unit of work is held so a restore never
// undoes another committed operation.
func savepoint(ledger ports.Ledger) func() {
	if sp, ok := ledger.(ports.LedgerSavepointer); ok {
		return sp.Savepoint()
	}
	return func() {}
}

func classify(err error, forwarded bool) string {
	switch {
	case errors.Is(err, domainerrors.ErrContractPaused):
		return ports.OutcomePaused
	case errors.Is(err, domainerrors.ErrUnauthorized):
		return ports.OutcomeUnauthorized
	case errors.Is(err, domainerrors.ErrNotInitialized):
		return ports.OutcomeNotInitialized
	case forwarded:
		return ports.OutcomeLedgerError
	default:
		return ports.OutcomeFailed
	}
}
