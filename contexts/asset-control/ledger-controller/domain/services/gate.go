package services

import (
	"tokengate/contexts/asset-control/ledger-controller/domain/entities"
	domainerrors "tokengate/contexts/asset-control/ledger-controller/domain/errors"
	"tokengate/contexts/asset-control/ledger-controller/domain/valueobjects"
)

// Operation names one gated operation family.
type Operation string

const (
	OperationInitialize Operation = "initialize"
	OperationIssue      Operation = "issue"
	OperationDestroy    Operation = "destroy"
	OperationMove       Operation = "move"
	OperationFreeze     Operation = "freeze"
	OperationUnfreeze   Operation = "unfreeze"
	OperationPause      Operation = "pause"
	OperationUnpause    Operation = "unpause"
)

// AssetOperations are the five ledger-forwarding operations sharing the
// pause-then-forward shape.
var AssetOperations = []Operation{
	OperationIssue,
	OperationDestroy,
	OperationMove,
	OperationFreeze,
	OperationUnfreeze,
}

// PauseGated reports whether the operation is blocked while paused.
func (o Operation) PauseGated() bool {
	switch o {
	case OperationIssue, OperationDestroy, OperationMove, OperationFreeze, OperationUnfreeze:
		return true
	default:
		return false
	}
}

// RequiresAdmin reports whether the caller must equal ControlState.Admin.
func (o Operation) RequiresAdmin() bool {
	return o == OperationPause || o == OperationUnpause
}

// Authorize is the single decision procedure for the gate. Pause-gated
// operations are checked against the flag only; the authority they carry is
// validated by the ledger after forwarding. Admin operations are checked
// against the admin only, so a paused controller can always be unpaused.
func Authorize(state entities.ControlState, op Operation, caller valueobjects.Identity) error {
	if op.PauseGated() {
		return EnsureActive(state)
	}
	if op.RequiresAdmin() {
		return EnsureAdmin(state, caller)
	}
	return domainerrors.ErrInvalidInput
}

func EnsureActive(state entities.ControlState) error {
	if state.IsPaused {
		return domainerrors.ErrContractPaused
	}
	return nil
}

func EnsureAdmin(state entities.ControlState, caller valueobjects.Identity) error {
	if caller.IsZero() || caller != state.Admin {
		return domainerrors.ErrUnauthorized
	}
	return nil
}
