package apiadapter

import (
	"errors"

	"tokengate/contexts/asset-control/ledger-controller/contracts"
	domainerrors "tokengate/contexts/asset-control/ledger-controller/domain/errors"
)

// ErrorResponse maps a command error to its stable code. Errors the
// controller does not own are reported as LEDGER_ERROR with their original
// message.
func ErrorResponse(err error) contracts.ErrorResponse {
	code := "LEDGER_ERROR"
	switch {
	case errors.Is(err, domainerrors.ErrContractPaused):
		code = "CONTRACT_PAUSED"
	case errors.Is(err, domainerrors.ErrUnauthorized):
		code = "UNAUTHORIZED"
	case errors.Is(err, domainerrors.ErrAlreadyInitialized):
		code = "ALREADY_INITIALIZED"
	case errors.Is(err, domainerrors.ErrNotInitialized):
		code = "NOT_INITIALIZED"
	case errors.Is(err, domainerrors.ErrInvalidIdentity):
		code = "INVALID_IDENTITY"
	case errors.Is(err, domainerrors.ErrInvalidInput), errors.Is(err, domainerrors.ErrInvalidStateLayout):
		code = "INVALID_INPUT"
	case errors.Is(err, domainerrors.ErrLedgerUnavailable):
		code = "LEDGER_UNAVAILABLE"
	}
	return contracts.ErrorResponse{Code: code, Message: err.Error()}
}
