package errors

import "errors"

var (
	ErrContractPaused     = errors.New("the contract is currently paused")
	ErrUnauthorized       = errors.New("you are not authorized to perform this action")
	ErrAlreadyInitialized = errors.New("control state already initialized for asset")
	ErrNotInitialized     = errors.New("control state not found for asset")
	ErrInvalidIdentity    = errors.New("invalid identity")
	ErrInvalidInput       = errors.New("ledger controller input is invalid")
	ErrInvalidStateLayout = errors.New("control state payload has invalid layout")
	ErrLedgerUnavailable  = errors.New("asset ledger is not configured")
)
