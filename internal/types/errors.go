package types

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	ErrRouteUnavailable     ErrorKind = "route_unavailable"
	ErrSwapBuildFailed      ErrorKind = "swap_build_failed"
	ErrMalformedTransaction ErrorKind = "malformed_transaction"
	ErrSigningFailed        ErrorKind = "signing_failed"
	ErrBroadcastFailed      ErrorKind = "broadcast_failed"
	ErrOnChainFailure       ErrorKind = "on_chain_failure"
	ErrExpired              ErrorKind = "expired"
	ErrTimedOut             ErrorKind = "timed_out"
	ErrInvalidWalletFormat  ErrorKind = "invalid_wallet_format"
	ErrRpcUnavailable       ErrorKind = "rpc_unavailable"
	ErrInvalidInput         ErrorKind = "invalid_input"
	ErrDuplicateAttempt     ErrorKind = "duplicate_attempt"
	ErrSimulationFailed     ErrorKind = "simulation_failed"
	ErrAttemptLedger        ErrorKind = "attempt_ledger_unavailable"
)

// ExecError is the terminal failure of one pipeline stage.
type ExecError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *ExecError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *ExecError) Unwrap() error {
	return e.Err
}

func NewExecError(kind ErrorKind, message string, err error) *ExecError {
	return &ExecError{
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// KindOf returns the kind of the first ExecError in err's chain, or "" if none.
func KindOf(err error) ErrorKind {
	var execErr *ExecError
	if errors.As(err, &execErr) {
		return execErr.Kind
	}
	return ""
}
