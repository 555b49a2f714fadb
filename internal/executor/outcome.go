package executor

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/iqbalbaharum/swap-executor/internal/rpc"
	"github.com/iqbalbaharum/swap-executor/internal/types"
)

type Status string

const (
	STATUS_CONFIRMED Status = "confirmed"
	STATUS_FAILED    Status = "failed"
	STATUS_EXPIRED   Status = "expired"
	STATUS_TIMED_OUT Status = "timed_out"
)

// Outcome is the terminal state of a broadcast transaction.
type Outcome struct {
	Status    Status
	Signature solana.Signature
	Slot      uint64
	Attempts  int
	// Reason carries the on-chain error for STATUS_FAILED and the heights for STATUS_EXPIRED.
	Reason string
	// Transaction is nil when the metadata could not be fetched after confirmation.
	Transaction *rpc.ConfirmedTransaction
}

func (o *Outcome) Confirmed() bool {
	return o.Status == STATUS_CONFIRMED
}

// Err returns nil for a confirmed outcome, else the matching ExecError.
func (o *Outcome) Err() error {
	switch o.Status {
	case STATUS_CONFIRMED:
		return nil
	case STATUS_FAILED:
		return types.NewExecError(types.ErrOnChainFailure, fmt.Sprintf("transaction %s failed: %s", o.Signature, o.Reason), nil)
	case STATUS_EXPIRED:
		return types.NewExecError(types.ErrExpired, fmt.Sprintf("transaction %s expired: %s", o.Signature, o.Reason), nil)
	default:
		return types.NewExecError(types.ErrTimedOut, fmt.Sprintf("transaction %s not confirmed after %d attempts", o.Signature, o.Attempts), nil)
	}
}
