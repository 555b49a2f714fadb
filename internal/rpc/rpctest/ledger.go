// Package rpctest provides a scriptable in-memory rpc.Ledger.
package rpctest

import (
	"context"
	"errors"
	"sync"

	"github.com/gagliardetto/solana-go"

	"github.com/iqbalbaharum/swap-executor/internal/rpc"
)

var (
	ErrUnavailable = errors.New("rpc unavailable")

	NativeLoader = solana.MustPublicKeyFromBase58("NativeLoader1111111111111111111111111111111")
)

// Ledger answers each call from its scripted field. Heights and Statuses are
// consumed one entry per call; the last entry repeats once the script runs out.
type Ledger struct {
	mu sync.Mutex

	Slot      uint64
	SlotErr   error
	Epoch     *rpc.EpochInfo
	EpochErr  error
	Blockhash *rpc.Blockhash
	HashErr   error
	Account   *rpc.AccountInfo
	AcctErr   error

	Heights    []uint64
	HeightErrs []error

	Statuses    []*rpc.SignatureStatus
	StatusErrs  []error
	Transaction *rpc.ConfirmedTransaction
	TxErr       error

	SendSignature solana.Signature
	SendErr       error
	Simulation    *rpc.SimulationResult
	SimErr        error

	Sent         []*solana.Transaction
	Simulated    []*solana.Transaction
	HeightCalls  int
	StatusCalls  int
	CallSequence []string
}

func (l *Ledger) record(name string) {
	l.CallSequence = append(l.CallSequence, name)
}

func (l *Ledger) GetSlot(ctx context.Context) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record("slot")
	return l.Slot, l.SlotErr
}

func (l *Ledger) GetBlockHeight(ctx context.Context) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record("block_height")

	i := l.HeightCalls
	l.HeightCalls++

	if i < len(l.HeightErrs) && l.HeightErrs[i] != nil {
		return 0, l.HeightErrs[i]
	}
	if len(l.Heights) == 0 {
		return 0, nil
	}
	if i >= len(l.Heights) {
		i = len(l.Heights) - 1
	}
	return l.Heights[i], nil
}

func (l *Ledger) GetEpochInfo(ctx context.Context) (*rpc.EpochInfo, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record("epoch_info")
	if l.EpochErr != nil {
		return nil, l.EpochErr
	}
	if l.Epoch == nil {
		return &rpc.EpochInfo{}, nil
	}
	return l.Epoch, nil
}

func (l *Ledger) GetLatestBlockhash(ctx context.Context) (*rpc.Blockhash, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record("latest_blockhash")
	if l.HashErr != nil {
		return nil, l.HashErr
	}
	if l.Blockhash == nil {
		return &rpc.Blockhash{}, nil
	}
	return l.Blockhash, nil
}

func (l *Ledger) GetAccountInfo(ctx context.Context, account solana.PublicKey) (*rpc.AccountInfo, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record("account")
	if l.AcctErr != nil {
		return nil, l.AcctErr
	}
	if l.Account == nil {
		return &rpc.AccountInfo{Owner: NativeLoader, Executable: true}, nil
	}
	return l.Account, nil
}

func (l *Ledger) SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record("send")
	if l.SendErr != nil {
		return solana.Signature{}, l.SendErr
	}
	l.Sent = append(l.Sent, tx)
	if l.SendSignature == (solana.Signature{}) && len(tx.Signatures) > 0 {
		return tx.Signatures[0], nil
	}
	return l.SendSignature, nil
}

func (l *Ledger) GetSignatureStatus(ctx context.Context, signature solana.Signature) (*rpc.SignatureStatus, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record("signature_status")

	i := l.StatusCalls
	l.StatusCalls++

	if i < len(l.StatusErrs) && l.StatusErrs[i] != nil {
		return nil, l.StatusErrs[i]
	}
	if len(l.Statuses) == 0 {
		return nil, nil
	}
	if i >= len(l.Statuses) {
		i = len(l.Statuses) - 1
	}
	return l.Statuses[i], nil
}

func (l *Ledger) GetTransaction(ctx context.Context, signature solana.Signature) (*rpc.ConfirmedTransaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record("transaction")
	if l.TxErr != nil {
		return nil, l.TxErr
	}
	return l.Transaction, nil
}

func (l *Ledger) SimulateTransaction(ctx context.Context, tx *solana.Transaction) (*rpc.SimulationResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record("simulate")
	if l.SimErr != nil {
		return nil, l.SimErr
	}
	l.Simulated = append(l.Simulated, tx)
	if l.Simulation == nil {
		return &rpc.SimulationResult{}, nil
	}
	return l.Simulation, nil
}
