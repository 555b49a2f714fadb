package rpc

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	solrpc "github.com/gagliardetto/solana-go/rpc"

	"github.com/iqbalbaharum/swap-executor/internal/types"
)

// Ledger is the subset of the Solana JSON-RPC surface the executor needs.
type Ledger interface {
	GetSlot(ctx context.Context) (uint64, error)
	GetBlockHeight(ctx context.Context) (uint64, error)
	GetEpochInfo(ctx context.Context) (*EpochInfo, error)
	GetLatestBlockhash(ctx context.Context) (*Blockhash, error)
	GetAccountInfo(ctx context.Context, account solana.PublicKey) (*AccountInfo, error)
	SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error)
	GetSignatureStatus(ctx context.Context, signature solana.Signature) (*SignatureStatus, error)
	GetTransaction(ctx context.Context, signature solana.Signature) (*ConfirmedTransaction, error)
	SimulateTransaction(ctx context.Context, tx *solana.Transaction) (*SimulationResult, error)
}

type EpochInfo struct {
	Epoch        uint64
	SlotIndex    uint64
	SlotsInEpoch uint64
	AbsoluteSlot uint64
	BlockHeight  uint64
}

type Blockhash struct {
	Hash                 solana.Hash
	LastValidBlockHeight uint64
}

type AccountInfo struct {
	Owner      solana.PublicKey
	Lamports   uint64
	Executable bool
}

// SignatureStatus is the cluster's view of a signature. A nil status from
// GetSignatureStatus means the cluster has not seen it at confirmed commitment.
type SignatureStatus struct {
	Slot uint64
	Err  interface{}
}

func (s *SignatureStatus) Failed() bool {
	return s.Err != nil
}

type ConfirmedTransaction struct {
	Slot                 uint64
	Err                  interface{}
	PostTokenBalances    []types.TxTokenBalance
	LogMessages          []string
	ComputeUnitsConsumed *uint64
}

type SimulationResult struct {
	Err           interface{}
	Logs          []string
	UnitsConsumed *uint64
}

type Client struct {
	client     *solrpc.Client
	commitment solrpc.CommitmentType
}

func NewClient(url string) *Client {
	return &Client{
		client:     solrpc.New(url),
		commitment: solrpc.CommitmentConfirmed,
	}
}

func (c *Client) GetSlot(ctx context.Context) (uint64, error) {
	return c.client.GetSlot(ctx, c.commitment)
}

func (c *Client) GetBlockHeight(ctx context.Context) (uint64, error) {
	return c.client.GetBlockHeight(ctx, c.commitment)
}

func (c *Client) GetEpochInfo(ctx context.Context) (*EpochInfo, error) {
	out, err := c.client.GetEpochInfo(ctx, c.commitment)
	if err != nil {
		return nil, err
	}

	return &EpochInfo{
		Epoch:        out.Epoch,
		SlotIndex:    out.SlotIndex,
		SlotsInEpoch: out.SlotsInEpoch,
		AbsoluteSlot: out.AbsoluteSlot,
		BlockHeight:  out.BlockHeight,
	}, nil
}

func (c *Client) GetLatestBlockhash(ctx context.Context) (*Blockhash, error) {
	out, err := c.client.GetLatestBlockhash(ctx, c.commitment)
	if err != nil {
		return nil, err
	}
	if out == nil || out.Value == nil {
		return nil, errors.New("empty blockhash response")
	}

	return &Blockhash{
		Hash:                 out.Value.Blockhash,
		LastValidBlockHeight: out.Value.LastValidBlockHeight,
	}, nil
}

func (c *Client) GetAccountInfo(ctx context.Context, account solana.PublicKey) (*AccountInfo, error) {
	out, err := c.client.GetAccountInfo(ctx, account)
	if err != nil {
		return nil, err
	}
	if out == nil || out.Value == nil {
		return nil, ErrNotFound
	}

	return &AccountInfo{
		Owner:      out.Value.Owner,
		Lamports:   out.Value.Lamports,
		Executable: out.Value.Executable,
	}, nil
}

func (c *Client) SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	return c.client.SendTransactionWithOpts(ctx, tx, solrpc.TransactionOpts{
		SkipPreflight:       false,
		PreflightCommitment: c.commitment,
	})
}

func (c *Client) GetSignatureStatus(ctx context.Context, signature solana.Signature) (*SignatureStatus, error) {
	out, err := c.client.GetSignatureStatuses(ctx, true, signature)
	if err != nil {
		return nil, err
	}
	if out == nil || len(out.Value) == 0 || out.Value[0] == nil {
		return nil, nil
	}

	status := out.Value[0]
	if status.Err == nil && status.ConfirmationStatus == solrpc.ConfirmationStatusProcessed {
		return nil, nil
	}

	return &SignatureStatus{
		Slot: status.Slot,
		Err:  status.Err,
	}, nil
}

func (c *Client) GetTransaction(ctx context.Context, signature solana.Signature) (*ConfirmedTransaction, error) {
	maxVersion := uint64(0)
	out, err := c.client.GetTransaction(ctx, signature, &solrpc.GetTransactionOpts{
		Encoding:                       solana.EncodingBase64,
		Commitment:                     c.commitment,
		MaxSupportedTransactionVersion: &maxVersion,
	})
	if err != nil {
		return nil, err
	}
	if out == nil || out.Meta == nil {
		return nil, fmt.Errorf("transaction %s has no metadata", signature)
	}

	confirmed := &ConfirmedTransaction{
		Slot:                 out.Slot,
		Err:                  out.Meta.Err,
		LogMessages:          out.Meta.LogMessages,
		ComputeUnitsConsumed: out.Meta.ComputeUnitsConsumed,
	}

	for _, balance := range out.Meta.PostTokenBalances {
		tb := types.TxTokenBalance{
			AccountIndex: balance.AccountIndex,
			Mint:         balance.Mint.String(),
		}
		if balance.Owner != nil {
			tb.Owner = balance.Owner.String()
		}
		if balance.UiTokenAmount != nil {
			tb.Amount = balance.UiTokenAmount.Amount
			tb.Decimal = uint32(balance.UiTokenAmount.Decimals)
		}
		confirmed.PostTokenBalances = append(confirmed.PostTokenBalances, tb)
	}

	return confirmed, nil
}

func (c *Client) SimulateTransaction(ctx context.Context, tx *solana.Transaction) (*SimulationResult, error) {
	out, err := c.client.SimulateTransactionWithOpts(ctx, tx, &solrpc.SimulateTransactionOpts{
		SigVerify:              false,
		Commitment:             c.commitment,
		ReplaceRecentBlockhash: true,
	})
	if err != nil {
		return nil, err
	}
	if out == nil || out.Value == nil {
		return nil, errors.New("empty simulation response")
	}

	return &SimulationResult{
		Err:           out.Value.Err,
		Logs:          out.Value.Logs,
		UnitsConsumed: out.Value.UnitsConsumed,
	}, nil
}

var ErrNotFound = solrpc.ErrNotFound

// IsNotFound reports whether err is the RPC's account-not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
