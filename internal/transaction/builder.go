package transaction

import (
	"encoding/base64"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/iqbalbaharum/swap-executor/internal/instructions"
	"github.com/iqbalbaharum/swap-executor/internal/types"
)

// ComputeOption carries the caller's compute budget request. A nil field
// means the caller did not ask for it.
type ComputeOption struct {
	Limit         *uint32
	MicroLamports *uint64
}

func (o ComputeOption) Requested() bool {
	return o.Limit != nil || o.MicroLamports != nil
}

func Decode(payload string) (*solana.Transaction, error) {
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, types.NewExecError(types.ErrMalformedTransaction, "failed to decode base64 transaction", err)
	}

	tx, err := solana.TransactionFromDecoder(bin.NewBinDecoder(raw))
	if err != nil {
		return nil, types.NewExecError(types.ErrMalformedTransaction, "failed to decode transaction", err)
	}

	if len(tx.Message.AccountKeys) == 0 || tx.Message.Header.NumRequiredSignatures == 0 {
		return nil, types.NewExecError(types.ErrMalformedTransaction, "transaction has no fee payer", nil)
	}

	return tx, nil
}

func Encode(tx *solana.Transaction) (string, error) {
	msg, err := tx.MarshalBinary()
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(msg), nil
}

func FeePayer(tx *solana.Transaction) solana.PublicKey {
	if len(tx.Message.AccountKeys) == 0 {
		return solana.PublicKey{}
	}
	return tx.Message.AccountKeys[0]
}

// Sign binds blockhash to the message, drops any stale signatures and signs
// with payer. The payer must be the only required signer.
func Sign(tx *solana.Transaction, payer solana.PrivateKey, blockhash solana.Hash) (*solana.Transaction, error) {
	tx.Message.RecentBlockhash = blockhash
	tx.Signatures = nil

	_, err := tx.Sign(
		func(key solana.PublicKey) *solana.PrivateKey {
			if payer.PublicKey().Equals(key) {
				return &payer
			}
			return nil
		},
	)

	if err != nil {
		return nil, types.NewExecError(types.ErrSigningFailed, "failed to sign transaction", err)
	}

	return tx, nil
}

// InjectComputeDirectives prepends a unit limit and a unit price to the
// message and re-signs it. Compute budget limit and price instructions
// already present are replaced, not kept; every other instruction keeps
// its order. When nothing is requested the transaction is returned untouched.
func InjectComputeDirectives(tx *solana.Transaction, opt ComputeOption, defaultMicroLamports uint64, payer solana.PrivateKey) (*solana.Transaction, instructions.ComputeUnit, error) {
	if !opt.Requested() {
		return tx, instructions.ComputeUnit{}, nil
	}

	compute := instructions.ComputeUnit{
		Units:         instructions.ComputeUnitLimit(len(tx.Message.Instructions)),
		MicroLamports: defaultMicroLamports,
	}
	if opt.Limit != nil {
		compute.Units = *opt.Limit
	}
	if opt.MicroLamports != nil {
		compute.MicroLamports = *opt.MicroLamports
	}

	if err := PrependCompute(&tx.Message, compute); err != nil {
		return nil, compute, types.NewExecError(types.ErrMalformedTransaction, "failed to inject compute budget", err)
	}

	signed, err := Sign(tx, payer, tx.Message.RecentBlockhash)
	if err != nil {
		return nil, compute, err
	}

	return signed, compute, nil
}

// PrependCompute rewrites msg in place so its instructions start with
// [limit, price] followed by the original instructions, minus any existing
// limit or price directive.
func PrependCompute(msg *solana.Message, compute instructions.ComputeUnit) error {
	programIndex, err := ensureProgramKey(msg, solana.ComputeBudget)
	if err != nil {
		return err
	}

	ixs := make([]solana.CompiledInstruction, 0, len(msg.Instructions)+2)
	for _, ix := range instructions.MakeComputeInstructions(compute) {
		data, err := ix.Data()
		if err != nil {
			return err
		}
		ixs = append(ixs, solana.CompiledInstruction{
			ProgramIDIndex: programIndex,
			Accounts:       []uint16{},
			Data:           data,
		})
	}

	for _, ix := range msg.Instructions {
		if int(ix.ProgramIDIndex) < len(msg.AccountKeys) &&
			instructions.IsComputeDirective(msg.AccountKeys[ix.ProgramIDIndex], ix.Data) {
			continue
		}
		ixs = append(ixs, ix)
	}

	msg.Instructions = ixs
	return nil
}

// ensureProgramKey returns the static index of program, appending it as a
// readonly unsigned account when absent. Indexes pointing past the static
// keys (address table lookups in v0 messages) shift by one.
func ensureProgramKey(msg *solana.Message, program solana.PublicKey) (uint16, error) {
	for i, key := range msg.AccountKeys {
		if key.Equals(program) {
			return uint16(i), nil
		}
	}

	staticLen := len(msg.AccountKeys)
	if staticLen >= 256 {
		return 0, fmt.Errorf("message already has %d static accounts", staticLen)
	}

	for i := range msg.Instructions {
		ix := &msg.Instructions[i]
		if int(ix.ProgramIDIndex) >= staticLen {
			ix.ProgramIDIndex++
		}
		for j, idx := range ix.Accounts {
			if int(idx) >= staticLen {
				ix.Accounts[j] = idx + 1
			}
		}
	}

	msg.AccountKeys = append(msg.AccountKeys, program)
	msg.Header.NumReadonlyUnsignedAccounts++

	return uint16(staticLen), nil
}

// PrepareSimulation injects the simulation compute budget and leaves one
// empty signature slot per required signer.
func PrepareSimulation(tx *solana.Transaction, compute instructions.ComputeUnit) (*solana.Transaction, error) {
	if err := PrependCompute(&tx.Message, compute); err != nil {
		return nil, types.NewExecError(types.ErrMalformedTransaction, "failed to inject compute budget", err)
	}

	tx.Signatures = make([]solana.Signature, tx.Message.Header.NumRequiredSignatures)
	return tx, nil
}
