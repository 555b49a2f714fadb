package instructions

import (
	"github.com/gagliardetto/solana-go"
	computebudget "github.com/gagliardetto/solana-go/programs/compute-budget"
)

const (
	BASE_COMPUTE_UNITS      uint32 = 200_000
	COMPUTE_UNITS_PER_IX    uint32 = 50_000
	MAX_COMPUTE_UNITS       uint32 = 1_400_000
	DEFAULT_MICRO_LAMPORTS  uint64 = 1_000
	SIMULATION_COMPUTE_UNIT uint32 = 400_000
)

// Instruction discriminators of the compute budget program.
const (
	ixSetComputeUnitLimit uint8 = 2
	ixSetComputeUnitPrice uint8 = 3
)

type ComputeUnit struct {
	MicroLamports uint64
	Units         uint32
}

// ComputeUnitLimit derives a limit from the number of instructions in the
// aggregator transaction, capped at the runtime maximum.
func ComputeUnitLimit(instructionCount int) uint32 {
	if instructionCount < 0 {
		instructionCount = 0
	}

	limit := uint64(BASE_COMPUTE_UNITS) + uint64(COMPUTE_UNITS_PER_IX)*uint64(instructionCount)
	if limit > uint64(MAX_COMPUTE_UNITS) {
		return MAX_COMPUTE_UNITS
	}
	return uint32(limit)
}

// MakeComputeInstructions returns [limit, price] in that order.
func MakeComputeInstructions(compute ComputeUnit) []solana.Instruction {
	return []solana.Instruction{
		computebudget.NewSetComputeUnitLimitInstruction(compute.Units).Build(),
		computebudget.NewSetComputeUnitPriceInstruction(compute.MicroLamports).Build(),
	}
}

// IsComputeDirective reports whether data, addressed to the compute budget
// program, sets a unit limit or a unit price.
func IsComputeDirective(programID solana.PublicKey, data []byte) bool {
	if !programID.Equals(solana.ComputeBudget) || len(data) == 0 {
		return false
	}
	return data[0] == ixSetComputeUnitLimit || data[0] == ixSetComputeUnitPrice
}
