package bot

import (
	"math/big"

	"github.com/iqbalbaharum/swap-executor/internal/types"
)

const ZERO_AMOUNT = "0"

// ReceivedAmount returns the raw post-execution balance of mint, preferring
// the token account owned by owner. Missing or unparsable balances yield "0".
func ReceivedAmount(postTokenBalances []types.TxTokenBalance, mint string, owner string) string {
	var tokenAccount *types.TxTokenBalance

	for i := range postTokenBalances {
		account := &postTokenBalances[i]
		if account.Mint != mint {
			continue
		}

		if owner != "" && account.Owner == owner {
			tokenAccount = account
			break
		}

		if tokenAccount == nil {
			tokenAccount = account
		}
	}

	if tokenAccount == nil {
		return ZERO_AMOUNT
	}

	amount, success := new(big.Int).SetString(tokenAccount.Amount, 10)
	if !success || amount.Sign() < 0 {
		return ZERO_AMOUNT
	}

	return amount.String()
}
