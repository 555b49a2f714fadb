package types

// TxTokenBalance is a post (or pre) execution SPL token balance record of a
// confirmed transaction. Amount is the raw base-unit amount as a decimal string.
type TxTokenBalance struct {
	AccountIndex uint16 `json:"accountIndex"`
	Mint         string `json:"mint"`
	Owner        string `json:"owner"`
	Amount       string `json:"amount"`
	Decimal      uint32 `json:"decimal"`
}
