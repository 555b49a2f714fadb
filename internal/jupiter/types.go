package jupiter

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

type QuoteResponse struct {
	InputMint            string          `json:"inputMint"`
	InAmount             string          `json:"inAmount"`
	OutputMint           string          `json:"outputMint"`
	OutAmount            string          `json:"outAmount"`
	OtherAmountThreshold string          `json:"otherAmountThreshold"`
	SwapMode             string          `json:"swapMode"`
	SlippageBps          int             `json:"slippageBps"`
	PlatformFee          json.RawMessage `json:"platformFee,omitempty"`
	PriceImpactPct       string          `json:"priceImpactPct"`
	RoutePlan            []RoutePlan     `json:"routePlan"`
	ContextSlot          uint64          `json:"contextSlot"`
	TimeTaken            float64         `json:"timeTaken"`
}

type RoutePlan struct {
	SwapInfo SwapInfo `json:"swapInfo"`
	Percent  int      `json:"percent"`
}

type SwapInfo struct {
	AmmKey     string `json:"ammKey"`
	Label      string `json:"label"`
	InputMint  string `json:"inputMint"`
	OutputMint string `json:"outputMint"`
	InAmount   string `json:"inAmount"`
	OutAmount  string `json:"outAmount"`
	FeeAmount  string `json:"feeAmount"`
	FeeMint    string `json:"feeMint"`
}

// Route is a quote as returned by the aggregator. The raw payload is kept so
// it can be posted back to /swap without losing fields this package does not model.
type Route struct {
	Quote QuoteResponse
	raw   json.RawMessage
}

// ParseRoute decodes a quote payload, e.g. a pre-fetched route supplied by the caller.
func ParseRoute(data []byte) (*Route, error) {
	var quote QuoteResponse
	if err := json.Unmarshal(data, &quote); err != nil {
		return nil, err
	}

	raw := make(json.RawMessage, len(data))
	copy(raw, data)

	return &Route{Quote: quote, raw: raw}, nil
}

func (r *Route) Raw() json.RawMessage {
	return r.raw
}

type SwapRequest struct {
	QuoteResponse                 json.RawMessage `json:"quoteResponse"`
	UserPublicKey                 string          `json:"userPublicKey"`
	WrapAndUnwrapSol              bool            `json:"wrapAndUnwrapSol"`
	UseSharedAccounts             bool            `json:"useSharedAccounts"`
	FeeAccount                    *string         `json:"feeAccount,omitempty"`
	TrackingAccount               *string         `json:"trackingAccount,omitempty"`
	ComputeUnitPriceMicroLamports *uint64         `json:"computeUnitPriceMicroLamports,omitempty"`
	PrioritizationFeeLamports     *uint64         `json:"prioritizationFeeLamports,omitempty"`
	AsLegacyTransaction           bool            `json:"asLegacyTransaction"`
	UseTokenLedger                bool            `json:"useTokenLedger"`
	DestinationTokenAccount       *string         `json:"destinationTokenAccount,omitempty"`
}

type SwapResponse struct {
	SwapTransaction           string          `json:"swapTransaction"`
	LastValidBlockHeight      uint64          `json:"lastValidBlockHeight"`
	PrioritizationFeeLamports *uint64         `json:"prioritizationFeeLamports,omitempty"`
	ComputeUnitLimit          *uint32         `json:"computeUnitLimit,omitempty"`
	PrioritizationType        json.RawMessage `json:"prioritizationType,omitempty"`
	DynamicSlippageReport     json.RawMessage `json:"dynamicSlippageReport,omitempty"`
	SimulationError           json.RawMessage `json:"simulationError,omitempty"`
}

// Fingerprint identifies the route independently of when it was quoted.
func (r *Route) Fingerprint() string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%s|%s|%d", r.Quote.InputMint, r.Quote.OutputMint, r.Quote.InAmount, r.Quote.SwapMode, r.Quote.SlippageBps)
	for _, plan := range r.Quote.RoutePlan {
		fmt.Fprintf(h, "|%s:%d", plan.SwapInfo.AmmKey, plan.Percent)
	}
	return hex.EncodeToString(h.Sum(nil))[:32]
}
