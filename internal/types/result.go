package types

// ExecutorResult is the single record each command prints to stdout.
// Absent values serialize as null.
type ExecutorResult struct {
	Success          bool     `json:"success"`
	Signature        *string  `json:"signature"`
	ReceivedAmount   *string  `json:"received_amount"`
	Slot             *uint64  `json:"slot"`
	Error            *string  `json:"error"`
	Logs             []string `json:"logs"`
	ExpectedOut      *string  `json:"expected_out"`
	ComputeUnitsUsed *uint64  `json:"compute_units_used"`
	IdempotencyKey   *string  `json:"idempotency_key"`
}

func StringPtr(s string) *string {
	return &s
}

func Uint64Ptr(val uint64) *uint64 {
	return &val
}

// OptionalString maps the empty string to nil.
func OptionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
