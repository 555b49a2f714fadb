package types

// ExecutionFilter narrows an execution history search. Zero values are ignored.
type ExecutionFilter struct {
	IdempotencyKey string `json:"idempotencyKey"`
	Signature      string `json:"signature"`
	Success        *bool  `json:"success"`
	Limit          int    `json:"limit"`
	Offset         int    `json:"offset"`
}
