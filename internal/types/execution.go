package types

import "time"

// Execution is one persisted swap invocation.
type Execution struct {
	ID             string    `json:"id"`
	IdempotencyKey string    `json:"idempotencyKey"`
	InputMint      string    `json:"inputMint"`
	OutputMint     string    `json:"outputMint"`
	Amount         string    `json:"amount"`
	Mode           string    `json:"mode"`
	Success        bool      `json:"success"`
	Signature      string    `json:"signature"`
	ReceivedAmount string    `json:"receivedAmount"`
	Slot           uint64    `json:"slot"`
	ErrorKind      string    `json:"errorKind"`
	Error          string    `json:"error"`
	CreatedAt      time.Time `json:"createdAt"`
}
