package types

// Attempt statuses stored in the idempotency ledger.
const (
	ATTEMPT_RESERVED  = "RESERVED"
	ATTEMPT_SUBMITTED = "SUBMITTED"
	ATTEMPT_CONFIRMED = "CONFIRMED"
	ATTEMPT_FAILED    = "FAILED"
)

// Attempt is the ledger entry for one (idempotency key, route) pair.
type Attempt struct {
	Key         string `json:"key"`
	Fingerprint string `json:"fingerprint"`
	Status      string `json:"status"`
	Signature   string `json:"signature,omitempty"`
	LastUpdated int64  `json:"lastUpdated"`
}
