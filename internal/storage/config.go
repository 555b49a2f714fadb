package storage

import "time"

const (
	KEY_ATTEMPT = "attempt"
	ATTEMPT_TTL = 24 * time.Hour
)

const (
	TABLE_NAME_EXECUTION = "executions"
)

const (
	DEFAULT_PAGE_LIMIT = 50
	MAX_PAGE_LIMIT     = 500
)
