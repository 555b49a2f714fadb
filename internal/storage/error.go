package storage

import "errors"

// Error description
const (
	ErrPrepareStatement = "failed to prepare SQL statement"
	ErrExecuteStatement = "failed to execute statement"
	ErrExecuteQuery     = "failed to execute query"
	ErrScanData         = "failed to scan data"
	ErrRetrieveRows     = "failed to retrieve rows affected"
)

var (
	ErrAttemptExists     = errors.New("attempt already recorded")
	ErrAttemptNotFound   = errors.New("attempt not found")
	ErrExecutionNotFound = errors.New("execution not found")
	ErrInvalidStatus     = errors.New("invalid attempt status")
)
