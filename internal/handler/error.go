package handler

const (
	ErrTimeout      = "request timed out"
	ErrInvalidQuery = "invalid query parameter"
)
