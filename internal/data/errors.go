package data

import "errors"

// Shared sentinel errors for data-layer repositories.
var (
	ErrJobIDRequired    = errors.New("job id is required")
	ErrUsernameRequired = errors.New("username is required")
	ErrLimitRequired    = errors.New("limit must be positive")
)
