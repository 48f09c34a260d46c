package ledger

import "errors"

var (
	ErrUnauthorized         = errors.New("unauthorized")
	ErrMintEnded            = errors.New("mint ended")
	ErrMintExceeded         = errors.New("mint exceeded")
	ErrConfigurationMissing = errors.New("configuration missing")
	ErrNotFound             = errors.New("not found")
	ErrMalformed            = errors.New("malformed")

	// ErrRejected marks a downstream failure that retrying cannot fix.
	ErrRejected = errors.New("rejected")
)
