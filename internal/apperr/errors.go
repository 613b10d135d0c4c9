package apperr

import "errors"

var (
	// ErrNotFound covers every failed detail fetch: 404, other non-2xx
	// statuses, network failures, and malformed payloads all collapse
	// into this single signal. Callers must not distinguish them.
	ErrNotFound = errors.New("not found")

	// ErrAuthRequired is returned by write operations when no session
	// credential is configured.
	ErrAuthRequired = errors.New("authentication required")
)
