package remote

import (
	"errors"
	"fmt"
)

// ErrNotConfigured indicates the remote store URL or API key is missing.
var ErrNotConfigured = errors.New("remote store not configured")

// ErrNotAuthenticated indicates no active session token was available.
var ErrNotAuthenticated = errors.New("not authenticated")

// ErrNotFound indicates the requested record does not exist remotely.
var ErrNotFound = errors.New("record not found")

// StoreError represents a non-success response from the remote store.
type StoreError struct {
	StatusCode int
	Detail     string
}

func (e *StoreError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("remote store error: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("remote store error: HTTP %d: %s", e.StatusCode, e.Detail)
}
