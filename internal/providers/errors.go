package providers

import (
	"errors"
	"fmt"
)

// ErrNoMatch is returned when a search finds nothing usable. Callers treat it
// as a normal outcome, not a failure.
var ErrNoMatch = errors.New("no match found")

// CredentialError indicates a provider cannot be used because its API key is
// missing or rejected. Bulk operations check for it up front and abort instead
// of failing row by row.
type CredentialError struct {
	Provider string
}

func (e *CredentialError) Error() string {
	return fmt.Sprintf("%s: missing or invalid API key", e.Provider)
}

// IsCredentialError reports whether err stems from missing provider credentials.
func IsCredentialError(err error) bool {
	var credErr *CredentialError
	return errors.As(err, &credErr)
}
