package vault

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by a SecretBackend when no secret is stored
	// under the requested key.
	ErrNotFound = errors.New("secret not found")

	// ErrUnavailable means the platform secret store cannot be used on this
	// host in this run. It triggers fallback selection and is not surfaced
	// to the end user as an error.
	ErrUnavailable = errors.New("platform secret store unavailable")

	// ErrAccessDenied means the user or the OS explicitly refused access to
	// the secret store. It is terminal for the operation and never retried.
	ErrAccessDenied = errors.New("access to secret store denied")

	// ErrProfileNotFound means no connection with the requested name exists.
	ErrProfileNotFound = errors.New("connection not found")

	// ErrOrphanedProfile means connection metadata exists but the secret
	// backend holds no password for it. Reported distinctly from
	// ErrProfileNotFound so the user understands the partial state.
	ErrOrphanedProfile = errors.New("connection has no stored password")
)

type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// CorruptStoreError is returned when the fallback secrets file fails
// authentication or parsing. The file is never auto-deleted or silently
// reinitialized; the caller decides what to do with it.
type CorruptStoreError struct {
	Path  string
	Cause error
}

func (e *CorruptStoreError) Error() string {
	return fmt.Sprintf("secrets file %s is corrupted or was tampered with: %v", e.Path, e.Cause)
}

func (e *CorruptStoreError) Unwrap() error {
	return e.Cause
}
