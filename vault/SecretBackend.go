package vault

// SecretBackend is the storage abstraction for connection passwords. The two
// implementations are the platform keychain adapter and the encrypted file
// fallback; exactly one of them is selected per process and used for every
// operation of that run.
type SecretBackend interface {
	// Put stores or overwrites the secret under key. Repeated Put with the
	// same key replaces the prior value.
	Put(key string, secret string) error

	// Get returns the secret stored under key, or ErrNotFound.
	Get(key string) (string, error)

	// Delete removes the secret stored under key, or returns ErrNotFound.
	// Cleanup paths treat ErrNotFound as a non-fatal outcome.
	Delete(key string) error

	// Name identifies the backend in logs and in the TUI status line.
	Name() string
}
