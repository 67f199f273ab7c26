package vault

import (
	"fmt"
	"os"
	"path/filepath"
)

// ConfigDir returns the per-user directory holding the connections file and
// the fallback secret material, creating it if needed.
func ConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config directory: %w", err)
	}

	dir := filepath.Join(base, "pg-vault")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}

	return dir, nil
}
