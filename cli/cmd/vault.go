package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/pgvault/pgvault/services/aws"
	"github.com/pgvault/pgvault/vault"
	"github.com/pgvault/pgvault/vault/encfile"
	"github.com/pgvault/pgvault/vault/keychain"
)

// Exit status per failure kind, so scripts can tell routine "no such
// connection" from real trouble.
const (
	exitFailure         = 1
	exitProfileNotFound = 2
	exitOrphanedProfile = 3
	exitAccessDenied    = 4
	exitCorruptStore    = 5
	exitValidation      = 6
)

// openVault probes the platform keychain once and pins the secret backend
// for the whole invocation.
func openVault() *vault.Vault {
	dir, err := vault.ConfigDir()
	if err != nil {
		fail(err)
	}

	kc := keychain.New()
	backend := vault.SelectBackend(kc, kc.Probe, encfile.New(dir))

	return vault.New(vault.NewMetaStore(dir), backend)
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(exitCode(err))
}

func exitCode(err error) int {
	var validationErr *vault.ValidationError
	var corruptErr *vault.CorruptStoreError

	switch {
	case errors.Is(err, vault.ErrProfileNotFound):
		return exitProfileNotFound
	case errors.Is(err, vault.ErrOrphanedProfile):
		return exitOrphanedProfile
	case errors.Is(err, vault.ErrAccessDenied):
		return exitAccessDenied
	case errors.As(err, &corruptErr):
		return exitCorruptStore
	case errors.As(err, &validationErr):
		return exitValidation
	}

	return exitFailure
}

// resolveSecret turns a fetched connection into usable credentials: the
// stored password for regular connections, a fresh RDS IAM token otherwise.
func resolveSecret(conn vault.Connection, password string, profile string) (string, error) {
	if !conn.IAMAuth {
		return password, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	token, err := aws.GenerateToken(ctx, conn, profile)
	if err != nil {
		if aws.NeedsSSOLogin(err) {
			hint := "aws sso login"
			if profile != "" {
				hint += " --profile " + profile
			}
			return "", fmt.Errorf("%w\nYour AWS SSO session looks expired; run `%s` and retry", err, hint)
		}
		return "", err
	}

	return token, nil
}
