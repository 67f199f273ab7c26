// Package keychain stores passwords in the OS credential facility
// (Keychain on macOS, Credential Manager on Windows, Secret Service on
// Linux) via zalando/go-keyring.
package keychain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"

	"github.com/pgvault/pgvault/vault"
)

// Service is the namespace under which all pg-vault entries are registered
// with the OS facility. The account identifier is the connection name.
const Service = "pg-vault"

const probeAccount = "pg-vault-probe"

type Keychain struct{}

func New() *Keychain {
	return &Keychain{}
}

func (k *Keychain) Name() string {
	return "system keychain"
}

func (k *Keychain) Put(key string, secret string) error {
	return translate(keyring.Set(Service, key, secret))
}

func (k *Keychain) Get(key string) (string, error) {
	secret, err := keyring.Get(Service, key)
	if err != nil {
		return "", translate(err)
	}
	return secret, nil
}

func (k *Keychain) Delete(key string) error {
	return translate(keyring.Delete(Service, key))
}

// Probe checks whether the OS facility is usable by looking up a sentinel
// account. vault.ErrNotFound still means the facility itself is present.
func (k *Keychain) Probe() error {
	_, err := keyring.Get(Service, probeAccount)
	return translate(err)
}

func translate(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, keyring.ErrNotFound) {
		return vault.ErrNotFound
	}

	if errors.Is(err, keyring.ErrUnsupportedPlatform) {
		return vault.ErrUnavailable
	}

	msg := strings.ToLower(err.Error())

	// The user dismissed an OS-level unlock or access prompt.
	if strings.Contains(msg, "denied") || strings.Contains(msg, "dismissed") || strings.Contains(msg, "cancel") {
		return fmt.Errorf("%w: %v", vault.ErrAccessDenied, err)
	}

	// No D-Bus session or no Secret Service provider on this host.
	if strings.Contains(msg, "dbus") || strings.Contains(msg, "secret service") || strings.Contains(msg, "no such service") {
		return fmt.Errorf("%w: %v", vault.ErrUnavailable, err)
	}

	return err
}
