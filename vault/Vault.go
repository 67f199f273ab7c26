package vault

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
)

// Vault combines the metadata store with the secret backend selected for
// this process into per-connection operations. Store is all-or-nothing from
// the caller's perspective: a failed secret write rolls the metadata back.
type Vault struct {
	meta    *MetaStore
	secrets SecretBackend
}

func New(meta *MetaStore, secrets SecretBackend) *Vault {
	return &Vault{meta: meta, secrets: secrets}
}

func (v *Vault) BackendName() string {
	return v.secrets.Name()
}

// Store saves the connection metadata and its password. The metadata is
// written first; if the secret write fails the metadata change is reverted
// and the error propagated. IAM connections store no secret, and any stale
// secret left under the same name is removed best-effort.
func (v *Vault) Store(conn Connection, password string) error {
	if conn.Port == 0 {
		conn.Port = DefaultPort
	}

	if err := conn.Validate(); err != nil {
		return err
	}

	conns, err := v.meta.Load()
	if err != nil {
		return err
	}

	prev, existed := conns[conn.Name]
	conns[conn.Name] = conn

	if err := v.meta.Save(conns); err != nil {
		return err
	}

	if conn.IAMAuth {
		if err := v.secrets.Delete(conn.Name); err != nil && !errors.Is(err, ErrNotFound) {
			log.WithError(err).Warnf("could not remove stale password for %s", conn.Name)
		}
		return nil
	}

	if err := v.secrets.Put(conn.Name, password); err != nil {
		if existed {
			conns[conn.Name] = prev
		} else {
			delete(conns, conn.Name)
		}
		if rbErr := v.meta.Save(conns); rbErr != nil {
			log.WithError(rbErr).Errorf("could not roll back metadata for %s", conn.Name)
		}
		return fmt.Errorf("store password for %s: %w", conn.Name, err)
	}

	return nil
}

// Fetch resolves a stored connection together with its password.
// Metadata without a password is an orphaned connection and reported as
// such, never as an empty password. IAM connections carry no password.
func (v *Vault) Fetch(name string) (Connection, string, error) {
	conns, err := v.meta.Load()
	if err != nil {
		return Connection{}, "", err
	}

	conn, ok := conns[name]
	if !ok {
		return Connection{}, "", ErrProfileNotFound
	}

	if conn.IAMAuth {
		return conn, "", nil
	}

	password, err := v.secrets.Get(name)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Connection{}, "", ErrOrphanedProfile
		}
		return Connection{}, "", err
	}

	return conn, password, nil
}

// List returns all stored connections sorted by name. No secret material is
// touched; the secret backend is never invoked.
func (v *Vault) List() ([]Connection, error) {
	return v.meta.List()
}

// Remove deletes the connection metadata, then best-effort deletes its
// password. The metadata is removed first so a failed secret delete can not
// leave a dangling listed connection; a leaked backend entry without a
// metadata pointer is the lesser evil.
func (v *Vault) Remove(name string) error {
	conns, err := v.meta.Load()
	if err != nil {
		return err
	}

	if _, ok := conns[name]; !ok {
		return ErrProfileNotFound
	}

	delete(conns, name)

	if err := v.meta.Save(conns); err != nil {
		return err
	}

	if err := v.secrets.Delete(name); err != nil && !errors.Is(err, ErrNotFound) {
		log.WithError(err).Warnf("metadata for %s removed, but its password could not be deleted", name)
	}

	return nil
}
