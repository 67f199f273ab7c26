package vault

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Mock backend for testing
type memoryBackend struct {
	secrets map[string]string

	getCalls int
	putErr   error
	delErr   error
}

func newMemoryBackend() *memoryBackend {
	return &memoryBackend{secrets: make(map[string]string)}
}

func (m *memoryBackend) Name() string {
	return "memory"
}

func (m *memoryBackend) Put(key string, secret string) error {
	if m.putErr != nil {
		return m.putErr
	}
	m.secrets[key] = secret
	return nil
}

func (m *memoryBackend) Get(key string) (string, error) {
	m.getCalls++
	secret, ok := m.secrets[key]
	if !ok {
		return "", ErrNotFound
	}
	return secret, nil
}

func (m *memoryBackend) Delete(key string) error {
	if m.delErr != nil {
		return m.delErr
	}
	if _, ok := m.secrets[key]; !ok {
		return ErrNotFound
	}
	delete(m.secrets, key)
	return nil
}

func newTestVault(t *testing.T) (*Vault, *memoryBackend) {
	backend := newMemoryBackend()
	return New(NewMetaStore(t.TempDir()), backend), backend
}

func TestVault_StoreFetchRoundtrip(t *testing.T) {
	v, _ := newTestVault(t)

	stored := Connection{Name: "mydb", Host: "localhost", Port: 5432, Database: "myapp", Username: "postgres"}
	require.NoError(t, v.Store(stored, "secret123"))

	conn, password, err := v.Fetch("mydb")
	require.NoError(t, err)

	assert.Equal(t, stored, conn)
	assert.Equal(t, "secret123", password)
}

func TestVault_FetchUnknownProfile(t *testing.T) {
	v, _ := newTestVault(t)

	_, _, err := v.Fetch("nope")
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestVault_StoreValidates(t *testing.T) {
	v, _ := newTestVault(t)

	err := v.Store(Connection{Name: "", Host: "localhost", Database: "db", Username: "u"}, "pw")

	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestVault_StoreDefaultsPort(t *testing.T) {
	v, _ := newTestVault(t)

	require.NoError(t, v.Store(Connection{Name: "mydb", Host: "localhost", Database: "myapp", Username: "postgres"}, "pw"))

	conn, _, err := v.Fetch("mydb")
	require.NoError(t, err)
	assert.Equal(t, DefaultPort, conn.Port)
}

func TestVault_RemoveThenFetchFails(t *testing.T) {
	v, _ := newTestVault(t)

	require.NoError(t, v.Store(testConnection("mydb"), "secret123"))
	require.NoError(t, v.Remove("mydb"))

	_, _, err := v.Fetch("mydb")
	assert.ErrorIs(t, err, ErrProfileNotFound)

	conns, err := v.List()
	require.NoError(t, err)
	assert.Empty(t, conns)
}

func TestVault_RemoveUnknownProfile(t *testing.T) {
	v, _ := newTestVault(t)

	assert.ErrorIs(t, v.Remove("nope"), ErrProfileNotFound)
}

func TestVault_RemoveSurvivesSecretDeleteFailure(t *testing.T) {
	v, backend := newTestVault(t)

	require.NoError(t, v.Store(testConnection("mydb"), "secret123"))

	// The metadata removal must stand even when the secret delete fails:
	// a leaked backend entry beats a dangling listed connection.
	backend.delErr = errors.New("keychain locked")
	require.NoError(t, v.Remove("mydb"))

	_, _, err := v.Fetch("mydb")
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestVault_ListNeverTouchesSecrets(t *testing.T) {
	v, backend := newTestVault(t)

	require.NoError(t, v.Store(testConnection("mydb"), "secret123"))
	require.NoError(t, v.Store(testConnection("other"), "secret456"))

	backend.getCalls = 0

	conns, err := v.List()
	require.NoError(t, err)

	require.Len(t, conns, 2)
	assert.Equal(t, "mydb", conns[0].Name)
	assert.Equal(t, "other", conns[1].Name)
	assert.Zero(t, backend.getCalls)
}

func TestVault_StoreRollsBackNewProfileOnPutFailure(t *testing.T) {
	v, backend := newTestVault(t)

	backend.putErr = errors.New("keychain exploded")
	err := v.Store(testConnection("mydb"), "secret123")
	require.Error(t, err)

	// No trace of the attempted profile may remain.
	conns, listErr := v.List()
	require.NoError(t, listErr)
	assert.Empty(t, conns)
}

func TestVault_StoreRestoresPreviousProfileOnPutFailure(t *testing.T) {
	v, backend := newTestVault(t)

	require.NoError(t, v.Store(testConnection("mydb"), "secret123"))

	updated := testConnection("mydb")
	updated.Host = "db.example.com"

	backend.putErr = errors.New("keychain exploded")
	require.Error(t, v.Store(updated, "newsecret"))

	backend.putErr = nil
	conn, password, err := v.Fetch("mydb")
	require.NoError(t, err)
	assert.Equal(t, "localhost", conn.Host)
	assert.Equal(t, "secret123", password)
}

func TestVault_OrphanedProfile(t *testing.T) {
	v, backend := newTestVault(t)

	require.NoError(t, v.Store(testConnection("mydb"), "secret123"))

	// Remove the secret behind the vault's back.
	delete(backend.secrets, "mydb")

	_, _, err := v.Fetch("mydb")
	assert.ErrorIs(t, err, ErrOrphanedProfile)
	assert.NotErrorIs(t, err, ErrProfileNotFound)
}

func TestVault_IAMProfileStoresNoSecret(t *testing.T) {
	v, backend := newTestVault(t)

	conn := testConnection("rds")
	conn.IAMAuth = true

	require.NoError(t, v.Store(conn, ""))
	assert.Empty(t, backend.secrets)

	fetched, password, err := v.Fetch("rds")
	require.NoError(t, err)
	assert.True(t, fetched.IAMAuth)
	assert.Empty(t, password)
}

func TestVault_IAMStoreRemovesStaleSecret(t *testing.T) {
	v, backend := newTestVault(t)

	require.NoError(t, v.Store(testConnection("mydb"), "secret123"))

	conn := testConnection("mydb")
	conn.IAMAuth = true
	require.NoError(t, v.Store(conn, ""))

	assert.NotContains(t, backend.secrets, "mydb")
}
