package encfile

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgvault/pgvault/vault"
)

func TestStore_PutGetRoundtrip(t *testing.T) {
	store := New(t.TempDir())

	require.NoError(t, store.Put("mydb", "secret123"))

	secret, err := store.Get("mydb")
	require.NoError(t, err)
	assert.Equal(t, "secret123", secret)
}

func TestStore_GetMissingKey(t *testing.T) {
	store := New(t.TempDir())

	_, err := store.Get("nope")
	assert.ErrorIs(t, err, vault.ErrNotFound)
}

func TestStore_PutOverwrites(t *testing.T) {
	store := New(t.TempDir())

	require.NoError(t, store.Put("mydb", "old"))
	require.NoError(t, store.Put("mydb", "new"))

	secret, err := store.Get("mydb")
	require.NoError(t, err)
	assert.Equal(t, "new", secret)

	file := readSecretsFile(t, store)
	assert.Len(t, file.Entries, 1)
}

func TestStore_Delete(t *testing.T) {
	store := New(t.TempDir())

	require.NoError(t, store.Put("mydb", "secret123"))
	require.NoError(t, store.Delete("mydb"))

	_, err := store.Get("mydb")
	assert.ErrorIs(t, err, vault.ErrNotFound)

	assert.ErrorIs(t, store.Delete("mydb"), vault.ErrNotFound)
}

func TestStore_NonceUniquePerEncryption(t *testing.T) {
	store := New(t.TempDir())

	require.NoError(t, store.Put("a", "same-secret"))
	require.NoError(t, store.Put("b", "same-secret"))

	file := readSecretsFile(t, store)
	assert.NotEqual(t, file.Entries["a"].Nonce, file.Entries["b"].Nonce)
	assert.NotEqual(t, file.Entries["a"].Ciphertext, file.Entries["b"].Ciphertext)
}

func TestStore_TamperedCiphertextFailsLoudly(t *testing.T) {
	store := New(t.TempDir())

	require.NoError(t, store.Put("mydb", "secret123"))

	file := readSecretsFile(t, store)
	rec := file.Entries["mydb"]
	rec.Ciphertext[0] ^= 0x01
	file.Entries["mydb"] = rec
	writeSecretsFile(t, store, file)

	_, err := store.Get("mydb")

	var corruptErr *vault.CorruptStoreError
	assert.ErrorAs(t, err, &corruptErr)
}

func TestStore_TamperedNonceFailsLoudly(t *testing.T) {
	store := New(t.TempDir())

	require.NoError(t, store.Put("mydb", "secret123"))

	file := readSecretsFile(t, store)
	rec := file.Entries["mydb"]
	rec.Nonce[0] ^= 0x01
	file.Entries["mydb"] = rec
	writeSecretsFile(t, store, file)

	_, err := store.Get("mydb")

	var corruptErr *vault.CorruptStoreError
	assert.ErrorAs(t, err, &corruptErr)
}

func TestStore_RecordMovedToOtherKeyFailsAuthentication(t *testing.T) {
	store := New(t.TempDir())

	require.NoError(t, store.Put("mydb", "secret123"))

	file := readSecretsFile(t, store)
	file.Entries["other"] = file.Entries["mydb"]
	writeSecretsFile(t, store, file)

	_, err := store.Get("other")

	var corruptErr *vault.CorruptStoreError
	assert.ErrorAs(t, err, &corruptErr)
}

func TestStore_UnknownFormatVersionRejected(t *testing.T) {
	store := New(t.TempDir())

	require.NoError(t, store.Put("mydb", "secret123"))

	file := readSecretsFile(t, store)
	file.Version = 99
	writeSecretsFile(t, store, file)

	_, err := store.Get("mydb")

	var corruptErr *vault.CorruptStoreError
	assert.ErrorAs(t, err, &corruptErr)
}

func TestStore_GarbageFileRejected(t *testing.T) {
	dir := t.TempDir()
	store := New(dir)

	require.NoError(t, os.WriteFile(store.Path(), []byte("not json at all"), 0600))

	_, err := store.Get("mydb")

	var corruptErr *vault.CorruptStoreError
	assert.ErrorAs(t, err, &corruptErr)
}

func TestStore_KeyMaterialOutsideSecretsFile(t *testing.T) {
	dir := t.TempDir()
	store := New(dir)

	require.NoError(t, store.Put("mydb", "secret123"))

	key, err := os.ReadFile(filepath.Join(dir, keyFileName))
	require.NoError(t, err)
	require.Len(t, key, 32)

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.NotContains(t, string(data), string(key))

	if runtime.GOOS != "windows" {
		info, err := os.Stat(filepath.Join(dir, keyFileName))
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	}
}

func TestStore_SecretsNeverInPlaintext(t *testing.T) {
	store := New(t.TempDir())

	require.NoError(t, store.Put("mydb", "secret123"))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret123")
}

func TestStore_InterruptedWriteLeavesOldFile(t *testing.T) {
	dir := t.TempDir()
	store := New(dir)

	require.NoError(t, store.Put("mydb", "secret123"))

	// A stray temp file from a crashed writer must not affect reads.
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".secrets.enc.json.tmp1"), []byte(`{"version":1,"ent`), 0600))

	secret, err := store.Get("mydb")
	require.NoError(t, err)
	assert.Equal(t, "secret123", secret)
}

func readSecretsFile(t *testing.T, store *Store) *secretsFile {
	t.Helper()

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)

	var file secretsFile
	require.NoError(t, json.Unmarshal(data, &file))
	return &file
}

func writeSecretsFile(t *testing.T, store *Store, file *secretsFile) {
	t.Helper()

	data, err := json.Marshal(file)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(store.Path(), data, 0600))
}
