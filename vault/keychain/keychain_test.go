package keychain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/pgvault/pgvault/vault"
)

func TestKeychain_PutGetDelete(t *testing.T) {
	keyring.MockInit()
	kc := New()

	require.NoError(t, kc.Put("mydb", "secret123"))

	secret, err := kc.Get("mydb")
	require.NoError(t, err)
	assert.Equal(t, "secret123", secret)

	require.NoError(t, kc.Put("mydb", "rotated"))
	secret, err = kc.Get("mydb")
	require.NoError(t, err)
	assert.Equal(t, "rotated", secret)

	require.NoError(t, kc.Delete("mydb"))

	_, err = kc.Get("mydb")
	assert.ErrorIs(t, err, vault.ErrNotFound)
}

func TestKeychain_DeleteMissing(t *testing.T) {
	keyring.MockInit()
	kc := New()

	assert.ErrorIs(t, kc.Delete("nope"), vault.ErrNotFound)
}

func TestKeychain_ProbeReportsNotFoundAsAvailable(t *testing.T) {
	keyring.MockInit()
	kc := New()

	// The sentinel key never exists; the facility itself does.
	err := kc.Probe()
	assert.ErrorIs(t, err, vault.ErrNotFound)

	selected := vault.SelectBackend(kc, kc.Probe, &fakeFallback{})
	assert.Equal(t, kc.Name(), selected.Name())
}

func TestKeychain_UnavailableFacilitySelectsFallback(t *testing.T) {
	keyring.MockInitWithError(keyring.ErrUnsupportedPlatform)
	kc := New()

	assert.ErrorIs(t, kc.Probe(), vault.ErrUnavailable)

	fallback := &fakeFallback{}
	selected := vault.SelectBackend(kc, kc.Probe, fallback)
	assert.Equal(t, fallback.Name(), selected.Name())
}

func TestTranslate(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want error
	}{
		{"nil", nil, nil},
		{"not found", keyring.ErrNotFound, vault.ErrNotFound},
		{"unsupported platform", keyring.ErrUnsupportedPlatform, vault.ErrUnavailable},
		{"user denied prompt", errors.New("access to item was denied"), vault.ErrAccessDenied},
		{"prompt dismissed", errors.New("the prompt was dismissed"), vault.ErrAccessDenied},
		{"no dbus session", errors.New("dbus: connection refused"), vault.ErrUnavailable},
		{"no secret service", errors.New("the name org.freedesktop.secrets: no such service"), vault.ErrUnavailable},
	}

	for _, test := range tests {
		got := translate(test.in)
		if test.want == nil {
			assert.NoError(t, got, test.name)
			continue
		}
		assert.ErrorIs(t, got, test.want, test.name)
	}
}

func TestTranslate_UnknownErrorPassesThrough(t *testing.T) {
	cause := errors.New("disk on fire")
	got := translate(cause)

	assert.ErrorIs(t, got, cause)
	assert.NotErrorIs(t, got, vault.ErrAccessDenied)
	assert.NotErrorIs(t, got, vault.ErrUnavailable)
}

type fakeFallback struct{}

func (f *fakeFallback) Name() string { return "fallback" }

func (f *fakeFallback) Put(key, secret string) error { return nil }

func (f *fakeFallback) Get(key string) (string, error) { return "", vault.ErrNotFound }

func (f *fakeFallback) Delete(key string) error { return nil }
