package vault

import (
	"errors"

	log "github.com/sirupsen/logrus"
)

// SelectBackend picks the secret backend for this process. The platform
// backend is probed once: success or ErrNotFound (facility present, sentinel
// key absent) selects it; ErrUnavailable selects the fallback. The choice is
// made once per run and never revisited, so store and fetch can not end up
// on different backends within one invocation.
func SelectBackend(platform SecretBackend, probe func() error, fallback SecretBackend) SecretBackend {
	err := probe()

	if err == nil || errors.Is(err, ErrNotFound) {
		return platform
	}

	log.WithError(err).Debug("platform secret store not usable")
	log.Infof("using %s for password storage", fallback.Name())

	return fallback
}
