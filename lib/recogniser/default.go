package recogniser

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// The backing model behind the default recogniser is expensive to construct,
// so it is built once per process and reused. Construction is guarded so
// concurrent first callers cannot race to build duplicate instances.
var (
	defaultMu      sync.Mutex
	defaultOnce    sync.Once
	defaultClient  Client
	defaultFactory func() (Client, error)
)

// RegisterDefaultFactory installs the constructor used to build the
// process-wide default client on first use. It must be called before the
// first Default() call; typically from a binary's config setup.
func RegisterDefaultFactory(factory func() (Client, error)) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultFactory = factory
}

// SetDefault injects a ready client as the process-wide default, bypassing
// lazy construction. Intended for tests and embedders with their own
// lifecycle management.
func SetDefault(client Client) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultClient = client
	defaultOnce.Do(func() {})
}

// Default returns the lazily constructed process-wide recogniser, or nil if
// no factory was registered or construction failed. Failure is logged once;
// callers degrade to structured-only detection.
func Default() Client {
	defaultOnce.Do(func() {
		defaultMu.Lock()
		factory := defaultFactory
		defaultMu.Unlock()
		if factory == nil {
			return
		}
		client, err := factory()
		if err != nil {
			log.Error().Err(err).Msg("default recogniser construction failed")
			return
		}
		defaultMu.Lock()
		defaultClient = client
		defaultMu.Unlock()
	})

	defaultMu.Lock()
	defer defaultMu.Unlock()
	return defaultClient
}
