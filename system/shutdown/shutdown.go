package shutdown

import (
	"os"
	"sync"

	"github.com/rs/zerolog/log"
)

// ExitFunc is swapped out by tests.
var ExitFunc = os.Exit

var (
	mu    sync.Mutex
	hooks []func()
)

// OnShutdown registers fn to run before exit, in registration order.
func OnShutdown(fn func()) {
	mu.Lock()
	defer mu.Unlock()
	hooks = append(hooks, fn)
}

// Reset drops every registered hook.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	hooks = nil
}

func runHooks() {
	mu.Lock()
	pending := hooks
	hooks = nil
	mu.Unlock()

	for _, fn := range pending {
		fn()
	}
}

func Shutdown() {
	runHooks()
	log.Info().Msg("Panel outputs released")
	ExitFunc(0)
}

func ShutdownWithError(err error, msg string) {
	log.Error().Err(err).Msg(msg)
	runHooks()
	ExitFunc(1)
}
