// Package scenario is a registry of runnable models, matching the
// provider-registration pattern used elsewhere in this codebase: each
// scenario package registers itself from an init() function, and
// cmd/simrun selects one by name via a blank import plus --scenario.
package scenario

import (
	"fmt"
	"sort"
	"sync"

	"github.com/simgo/simgo/internal/clock"
	"github.com/simgo/simgo/internal/config"
	"github.com/simgo/simgo/internal/dataset"
	"github.com/simgo/simgo/internal/rng"
)

// Env is what a scenario needs to build its model for one replication.
type Env struct {
	Loop     *clock.Loop
	Recorder *dataset.Recorder
	Stream   func(s int) *rng.Stream // model stream index -> seeded stream
	Config   config.Config
}

// Model is a constructed scenario instance. The caller (runner.Run) calls
// Run once for the warmup span and once per batch, swapping the
// recorder's sink in between.
type Model interface {
	// Run advances the simulation by delta simulated-time units.
	Run(delta float64) error
}

// Factory builds a fresh Model for one replication.
type Factory func(env Env) Model

var (
	mu        sync.Mutex
	factories = map[string]Factory{}
)

// Register adds a named scenario factory. Called from scenario package
// init() functions; panics on duplicate registration (a programming
// error, not a runtime condition).
func Register(name string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	if _, exists := factories[name]; exists {
		panic(fmt.Sprintf("scenario: %q already registered", name))
	}
	factories[name] = f
}

// Get returns the named scenario's factory.
func Get(name string) (Factory, error) {
	mu.Lock()
	defer mu.Unlock()
	f, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("scenario: unknown scenario %q (registered: %v)", name, namesLocked())
	}
	return f, nil
}

// Names returns every registered scenario name, sorted.
func Names() []string {
	mu.Lock()
	defer mu.Unlock()
	return namesLocked()
}

func namesLocked() []string {
	out := make([]string, 0, len(factories))
	for name := range factories {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
