// Package observability provides hooks for metrics and logging.
//
// Libraries in this module never import a metrics backend. They emit events
// through the hooks registered here, which default to no-ops. The binary
// registers real implementations (see pkg/metrics) at startup:
//
//	func main() {
//	    m := metrics.New(prometheus.NewRegistry())
//	    observability.SetScenarioHooks(m)
//	    observability.SetStoreHooks(m)
//	    observability.SetHTTPHooks(m)
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Scenario().OnAppend(string(cmd.Action()))
//	observability.Store().OnStoreOp(ctx, "badger", "get", time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// Step directions reported by ScenarioHooks.OnStep.
const (
	Forward  = "forward"
	Backward = "backward"
)

// =============================================================================
// Scenario Hooks
// =============================================================================

// ScenarioHooks receives events from scenario recording and playback.
type ScenarioHooks interface {
	// OnAppend records a command appended while recording.
	OnAppend(action string)

	// OnStep records a command applied by playback in direction.
	OnStep(direction, action string)

	// OnImport records a decoded exchange document.
	OnImport(format string, commands int, err error)
}

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from document stores.
type StoreHooks interface {
	// OnStoreOp records one store operation (get, put, delete, list).
	OnStoreOp(ctx context.Context, backend, op string, duration time.Duration, err error)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP API.
type HTTPHooks interface {
	// OnRequest records a served request. route is the matched pattern, not
	// the raw path.
	OnRequest(ctx context.Context, method, route string, status int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopScenarioHooks is a no-op implementation of ScenarioHooks.
type NoopScenarioHooks struct{}

func (NoopScenarioHooks) OnAppend(string)             {}
func (NoopScenarioHooks) OnStep(string, string)       {}
func (NoopScenarioHooks) OnImport(string, int, error) {}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnStoreOp(context.Context, string, string, time.Duration, error) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	scenarioHooks ScenarioHooks = NoopScenarioHooks{}
	storeHooks    StoreHooks    = NoopStoreHooks{}
	httpHooks     HTTPHooks     = NoopHTTPHooks{}
	hooksMu       sync.RWMutex
)

// SetScenarioHooks registers custom scenario hooks.
// This should be called once at application startup before any recording.
func SetScenarioHooks(h ScenarioHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		scenarioHooks = h
	}
}

// SetStoreHooks registers custom store hooks.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Scenario returns the registered scenario hooks.
func Scenario() ScenarioHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return scenarioHooks
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	scenarioHooks = NoopScenarioHooks{}
	storeHooks = NoopStoreHooks{}
	httpHooks = NoopHTTPHooks{}
}
