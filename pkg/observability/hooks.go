// Package observability provides hooks for metrics and progress reporting.
//
// Libraries emit events through small hook interfaces; the binary decides
// what listens. The default hooks do nothing, so library packages never
// depend on a metrics backend.
//
// # Usage
//
// Register hooks at application startup:
//
//	observability.SetScanHooks(metrics.NewScanHooks(reg))
//	observability.SetHTTPHooks(metrics.NewHTTPHooks(reg))
//
// Libraries call hooks to emit events:
//
//	observability.Scan().OnStage(ctx, repo, "cloning")
//	observability.HTTP().OnResponse(ctx, "GET", host, path, 200, elapsed)
//
// A per-run listener such as a progress display can be combined with the
// global one using [MultiScan].
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Scan Hooks
// =============================================================================

// RepoOutcome summarizes one finished repository scan.
type RepoOutcome struct {
	Dependencies    int
	Vulnerabilities int
	Err             error
	Duration        time.Duration
}

// ScanHooks receives events from an organization scan.
type ScanHooks interface {
	OnScanStart(ctx context.Context, runID string, repos int)
	OnRepoSkipped(ctx context.Context, repo string)
	OnStage(ctx context.Context, repo, stage string)
	OnRepoComplete(ctx context.Context, repo string, outcome RepoOutcome)
	OnScanComplete(ctx context.Context, runID string, duration time.Duration)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from HTTP client operations.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, host, path string)
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)
	// OnError records a transport failure (no response).
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopScanHooks is a no-op implementation of ScanHooks.
type NoopScanHooks struct{}

func (NoopScanHooks) OnScanStart(context.Context, string, int)              {}
func (NoopScanHooks) OnRepoSkipped(context.Context, string)                 {}
func (NoopScanHooks) OnStage(context.Context, string, string)               {}
func (NoopScanHooks) OnRepoComplete(context.Context, string, RepoOutcome)   {}
func (NoopScanHooks) OnScanComplete(context.Context, string, time.Duration) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// =============================================================================
// Fan-out
// =============================================================================

type multiScan []ScanHooks

// MultiScan returns ScanHooks that forwards every event to each of hooks in
// order. Nil entries are dropped.
func MultiScan(hooks ...ScanHooks) ScanHooks {
	var m multiScan
	for _, h := range hooks {
		if h != nil {
			m = append(m, h)
		}
	}
	if len(m) == 1 {
		return m[0]
	}
	return m
}

func (m multiScan) OnScanStart(ctx context.Context, runID string, repos int) {
	for _, h := range m {
		h.OnScanStart(ctx, runID, repos)
	}
}

func (m multiScan) OnRepoSkipped(ctx context.Context, repo string) {
	for _, h := range m {
		h.OnRepoSkipped(ctx, repo)
	}
}

func (m multiScan) OnStage(ctx context.Context, repo, stage string) {
	for _, h := range m {
		h.OnStage(ctx, repo, stage)
	}
}

func (m multiScan) OnRepoComplete(ctx context.Context, repo string, outcome RepoOutcome) {
	for _, h := range m {
		h.OnRepoComplete(ctx, repo, outcome)
	}
}

func (m multiScan) OnScanComplete(ctx context.Context, runID string, d time.Duration) {
	for _, h := range m {
		h.OnScanComplete(ctx, runID, d)
	}
}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	scanHooks  ScanHooks  = NoopScanHooks{}
	cacheHooks CacheHooks = NoopCacheHooks{}
	httpHooks  HTTPHooks  = NoopHTTPHooks{}
	hooksMu    sync.RWMutex
)

// SetScanHooks registers scan hooks. Call once at startup.
func SetScanHooks(h ScanHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		scanHooks = h
	}
}

// SetCacheHooks registers cache hooks. Call once at startup.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers HTTP hooks. Call once at startup.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Scan returns the registered scan hooks.
func Scan() ScanHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return scanHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
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
	scanHooks = NoopScanHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
