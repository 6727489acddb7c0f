package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks implements every hook interface by logging at debug level.
// The CLI registers it when --verbose is set.
type LogHooks struct {
	Logger *log.Logger
}

func (h LogHooks) OnEnumerationStart(_ context.Context, engine string, nodes int) {
	h.Logger.Debug("enumeration started", "engine", engine, "nodes", nodes)
}

func (h LogHooks) OnWorkerComplete(_ context.Context, engine string, worker int, ideals uint64, d time.Duration) {
	h.Logger.Debug("worker finished", "engine", engine, "worker", worker, "ideals", ideals, "duration", d)
}

func (h LogHooks) OnEnumerationComplete(_ context.Context, engine string, ideals uint64, d time.Duration, err error) {
	if err != nil {
		h.Logger.Debug("enumeration failed", "engine", engine, "err", err)
		return
	}
	h.Logger.Debug("enumeration finished", "engine", engine, "ideals", ideals, "duration", d)
}

func (h LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h LogHooks) OnRequest(_ context.Context, method, route string) {
	h.Logger.Debug("request", "method", method, "route", route)
}

func (h LogHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.Logger.Info("response", "method", method, "route", route, "status", status, "duration", d)
}

var (
	_ EnumerationHooks = LogHooks{}
	_ CacheHooks       = LogHooks{}
	_ HTTPHooks        = LogHooks{}
)
