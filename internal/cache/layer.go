package cache

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultTTL bounds how long the shared tier may serve an entry that
// missed its invalidation.
const DefaultTTL = 3600 * time.Second

// Layer is the two-tier settings cache. The local tier is an in-process
// map with unbounded lifetime, cleared only by invalidation or a flush.
// The shared tier is optional; when it errors the layer fails open and
// the read falls through to storage.
type Layer struct {
	mu      sync.RWMutex
	local   map[string][]byte
	enabled bool

	shared Backend // nil when no shared tier is configured
	prefix string
	ttl    time.Duration
}

// NewLayer creates a cache layer. A nil shared backend leaves the layer
// running purely process-local.
func NewLayer(shared Backend, prefix string, ttl time.Duration, enabled bool) *Layer {
	if prefix == "" {
		prefix = "settings"
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	initMetrics()

	return &Layer{
		local:   make(map[string][]byte),
		enabled: enabled,
		shared:  shared,
		prefix:  prefix,
		ttl:     ttl,
	}
}

func (l *Layer) sharedKey(key string) string {
	return l.prefix + "." + key
}

// Get resolves a key through both tiers: local hit wins, then the shared
// tier (populating the local tier on a hit). A disabled layer always
// misses so reads go straight to storage.
func (l *Layer) Get(ctx context.Context, key string) ([]byte, bool) {
	l.mu.RLock()
	enabled := l.enabled
	payload, ok := l.local[key]
	l.mu.RUnlock()

	if !enabled {
		return nil, false
	}

	if ok {
		hits.WithLabelValues(tierLocal).Inc()
		return payload, true
	}

	if l.shared == nil {
		misses.Inc()
		return nil, false
	}

	payload, ok, err := l.shared.Get(ctx, l.sharedKey(key))
	if err != nil {
		// Fail open: an unreachable shared tier is a miss, never an error
		// surfaced to the read path.
		log.Warn().Err(err).Str("key", key).Msg("shared cache tier unavailable, treating as miss")

		misses.Inc()

		return nil, false
	}

	if !ok {
		misses.Inc()
		return nil, false
	}

	l.mu.Lock()
	if l.enabled {
		l.local[key] = payload
	}
	l.mu.Unlock()

	hits.WithLabelValues(tierShared).Inc()

	return payload, true
}

// Put populates both tiers after a storage read resolved the key. It is a
// no-op while the layer is disabled.
func (l *Layer) Put(ctx context.Context, key string, payload []byte) {
	l.mu.Lock()
	enabled := l.enabled
	if enabled {
		l.local[key] = payload
	}
	l.mu.Unlock()

	if !enabled || l.shared == nil {
		return
	}

	if err := l.shared.Set(ctx, l.sharedKey(key), payload, l.ttl); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("failed to populate shared cache tier")
	}
}

// Invalidate evicts a key from both tiers. It runs even while the layer
// is disabled so stale entries cannot survive a later re-enable.
func (l *Layer) Invalidate(ctx context.Context, key string) {
	l.mu.Lock()
	delete(l.local, key)
	l.mu.Unlock()

	if l.shared == nil {
		return
	}

	if err := l.shared.Delete(ctx, l.sharedKey(key)); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("failed to evict key from shared cache tier")
	}
}

// Flush clears both tiers entirely. This is the sanctioned recovery path
// for any suspected staleness.
func (l *Layer) Flush(ctx context.Context) {
	l.mu.Lock()
	l.local = make(map[string][]byte)
	l.mu.Unlock()

	if l.shared == nil {
		return
	}

	if err := l.shared.Flush(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to flush shared cache tier")
	}
}

// Enable turns the cache back on for this process.
func (l *Layer) Enable() {
	l.mu.Lock()
	l.enabled = true
	l.mu.Unlock()
}

// Disable bypasses both tiers for reads until Enable is called. Evictions
// keep running.
func (l *Layer) Disable() {
	l.mu.Lock()
	l.enabled = false
	l.local = make(map[string][]byte)
	l.mu.Unlock()
}

// Enabled reports the current process-local toggle state.
func (l *Layer) Enabled() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.enabled
}

// Close releases the shared backend, if any.
func (l *Layer) Close() error {
	if l.shared == nil {
		return nil
	}

	return l.shared.Close()
}
