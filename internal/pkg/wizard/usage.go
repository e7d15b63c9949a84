package wizard

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/siderolabs/gen/maps"
	"go.uber.org/zap"
)

// AvailableItemName is the name of the free-capacity usage item.
const AvailableItemName = "Available"

// UsageItems derives the dashboard chart: the used bytes of every pool in
// pool-name order, then the available capacity. The available value is the
// larger of the cluster-wide figure and the largest pool figure.
func UsageItems(stats UsageStats) []UsageItem {
	names := maps.Keys(stats.Pools)
	slices.Sort(names)

	items := make([]UsageItem, 0, len(names)+1)
	avail := stats.TotalAvailBytes

	for _, name := range names {
		pool := stats.Pools[name]
		items = append(items, UsageItem{Name: name, Value: pool.Used})

		avail = max(avail, pool.Avail)
	}

	return append(items, UsageItem{Name: AvailableItemName, Value: avail})
}

// UsageMonitor periodically fetches usage statistics for the dashboard.
// A failed fetch keeps the previous snapshot.
type UsageMonitor struct {
	*repeater

	api            API
	requestTimeout time.Duration
	logger         *zap.Logger
	metrics        *Metrics

	mu     sync.RWMutex
	loaded bool
	stats  UsageStats
	items  []UsageItem
}

func NewUsageMonitor(api API, scheduler Scheduler, opts ...PollerOption) *UsageMonitor {
	o := buildPollerOptions(opts)

	m := &UsageMonitor{
		api:            api,
		requestTimeout: o.requestTimeout,
		logger:         o.logger,
		metrics:        o.metrics,
	}
	m.repeater = newRepeater(scheduler, o.interval, m.poll)

	return m
}

func (m *UsageMonitor) poll(ctx context.Context) bool {
	reqCtx, cancel := withTimeout(ctx, m.requestTimeout)
	stats, err := m.api.Usage(reqCtx)
	cancel()

	m.metrics.recordPoll("usage", err)

	if err != nil {
		if ctx.Err() == nil {
			m.logger.Warn("usage fetch failed", zap.Error(err))
		}

		return false
	}

	items := UsageItems(stats)

	m.mu.Lock()
	m.loaded = true
	m.stats = stats
	m.items = items
	m.mu.Unlock()

	return false
}

// Snapshot returns the last fetched statistics and derived items.
func (m *UsageMonitor) Snapshot() (UsageStats, []UsageItem, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.stats, slices.Clone(m.items), m.loaded
}
