package wizard

import (
	"context"
	"math"
	"slices"
	"sync"
	"time"

	"github.com/siderolabs/gen/xslices"
	"go.uber.org/zap"
)

// AvailableRawBytes sums the sizes of the available devices.
func AvailableRawBytes(devices []Device) int64 {
	var total int64

	for _, dev := range xslices.Filter(devices, func(d Device) bool { return d.Available }) {
		total += dev.SizeBytes
	}

	return total
}

// BuildCatalog returns the two solution candidates described by a feasibility
// report, maximum capacity first.
func BuildCatalog(report SolutionReport) []SolutionCandidate {
	return []SolutionCandidate{
		{
			Name:      SolutionRaid0,
			Label:     "Maximum capacity",
			Available: report.CanRaid0,
			SizeBytes: int64(math.Round(report.Raid0Size)),
		},
		{
			Name:      SolutionRaid1,
			Label:     "Mirrored",
			Available: report.CanRaid1,
			SizeBytes: int64(math.Round(report.Raid1Size)),
		},
	}
}

// InventoryCoordinator fetches the storage inventory once the backend waits
// at the inventory stage. The fetch is single-flight; a failed fetch returns
// the guard to idle so the next status update retries it.
type InventoryCoordinator struct {
	api            API
	requestTimeout time.Duration
	logger         *zap.Logger
	metrics        *Metrics

	mu        sync.Mutex
	state     FlightState
	devices   []Device
	available int64
	catalog   []SolutionCandidate
}

// NewInventoryCoordinator creates a coordinator with an empty snapshot.
func NewInventoryCoordinator(api API, requestTimeout time.Duration, logger *zap.Logger, metrics *Metrics) *InventoryCoordinator {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &InventoryCoordinator{
		api:            api,
		requestTimeout: requestTimeout,
		logger:         logger,
		metrics:        metrics,
	}
}

// MaybeFetch fetches the inventory when the inventory stage is waiting and no
// fetch is running or has succeeded. Failed sessions never fetch. It reports
// whether a fetch was issued.
func (c *InventoryCoordinator) MaybeFetch(ctx context.Context, stages Stages) bool {
	if !stages.Waiting(StageInventory) {
		return false
	}

	if _, failed := stages.Failed(); failed {
		return false
	}

	c.mu.Lock()
	if c.state != FlightIdle {
		c.mu.Unlock()

		return false
	}

	c.state = FlightInFlight
	c.mu.Unlock()

	reqCtx, cancel := withTimeout(ctx, c.requestTimeout)
	reply, err := c.api.Inventory(reqCtx)
	cancel()

	c.metrics.recordRequest("inventory", err)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.state = FlightIdle
		c.logger.Warn("inventory fetch failed", zap.Error(err))

		return true
	}

	c.devices = slices.Clone(reply.Devices)
	c.available = AvailableRawBytes(reply.Devices)
	c.catalog = BuildCatalog(reply.Solution)
	c.state = FlightDone

	c.logger.Info("inventory loaded",
		zap.Int("devices", len(c.devices)),
		zap.Int64("available_raw_bytes", c.available),
	)

	return true
}

func (c *InventoryCoordinator) State() FlightState {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

func (c *InventoryCoordinator) Devices() []Device {
	c.mu.Lock()
	defer c.mu.Unlock()

	return slices.Clone(c.devices)
}

func (c *InventoryCoordinator) AvailableRawBytes() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.available
}

// Catalog returns the solution candidates of the last successful fetch.
func (c *InventoryCoordinator) Catalog() []SolutionCandidate {
	c.mu.Lock()
	defer c.mu.Unlock()

	return slices.Clone(c.catalog)
}
