package wizard

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ServiceExportCoordinator owns the ordered set of export names and submits
// it to the backend once confirmed.
type ServiceExportCoordinator struct {
	api            API
	requestTimeout time.Duration
	logger         *zap.Logger
	metrics        *Metrics

	mu    sync.Mutex
	names []string
	state FlightState
}

func NewServiceExportCoordinator(api API, requestTimeout time.Duration, logger *zap.Logger, metrics *Metrics) *ServiceExportCoordinator {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &ServiceExportCoordinator{
		api:            api,
		requestTimeout: requestTimeout,
		logger:         logger,
		metrics:        metrics,
	}
}

// IsValidName reports whether name could be added to the set.
func (c *ServiceExportCoordinator) IsValidName(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return ValidateExportName(name, c.names) == nil
}

// Add appends the trimmed name. Invalid names are ignored, as are changes
// while confirming or after the set was confirmed.
func (c *ServiceExportCoordinator) Add(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != FlightIdle {
		return false
	}

	if err := ValidateExportName(name, c.names); err != nil {
		c.logger.Debug("ignoring export name", zap.String("export", name), zap.Error(err))

		return false
	}

	c.names = append(c.names, strings.TrimSpace(name))

	return true
}

// Remove deletes name from the set, keeping the order of the rest.
func (c *ServiceExportCoordinator) Remove(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != FlightIdle {
		return false
	}

	idx := slices.Index(c.names, strings.TrimSpace(name))
	if idx < 0 {
		return false
	}

	c.names = slices.Delete(c.names, idx, idx+1)

	return true
}

// Names returns a copy of the set in insertion order.
func (c *ServiceExportCoordinator) Names() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return slices.Clone(c.names)
}

// State is FlightInFlight while confirming and FlightDone once confirmed.
func (c *ServiceExportCoordinator) State() FlightState {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

func (c *ServiceExportCoordinator) Confirming() bool { return c.State() == FlightInFlight }

func (c *ServiceExportCoordinator) Confirmed() bool { return c.State() == FlightDone }

// Confirm posts the current set. It is a no-op while confirming or after a
// successful confirmation; a failure leaves the set unconfirmed.
func (c *ServiceExportCoordinator) Confirm(ctx context.Context) error {
	c.mu.Lock()
	if c.state != FlightIdle {
		c.mu.Unlock()

		return nil
	}

	names := slices.Clone(c.names)
	c.state = FlightInFlight
	c.mu.Unlock()

	reqCtx, cancel := withTimeout(ctx, c.requestTimeout)
	err := c.api.SetupServices(reqCtx, names)
	cancel()

	c.metrics.recordRequest("setup_services", err)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.state = FlightIdle
		c.logger.Warn("service setup failed", zap.Strings("exports", names), zap.Error(err))

		return NewNetworkErrorWithCause(CodeRequestFailed, "service setup failed", strings.Join(names, ","), err)
	}

	c.state = FlightDone
	c.logger.Info("services configured", zap.Strings("exports", names))

	return nil
}
