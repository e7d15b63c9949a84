package wizard

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Controller drives one wizard session: it polls the backend status,
// classifies it, triggers the inventory fetch and navigates to the dashboard
// once the deployment is ready.
type Controller struct {
	sessionID string
	nav       Navigator
	logger    *zap.Logger
	metrics   *Metrics

	classifier *Classifier
	poller     *StatusPoller
	inventory  *InventoryCoordinator
	solutions  *SolutionSelector
	exports    *ServiceExportCoordinator

	mu         sync.RWMutex
	stages     Stages
	lastStatus string
	result     *BootstrapResult
}

// NewController wires a session. A nil cfg means DefaultConfig.
func NewController(api API, nav Navigator, scheduler Scheduler, cfg *Config) *Controller {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	sessionID := uuid.NewString()
	logger = logger.With(zap.String("session", sessionID))

	c := &Controller{
		sessionID:  sessionID,
		nav:        nav,
		logger:     logger,
		metrics:    cfg.Metrics,
		classifier: NewClassifier(logger.With(zap.String("component", "classifier")), cfg.Metrics),
		inventory:  NewInventoryCoordinator(api, cfg.RequestTimeout, logger.With(zap.String("component", "inventory")), cfg.Metrics),
		exports:    NewServiceExportCoordinator(api, cfg.RequestTimeout, logger.With(zap.String("component", "exports")), cfg.Metrics),
		lastStatus: StatusNone,
	}
	c.solutions = NewSolutionSelector(api, c.inventory, cfg.RequestTimeout, logger.With(zap.String("component", "solution")), cfg.Metrics)
	c.poller = NewStatusPoller(api, scheduler, c.OnStatus,
		WithInterval(cfg.PollInterval),
		WithRequestTimeout(cfg.RequestTimeout),
		WithPollerLogger(logger.With(zap.String("component", "poller"))),
		WithPollerMetrics(cfg.Metrics),
	)

	return c
}

func (c *Controller) SessionID() string { return c.sessionID }

// Start begins polling.
func (c *Controller) Start(ctx context.Context) { c.poller.Start(ctx) }

// Stop cancels the pending poll and any request it is running.
func (c *Controller) Stop() { c.poller.Stop() }

// Run polls until the session is ready or ctx is done.
func (c *Controller) Run(ctx context.Context) error { return c.poller.Run(ctx) }

// Done is closed once polling has stopped.
func (c *Controller) Done() <-chan struct{} { return c.poller.Done() }

func (c *Controller) Inventory() *InventoryCoordinator { return c.inventory }

func (c *Controller) Solutions() *SolutionSelector { return c.solutions }

func (c *Controller) Exports() *ServiceExportCoordinator { return c.exports }

// Stages returns the current classified state.
func (c *Controller) Stages() Stages {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.stages
}

// OnStatus applies a status reply. It returns true once the session is ready.
func (c *Controller) OnStatus(ctx context.Context, reply StatusReply) bool {
	c.mu.Lock()
	prev := c.stages
	next := c.classifier.Classify(prev, reply.Status)
	c.stages = next
	c.lastStatus = NormalizeStatus(reply.Status)

	if reply.Result != nil {
		result := *reply.Result
		c.result = &result
	}
	c.mu.Unlock()

	c.metrics.setStep(next.StepIndex())

	if next.StepIndex() != prev.StepIndex() {
		c.logger.Info("wizard step changed",
			zap.String("status", reply.Status),
			zap.String("stage", AllStages[next.StepIndex()].String()),
		)
	}

	if stage, failed := next.Failed(); failed {
		if _, wasFailed := prev.Failed(); !wasFailed {
			c.logger.Error("deployment stage failed", zap.String("stage", stage.String()))
		}
	}

	c.inventory.MaybeFetch(ctx, next)

	if next.IsReady() && !prev.IsReady() {
		c.logger.Info("deployment ready")

		if c.nav != nil {
			c.nav.Navigate(ScreenDashboard)
		}
	}

	return next.IsReady()
}

// View is an immutable snapshot of the session for presentation.
type View struct {
	SessionID string
	Status    string

	Stages      []StageView
	Step        int
	Ready       bool
	Failed      bool
	FailedStage Stage
	Result      *BootstrapResult

	InventoryState    FlightState
	Devices           []Device
	AvailableRawBytes int64
	Catalog           []SolutionCandidate

	Selected    *SolutionCandidate
	AcceptState FlightState

	Exports      []string
	ExportsState FlightState
}

// View snapshots the session.
func (c *Controller) View() View {
	c.mu.RLock()
	stages := c.stages
	status := c.lastStatus

	var result *BootstrapResult
	if c.result != nil {
		r := *c.result
		result = &r
	}
	c.mu.RUnlock()

	failedStage, failed := stages.Failed()

	view := View{
		SessionID:         c.sessionID,
		Status:            status,
		Stages:            stages.List(),
		Step:              stages.StepIndex(),
		Ready:             stages.IsReady(),
		Failed:            failed,
		FailedStage:       failedStage,
		Result:            result,
		InventoryState:    c.inventory.State(),
		Devices:           c.inventory.Devices(),
		AvailableRawBytes: c.inventory.AvailableRawBytes(),
		Catalog:           c.inventory.Catalog(),
		AcceptState:       c.solutions.State(),
		Exports:           c.exports.Names(),
		ExportsState:      c.exports.State(),
	}

	if selected, ok := c.solutions.Selected(); ok {
		view.Selected = &selected
	}

	return view
}

// AwaitingSolution reports whether the backend waits for a solution the user has not accepted yet.
func (v View) AwaitingSolution() bool {
	return v.Stages[StageInventory].Waiting && !v.Stages[StageInventory].Ended && v.InventoryState == FlightDone && v.AcceptState != FlightDone && !v.Failed
}

// AwaitingExports reports whether the backend waits for exports that have not been confirmed yet.
func (v View) AwaitingExports() bool {
	return v.Stages[StageService].Waiting && !v.Stages[StageService].Ended && v.ExportsState != FlightDone && !v.Failed
}
