package wizard

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// SolutionSelector holds the chosen redundancy strategy and submits it once.
type SolutionSelector struct {
	api            API
	catalog        CatalogSource
	requestTimeout time.Duration
	logger         *zap.Logger
	metrics        *Metrics

	mu           sync.Mutex
	hasSelection bool
	selected     *SolutionCandidate
	state        FlightState
}

// NewSolutionSelector creates a selector choosing from catalog.
func NewSolutionSelector(api API, catalog CatalogSource, requestTimeout time.Duration, logger *zap.Logger, metrics *Metrics) *SolutionSelector {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &SolutionSelector{
		api:            api,
		catalog:        catalog,
		requestTimeout: requestTimeout,
		logger:         logger,
		metrics:        metrics,
	}
}

// Select records the candidate called name. Empty, unknown and infeasible
// names are ignored, and the selection is frozen while it is being submitted
// or once it was accepted. The return value reports whether it changed.
func (s *SolutionSelector) Select(name string) bool {
	candidate, err := ValidateSolutionName(name, s.catalog.Catalog())
	if err != nil {
		s.logger.Debug("ignoring solution selection", zap.String("solution", name), zap.Error(err))

		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != FlightIdle {
		s.logger.Debug("ignoring solution selection", zap.String("solution", name), zap.Stringer("state", s.state))

		return false
	}

	s.selected = &candidate
	s.hasSelection = true

	return true
}

// Selected returns a copy of the current selection.
func (s *SolutionSelector) Selected() (SolutionCandidate, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.selected == nil {
		return SolutionCandidate{}, false
	}

	return *s.selected, true
}

// State is FlightInFlight while submitting and FlightDone once accepted.
func (s *SolutionSelector) State() FlightState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// Accept submits the selection. It is a no-op without a selection, while a
// submission is running or after the selection was accepted. The submitting
// state is cleared whatever the outcome; only success marks the selector
// accepted, so a failed submission can be retried.
func (s *SolutionSelector) Accept(ctx context.Context) error {
	s.mu.Lock()

	if !s.hasSelection {
		s.mu.Unlock()

		return nil
	}

	if s.selected == nil {
		s.mu.Unlock()
		panic(NewInternalError(CodeSelectionLost, "solution selection flag set without a selection", ""))
	}

	if s.state != FlightIdle {
		s.mu.Unlock()

		return nil
	}

	name := s.selected.Name
	s.state = FlightInFlight
	s.mu.Unlock()

	reqCtx, cancel := withTimeout(ctx, s.requestTimeout)
	err := s.api.AcceptSolution(reqCtx, name)
	cancel()

	s.metrics.recordRequest("accept_solution", err)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.state = FlightIdle
		s.logger.Warn("solution accept failed", zap.String("solution", name), zap.Error(err))

		return NewNetworkErrorWithCause(CodeRequestFailed, "accepting solution failed", name, err)
	}

	s.state = FlightDone
	s.logger.Info("solution accepted", zap.String("solution", name))

	return nil
}
