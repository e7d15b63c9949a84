package wizard

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// OperationChooser starts a new deployment from the choose-operation screen.
type OperationChooser struct {
	api            API
	nav            Navigator
	requestTimeout time.Duration
	logger         *zap.Logger
	metrics        *Metrics

	mu      sync.Mutex
	waiting bool
}

func NewOperationChooser(api API, nav Navigator, requestTimeout time.Duration, logger *zap.Logger, metrics *Metrics) *OperationChooser {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &OperationChooser{
		api:            api,
		nav:            nav,
		requestTimeout: requestTimeout,
		logger:         logger,
		metrics:        metrics,
	}
}

// Waiting reports whether a bootstrap request is running.
func (o *OperationChooser) Waiting() bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.waiting
}

// ChooseBootstrap asks the backend to start bootstrapping and navigates to the
// wizard screen. It is a no-op while a request is running. On failure the
// guard is cleared so the user can try again.
func (o *OperationChooser) ChooseBootstrap(ctx context.Context) error {
	o.mu.Lock()
	if o.waiting {
		o.mu.Unlock()

		return nil
	}

	o.waiting = true
	o.mu.Unlock()

	reqCtx, cancel := withTimeout(ctx, o.requestTimeout)
	err := o.api.Bootstrap(reqCtx)
	cancel()

	o.metrics.recordRequest("bootstrap", err)

	if err != nil {
		o.mu.Lock()
		o.waiting = false
		o.mu.Unlock()

		o.logger.Warn("bootstrap request failed", zap.Error(err))

		return NewNetworkErrorWithCause(CodeRequestFailed, "starting bootstrap failed", "", err)
	}

	o.logger.Info("bootstrap started")

	if o.nav != nil {
		o.nav.Navigate(ScreenWizard)
	}

	return nil
}
