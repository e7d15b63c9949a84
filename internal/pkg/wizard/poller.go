package wizard

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultPollInterval is the delay between the end of one fetch and the start of the next.
	DefaultPollInterval = 5 * time.Second
	// DefaultRequestTimeout bounds a single backend request.
	DefaultRequestTimeout = 10 * time.Second
)

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, d)
}

// repeater runs attempt, then schedules the next attempt interval after the
// previous one completed. At most one attempt runs at a time. It stops when
// attempt reports completion, on Stop, or when the start context is done.
type repeater struct {
	scheduler Scheduler
	interval  time.Duration
	attempt   func(ctx context.Context) bool

	mu          sync.Mutex
	running     bool
	finished    bool
	completed   bool
	ctx         context.Context
	cancel      context.CancelFunc
	cancelTimer CancelFunc
	done        chan struct{}
}

func newRepeater(scheduler Scheduler, interval time.Duration, attempt func(ctx context.Context) bool) *repeater {
	return &repeater{
		scheduler: scheduler,
		interval:  interval,
		attempt:   attempt,
		done:      make(chan struct{}),
	}
}

// Start schedules the first attempt immediately. It is a no-op when the loop
// is running or has finished.
func (r *repeater) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running || r.finished {
		return
	}

	r.ctx, r.cancel = context.WithCancel(ctx)
	r.running = true
	r.cancelTimer = r.scheduler.AfterFunc(0, r.tick)
}

// Stop cancels the pending timer and the in-flight attempt.
func (r *repeater) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running {
		return
	}

	r.finishLocked(false)
}

// Done is closed once the loop has stopped.
func (r *repeater) Done() <-chan struct{} {
	return r.done
}

// Running reports whether the loop is scheduled or attempting.
func (r *repeater) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.running
}

// ErrStopped is returned by Run when the loop was stopped before completing.
var ErrStopped = errors.New("polling stopped before completion")

// Run starts the loop and blocks until it completes or ctx is done. It returns
// nil on completion, the context error when ctx is done and ErrStopped when
// the loop was stopped.
func (r *repeater) Run(ctx context.Context) error {
	r.Start(ctx)

	select {
	case <-r.done:
	case <-ctx.Done():
		r.Stop()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.completed {
		return nil
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	return ErrStopped
}

func (r *repeater) tick() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()

		return
	}

	ctx := r.ctx
	r.cancelTimer = nil
	r.mu.Unlock()

	if ctx.Err() != nil {
		r.Stop()

		return
	}

	complete := r.attempt(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running {
		return
	}

	if complete {
		r.finishLocked(true)

		return
	}

	r.cancelTimer = r.scheduler.AfterFunc(r.interval, r.tick)
}

func (r *repeater) finishLocked(completed bool) {
	if r.cancelTimer != nil {
		r.cancelTimer()
		r.cancelTimer = nil
	}

	r.cancel()
	r.running = false
	r.finished = true
	r.completed = completed
	close(r.done)
}

// StatusHandler consumes a status reply. It returns true once the session is
// terminal and polling should stop.
type StatusHandler func(ctx context.Context, reply StatusReply) bool

// StatusPoller periodically fetches the backend status and hands every
// successful reply to a handler. Failed fetches are logged and retried after
// the regular interval.
type StatusPoller struct {
	*repeater

	api            API
	handler        StatusHandler
	requestTimeout time.Duration
	logger         *zap.Logger
	metrics        *Metrics
}

// PollerOption configures a StatusPoller or a UsageMonitor.
type PollerOption func(*pollerOptions)

type pollerOptions struct {
	interval       time.Duration
	requestTimeout time.Duration
	logger         *zap.Logger
	metrics        *Metrics
}

func WithInterval(d time.Duration) PollerOption {
	return func(o *pollerOptions) { o.interval = d }
}

func WithRequestTimeout(d time.Duration) PollerOption {
	return func(o *pollerOptions) { o.requestTimeout = d }
}

func WithPollerLogger(logger *zap.Logger) PollerOption {
	return func(o *pollerOptions) { o.logger = logger }
}

func WithPollerMetrics(metrics *Metrics) PollerOption {
	return func(o *pollerOptions) { o.metrics = metrics }
}

func buildPollerOptions(opts []PollerOption) pollerOptions {
	o := pollerOptions{
		interval:       DefaultPollInterval,
		requestTimeout: DefaultRequestTimeout,
	}

	for _, opt := range opts {
		opt(&o)
	}

	if o.logger == nil {
		o.logger = zap.NewNop()
	}

	return o
}

// NewStatusPoller creates a poller. It does nothing until Start or Run.
func NewStatusPoller(api API, scheduler Scheduler, handler StatusHandler, opts ...PollerOption) *StatusPoller {
	o := buildPollerOptions(opts)

	p := &StatusPoller{
		api:            api,
		handler:        handler,
		requestTimeout: o.requestTimeout,
		logger:         o.logger,
		metrics:        o.metrics,
	}
	p.repeater = newRepeater(scheduler, o.interval, p.poll)

	return p
}

func (p *StatusPoller) poll(ctx context.Context) bool {
	reqCtx, cancel := withTimeout(ctx, p.requestTimeout)
	reply, err := p.api.Status(reqCtx)
	cancel()

	p.metrics.recordPoll("status", err)

	if err != nil {
		if ctx.Err() == nil {
			p.logger.Warn("status fetch failed", zap.Error(err))
		}

		return false
	}

	return p.handler(ctx, reply)
}
