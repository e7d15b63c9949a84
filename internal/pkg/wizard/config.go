package wizard

import (
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"
)

// Config holds the settings of a wizard session.
type Config struct {
	PollInterval   time.Duration
	UsageInterval  time.Duration
	RequestTimeout time.Duration

	Logger  *zap.Logger
	Metrics *Metrics
	Clock   clock.Clock
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() *Config {
	return &Config{
		PollInterval:   DefaultPollInterval,
		UsageInterval:  DefaultPollInterval,
		RequestTimeout: DefaultRequestTimeout,
	}
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var result *multierror.Error

	if c.PollInterval <= 0 {
		result = multierror.Append(result, NewConfigurationError(
			CodeInvalidInterval,
			"poll interval must be positive",
			fmt.Sprintf("got %s", c.PollInterval),
		))
	}

	if c.UsageInterval <= 0 {
		result = multierror.Append(result, NewConfigurationError(
			CodeInvalidInterval,
			"usage interval must be positive",
			fmt.Sprintf("got %s", c.UsageInterval),
		))
	}

	if c.RequestTimeout < 0 {
		result = multierror.Append(result, NewConfigurationError(
			CodeInvalidTimeout,
			"request timeout cannot be negative",
			fmt.Sprintf("got %s", c.RequestTimeout),
		))
	}

	return result.ErrorOrNil()
}

// Builder assembles a Session from a Config.
type Builder struct {
	config *Config
}

func NewBuilder() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

func (b *Builder) WithPollInterval(d time.Duration) *Builder {
	b.config.PollInterval = d
	return b
}

func (b *Builder) WithUsageInterval(d time.Duration) *Builder {
	b.config.UsageInterval = d
	return b
}

func (b *Builder) WithRequestTimeout(d time.Duration) *Builder {
	b.config.RequestTimeout = d
	return b
}

func (b *Builder) WithLogger(logger *zap.Logger) *Builder {
	b.config.Logger = logger
	return b
}

func (b *Builder) WithMetrics(metrics *Metrics) *Builder {
	b.config.Metrics = metrics
	return b
}

// WithClock replaces the wall clock, mostly for tests.
func (b *Builder) WithClock(c clock.Clock) *Builder {
	b.config.Clock = c
	return b
}

// Config returns the configuration being built.
func (b *Builder) Config() *Config {
	return b.config
}

// Session is every component of one wizard session.
type Session struct {
	Controller *Controller
	Chooser    *OperationChooser
	Usage      *UsageMonitor

	config *Config
}

func (s *Session) Config() *Config {
	return s.config
}

// Stop halts every background loop of the session.
func (s *Session) Stop() {
	s.Controller.Stop()
	s.Usage.Stop()
}

// Build validates the configuration and wires the session components.
func (b *Builder) Build(api API, nav Navigator) (*Session, error) {
	if api == nil {
		return nil, NewConfigurationError(CodeMissingAPI, "backend API is required", "")
	}

	if err := b.config.Validate(); err != nil {
		return nil, err
	}

	cfg := *b.config
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	scheduler := NewClockScheduler(cfg.Clock)

	controller := NewController(api, nav, scheduler, &cfg)

	return &Session{
		Controller: controller,
		Chooser: NewOperationChooser(api, nav, cfg.RequestTimeout,
			cfg.Logger.With(zap.String("component", "chooser")), cfg.Metrics),
		Usage: NewUsageMonitor(api, scheduler,
			WithInterval(cfg.UsageInterval),
			WithRequestTimeout(cfg.RequestTimeout),
			WithPollerLogger(cfg.Logger.With(zap.String("component", "usage"))),
			WithPollerMetrics(cfg.Metrics),
		),
		config: &cfg,
	}, nil
}
