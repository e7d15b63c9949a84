// Copyright Cozystack Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cozystack/rlyehctl/internal/pkg/wizard"
	"github.com/cozystack/rlyehctl/pkg/client"
)

// ConfigFilename is the project configuration file looked up in the project root.
const ConfigFilename = "rlyeh.yaml"

// DefaultEndpoint is the backend address used when neither flags nor config set one.
const DefaultEndpoint = "http://localhost:1337"

// UserAgent is sent with every backend request.
var UserAgent = "rlyehctl"

// GlobalArgs is the common arguments for the root command.
var GlobalArgs struct {
	Endpoint    string
	Interval    time.Duration
	LogLevel    string
	MetricsAddr string
}

var Config struct {
	RootDir         string
	RootDirExplicit bool // true if --root was explicitly set
	GlobalOptions   struct {
		Endpoint string `yaml:"endpoint"`
	} `yaml:"globalOptions"`
	PollOptions struct {
		Interval               string        `yaml:"interval"`
		RequestTimeout         string        `yaml:"requestTimeout"`
		IntervalDuration       time.Duration `yaml:"-"`
		RequestTimeoutDuration time.Duration `yaml:"-"`
	} `yaml:"pollOptions"`
	ClientOptions struct {
		RateLimit float64 `yaml:"rateLimit"`
		Burst     int     `yaml:"burst"`
	} `yaml:"clientOptions"`
	LogOptions struct {
		Level string `yaml:"level"`
		File  string `yaml:"file"`
	} `yaml:"logOptions"`
}

// ApplyConfigDefaults parses the duration settings and fills in defaults.
func ApplyConfigDefaults() error {
	Config.PollOptions.IntervalDuration = wizard.DefaultPollInterval
	if Config.PollOptions.Interval != "" {
		d, err := time.ParseDuration(Config.PollOptions.Interval)
		if err != nil {
			return fmt.Errorf("invalid pollOptions.interval: %w", err)
		}

		Config.PollOptions.IntervalDuration = d
	}

	Config.PollOptions.RequestTimeoutDuration = wizard.DefaultRequestTimeout
	if Config.PollOptions.RequestTimeout != "" {
		d, err := time.ParseDuration(Config.PollOptions.RequestTimeout)
		if err != nil {
			return fmt.Errorf("invalid pollOptions.requestTimeout: %w", err)
		}

		Config.PollOptions.RequestTimeoutDuration = d
	}

	if Config.ClientOptions.Burst <= 0 {
		Config.ClientOptions.Burst = 1
	}

	return nil
}

// endpoint resolves the backend address: flag, then config, then default.
func endpoint() string {
	switch {
	case GlobalArgs.Endpoint != "":
		return GlobalArgs.Endpoint
	case Config.GlobalOptions.Endpoint != "":
		return Config.GlobalOptions.Endpoint
	default:
		return DefaultEndpoint
	}
}

// pollInterval resolves the status poll interval: flag, then config.
func pollInterval() time.Duration {
	if GlobalArgs.Interval > 0 {
		return GlobalArgs.Interval
	}

	if Config.PollOptions.IntervalDuration > 0 {
		return Config.PollOptions.IntervalDuration
	}

	return wizard.DefaultPollInterval
}

func requestTimeout() time.Duration {
	if Config.PollOptions.RequestTimeoutDuration > 0 {
		return Config.PollOptions.RequestTimeoutDuration
	}

	return wizard.DefaultRequestTimeout
}

// NewLogger builds the command logger. An empty file logs to stderr.
func NewLogger(level, file string) (*zap.Logger, error) {
	if level == "" {
		level = "info"
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	if lvl == zapcore.DebugLevel {
		cfg = zap.NewDevelopmentConfig()
	}

	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	if file != "" {
		cfg.OutputPaths = []string{file}
		cfg.ErrorOutputPaths = []string{file}
	}

	return cfg.Build()
}

// commandLogger builds the logger from flags and config. A non-empty
// fallbackFile is used when no log file is configured.
func commandLogger(fallbackFile string) (*zap.Logger, error) {
	level := GlobalArgs.LogLevel
	if level == "" {
		level = Config.LogOptions.Level
	}

	file := Config.LogOptions.File
	if file == "" {
		file = fallbackFile
	}

	return NewLogger(level, file)
}

// newAPI builds the typed backend API over the HTTP client.
func newAPI(logger *zap.Logger) (wizard.API, error) {
	opts := []client.Option{
		client.WithTimeout(requestTimeout()),
		client.WithLogger(logger),
		client.WithUserAgent(UserAgent),
	}

	if Config.ClientOptions.RateLimit > 0 {
		opts = append(opts, client.WithRateLimit(Config.ClientOptions.RateLimit, Config.ClientOptions.Burst))
	}

	c, err := client.New(endpoint(), opts...)
	if err != nil {
		return nil, err
	}

	return wizard.NewAPI(c), nil
}

// sessionBuilder returns a wizard builder configured from flags and config.
func sessionBuilder(logger *zap.Logger, reg prometheus.Registerer) *wizard.Builder {
	return wizard.NewBuilder().
		WithPollInterval(pollInterval()).
		WithUsageInterval(pollInterval()).
		WithRequestTimeout(requestTimeout()).
		WithLogger(logger).
		WithMetrics(wizard.NewMetrics(reg))
}

// WithClient wraps common code to initialize the backend API and provide a
// context cancelled on interrupt.
func WithClient(action func(context.Context, wizard.API, *zap.Logger) error) error {
	return withClientLogging("", action)
}

func withClientLogging(logFile string, action func(context.Context, wizard.API, *zap.Logger) error) error {
	logger, err := commandLogger(logFile)
	if err != nil {
		return err
	}

	defer logger.Sync() //nolint:errcheck

	api, err := newAPI(logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return action(ctx, api, logger.With(zap.String("endpoint", endpoint())))
}

// Commands is a list of commands published by the package.
var Commands []*cobra.Command

func addCommand(cmd *cobra.Command) {
	Commands = append(Commands, cmd)
}
