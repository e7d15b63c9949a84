package wizard

import (
	"go.uber.org/zap"
)

// Classifier turns raw status strings into wizard state.
//
// Tokens the state machine rejects are logged and ignored, so a backend that
// grows new states never breaks a running session.
type Classifier struct {
	logger  *zap.Logger
	metrics *Metrics
}

// NewClassifier creates a classifier. Both arguments may be nil.
func NewClassifier(logger *zap.Logger, metrics *Metrics) *Classifier {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Classifier{
		logger:  logger,
		metrics: metrics,
	}
}

// Classify returns current advanced by rawStatus, or current unchanged when the
// status is unknown, stale or arrives after an error.
func (c *Classifier) Classify(current Stages, rawStatus string) Stages {
	tok, err := ParseStatus(rawStatus)
	if err != nil {
		c.logger.Warn("ignoring unknown status", zap.String("status", rawStatus), zap.Error(err))
		c.metrics.recordStatus("unknown")

		return current
	}

	next, err := current.Apply(tok)
	if err != nil {
		c.logger.Debug("ignoring status", zap.String("status", rawStatus), zap.Error(err))
		c.metrics.recordStatus("ignored")

		return current
	}

	c.metrics.recordStatus("applied")

	return next
}

var defaultClassifier = NewClassifier(nil, nil)

// Classify classifies rawStatus without logging.
func Classify(current Stages, rawStatus string) Stages {
	return defaultClassifier.Classify(current, rawStatus)
}
