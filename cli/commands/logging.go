package commands

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/petal-labs/coulomb/core"
)

func newLogger(out io.Writer, level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	switch strings.ToLower(level) {
	case "debug":
		logger.SetLevel(logrus.DebugLevel)
	case "warn":
		logger.SetLevel(logrus.WarnLevel)
	case "error":
		logger.SetLevel(logrus.ErrorLevel)
	default:
		logger.SetLevel(logrus.InfoLevel)
	}
	return logger
}

// LogrusHook forwards solver diagnostics to a logrus logger with
// structured fields.
type LogrusHook struct {
	logger logrus.FieldLogger
}

// NewLogrusHook creates a DiagnosticsHook writing to logger.
func NewLogrusHook(logger logrus.FieldLogger) *LogrusHook {
	return &LogrusHook{logger: logger}
}

// OnAdvisory logs the advisory at the level matching its verbosity.
func (h *LogrusHook) OnAdvisory(a core.Advisory) {
	entry := h.logger.WithFields(logrus.Fields{
		"kind": string(a.Kind),
		"x":    formatX(a.X),
		"l":    a.L,
	})
	switch a.Level {
	case core.VerbosityWarn:
		entry.Warn(a.Message)
	case core.VerbosityInfo:
		entry.Info(a.Message)
	default:
		entry.Debug(a.Message)
	}
}

// OnEvaluation logs failures, and every evaluation at debug level.
func (h *LogrusHook) OnEvaluation(e core.EvaluationEvent) {
	entry := h.logger.WithFields(logrus.Fields{
		"x":         formatX(e.X),
		"eta":       e.Eta,
		"l":         e.Range.String(),
		"cf1":       e.CF1Iterations,
		"cf2":       e.CF2Iterations,
		"converged": e.Converged,
		"duration":  e.Duration(),
	})
	if e.Err != nil {
		entry.WithError(e.Err).Error("evaluation failed")
		return
	}
	entry.Debug("evaluation done")
}

var _ core.DiagnosticsHook = (*LogrusHook)(nil)
