package logging

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Logger wraps a zap sugared logger so call sites stay on the
// keys-and-values style without importing zap everywhere.
type Logger struct {
	*zap.SugaredLogger
}

func New(mode string) (*Logger, error) {
	var cfg zap.Config
	switch strings.ToLower(mode) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
	}
	zapLogger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return &Logger{SugaredLogger: zapLogger.Sugar()}, nil
}

// NewNop returns a logger that discards everything. Used in tests.
func NewNop() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar()}
}

func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	return &Logger{SugaredLogger: l.SugaredLogger.With(keysAndValues...)}
}

func (l *Logger) Sync() {
	_ = l.SugaredLogger.Sync()
}

// Elapsed formats the time since start as M'SS", the run-clock tag
// attached to invoker and pipeline log lines.
func Elapsed(start time.Time) string {
	elapsed := time.Since(start)
	minutes := int(elapsed.Minutes())
	seconds := int(elapsed.Seconds()) % 60
	return fmt.Sprintf("%d'%02d\"", minutes, seconds)
}
