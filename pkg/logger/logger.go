package logger

import (
	"feed-api/pkg/appenv"

	"go.uber.org/zap"
)

var log = zap.NewNop()

// Init builds the process-wide logger. Production gets JSON output at info
// level, everything else the development console encoder.
func Init(env appenv.Env) error {
	var cfg zap.Config
	if env == appenv.Production {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	l, err := cfg.Build()
	if err != nil {
		return err
	}
	log = l.With(zap.String("service", "feed-api"))
	return nil
}

// L returns the current logger. It is a no-op logger until Init succeeds.
func L() *zap.Logger { return log }

func Info(msg string, fields ...zap.Field)  { log.Info(msg, fields...) }
func Warn(msg string, fields ...zap.Field)  { log.Warn(msg, fields...) }
func Error(msg string, fields ...zap.Field) { log.Error(msg, fields...) }
func Fatal(msg string, fields ...zap.Field) { log.Fatal(msg, fields...) }

// Sync flushes buffered entries.
func Sync() { _ = log.Sync() }
