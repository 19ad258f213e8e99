package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the process-wide logger. It is a no-op until InitLogger runs.
var Log *zap.Logger = zap.NewNop()

// InitLogger builds the global logger: colored console output in dev/debug, JSON otherwise.
func InitLogger(env string, debug bool) error {
	var cfg zap.Config
	if debug || env == "dev" {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "ts"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	l, err := cfg.Build(zap.AddCaller())
	if err != nil {
		return err
	}
	Log = l.With(zap.String("env", env))
	zap.ReplaceGlobals(Log)
	return nil
}

// Sync flushes buffered entries; call before exit.
func Sync() {
	_ = Log.Sync()
}
