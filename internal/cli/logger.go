package cli

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// demoLogger wraps zap for verbose debug output with per-demo context.
type demoLogger struct {
	sugared *zap.SugaredLogger
}

func newDemoLogger(globals *Globals) *demoLogger {
	if globals == nil || !globals.Verbose || globals.Stderr == nil {
		return &demoLogger{}
	}
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encCfg),
		zapcore.AddSync(globals.Stderr),
		zap.DebugLevel,
	)
	return &demoLogger{sugared: zap.New(core).Sugar()}
}

// With returns a logger that tags every entry with the demo file.
func (l *demoLogger) With(file string) *demoLogger {
	if l.sugared == nil {
		return l
	}
	return &demoLogger{sugared: l.sugared.With("file", file)}
}

func (l *demoLogger) Debug(format string, args ...interface{}) {
	if l.sugared == nil {
		return
	}
	l.sugared.Debugf(format, args...)
}

func (l *demoLogger) Sync() {
	if l.sugared != nil {
		_ = l.sugared.Sync()
	}
}
