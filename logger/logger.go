package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger writes structured entries tagged with a trace id and the emitting component.
type Logger struct {
	zl *zap.Logger
}

// New builds a JSON logger for production and a console logger otherwise.
func New(env, level string) (*Logger, error) {
	var cfg zap.Config
	if env == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	zl, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return &Logger{zl: zl}, nil
}

// FromZap wraps an existing zap logger, mostly for tests.
func FromZap(zl *zap.Logger) *Logger {
	return &Logger{zl: zl}
}

// Nop discards everything.
func Nop() *Logger {
	return &Logger{zl: zap.NewNop()}
}

func (l *Logger) Log(level zapcore.Level, traceID, msg string, fields map[string]any, component string, err error) {
	if l == nil || l.zl == nil {
		return
	}
	ce := l.zl.Check(level, msg)
	if ce == nil {
		return
	}

	zf := make([]zap.Field, 0, len(fields)+3)
	if traceID != "" {
		zf = append(zf, zap.String("traceID", traceID))
	}
	if component != "" {
		zf = append(zf, zap.String("component", component))
	}
	for k, v := range fields {
		zf = append(zf, zap.Any(k, v))
	}
	if err != nil {
		zf = append(zf, zap.Error(err))
	}
	ce.Write(zf...)
}

func (l *Logger) Sync() error {
	if l == nil || l.zl == nil {
		return nil
	}
	return l.zl.Sync()
}

// CronLogger adapts the logger to robfig/cron's Logger interface.
type CronLogger struct {
	L         *Logger
	Component string
}

func (c CronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.L.Log(zapcore.DebugLevel, "", msg, pairs(keysAndValues), c.Component, nil)
}

func (c CronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.L.Log(zapcore.ErrorLevel, "", msg, pairs(keysAndValues), c.Component, err)
}

func pairs(kv []interface{}) map[string]any {
	out := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		out[key] = kv[i+1]
	}
	return out
}
