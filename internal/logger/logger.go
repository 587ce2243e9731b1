package logger

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const ginKey = "logger"

var log = zap.NewNop()

// Init builds the process logger. Production gets JSON output with ISO8601
// timestamps, everything else the colored development encoder.
func Init(env, level string) (*zap.Logger, error) {
	lvl := zapcore.InfoLevel
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = zapcore.InfoLevel
	}

	var cfg zap.Config
	if env == "production" {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	l, err := cfg.Build(zap.Fields(
		zap.String("service", "autoparts-api"),
		zap.String("environment", env),
	))
	if err != nil {
		return nil, err
	}
	Set(l)
	return l, nil
}

// Set replaces the global logger.
func Set(l *zap.Logger) {
	log = l
	zap.ReplaceGlobals(l)
}

func Get() *zap.Logger {
	return log
}

// FromGin returns the request-scoped logger, falling back to the global one.
func FromGin(c *gin.Context) *zap.Logger {
	if v, ok := c.Get(ginKey); ok {
		if l, ok := v.(*zap.Logger); ok {
			return l
		}
	}
	return log
}

// ToGin attaches a request-scoped logger to the context.
func ToGin(c *gin.Context, l *zap.Logger) {
	c.Set(ginKey, l)
}
