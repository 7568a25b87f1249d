package logger

import (
	"fmt"

	"github.com/Satheshwaran26/rentr/internal/config"
	"github.com/Satheshwaran26/rentr/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the process logger. Production and "json" format get the
// JSON encoder with ISO8601 timestamps; everything else gets colored console output.
func NewLogger(cfg *config.LoggingConfig, appCfg *config.AppConfig) (*zap.Logger, error) {
	zapCfg := baseConfig(cfg.Format, appCfg.Environment)
	zapCfg.Level = zap.NewAtomicLevelAt(parseLevel(cfg.Level))
	zapCfg.InitialFields = map[string]interface{}{
		"app":         appCfg.Name,
		"environment": appCfg.Environment,
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger, nil
}

func baseConfig(format, environment string) zap.Config {
	if format != "json" && environment != "production" {
		c := zap.NewDevelopmentConfig()
		c.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return c
	}
	c := zap.NewProductionConfig()
	c.EncoderConfig.TimeKey = "timestamp"
	c.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return c
}

// parseLevel falls back to info on unknown levels
func parseLevel(s string) zapcore.Level {
	level, err := zapcore.ParseLevel(s)
	if err != nil {
		return zapcore.InfoLevel
	}
	return level
}

// WithActor adds the acting user to logger
func WithActor(logger *zap.Logger, actor domain.Actor) *zap.Logger {
	fields := []zap.Field{zap.String("actor_role", string(actor.Role))}
	if actor.ID != uuid.Nil {
		fields = append(fields, zap.String("actor_id", actor.ID.String()))
	}
	return logger.With(fields...)
}

// WithWorkOrder adds work order context to logger
func WithWorkOrder(logger *zap.Logger, id uuid.UUID, status domain.WorkOrderStatus) *zap.Logger {
	return logger.With(
		zap.String("work_order_id", id.String()),
		zap.String("status", string(status)),
	)
}
