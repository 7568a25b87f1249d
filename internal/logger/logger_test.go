package logger

import (
	"testing"

	"github.com/Satheshwaran26/rentr/internal/config"
	"github.com/Satheshwaran26/rentr/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger_Level(t *testing.T) {
	log, err := NewLogger(
		&config.LoggingConfig{Level: "warn", Format: "json"},
		&config.AppConfig{Name: "rentr", Environment: "production"},
	)
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, log.Core().Enabled(zapcore.WarnLevel))
}

func TestParseLevel_FallsBackToInfo(t *testing.T) {
	assert.Equal(t, zapcore.InfoLevel, parseLevel("chatty"))
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
}

func TestBaseConfig(t *testing.T) {
	assert.Equal(t, "console", baseConfig("console", "development").Encoding)
	assert.Equal(t, "json", baseConfig("json", "development").Encoding)
	assert.Equal(t, "json", baseConfig("console", "production").Encoding)
	assert.Equal(t, "timestamp", baseConfig("json", "production").EncoderConfig.TimeKey)
}

func TestContextFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	base := zap.New(core)

	id := uuid.New()
	actorID := uuid.New()
	WithActor(WithWorkOrder(base, id, domain.WorkOrderStatusPublished), domain.Actor{ID: actorID, Role: domain.RoleAgent}).
		Info("published")
	WithActor(base, domain.SystemActor()).Info("breached")

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)

	fields := entries[0].ContextMap()
	assert.Equal(t, id.String(), fields["work_order_id"])
	assert.Equal(t, string(domain.WorkOrderStatusPublished), fields["status"])
	assert.Equal(t, actorID.String(), fields["actor_id"])
	assert.Equal(t, "agent", fields["actor_role"])

	system := entries[1].ContextMap()
	assert.Equal(t, "system", system["actor_role"])
	assert.NotContains(t, system, "actor_id")
}
