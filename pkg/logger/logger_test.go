package logger

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func resetLogger(t *testing.T) {
	t.Helper()
	reset := func() {
		log = nil
		once = sync.Once{}
		atom = zap.NewAtomicLevel()
	}
	reset()
	t.Cleanup(reset)
}

func observe(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	restore := SetLogger(zap.New(core))
	t.Cleanup(restore)
	return logs
}

func TestGetLogger_NopBeforeInit(t *testing.T) {
	resetLogger(t)
	require.NotNil(t, GetLogger())
	Info(context.Background(), "dropped")
	assert.Error(t, SetLevel("info"))
}

func TestWithContext_AttachesRequestAndUser(t *testing.T) {
	resetLogger(t)
	logs := observe(t)

	ctx := context.WithValue(context.Background(), RequestIDKey, "req-42")
	ctx = context.WithValue(ctx, UserIDKey, "patient-7")
	Warn(ctx, "otp cooldown unavailable")

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "req-42", fields["request_id"])
	assert.Equal(t, "patient-7", fields["user_id"])
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
}

func TestWithContext_PlainStringKeyAndNil(t *testing.T) {
	resetLogger(t)
	logs := observe(t)

	ctx := context.WithValue(context.Background(), "request_id", "gin-req") //nolint:staticcheck
	Info(ctx, "from gin context")
	Error(nil, "no context") //nolint:staticcheck

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "gin-req", entries[0].ContextMap()["request_id"])
	assert.Empty(t, entries[1].ContextMap())
}

func TestLogRequest_LevelFollowsStatus(t *testing.T) {
	resetLogger(t)
	logs := observe(t)

	for _, status := range []int{200, 404, 503} {
		LogRequest(context.Background(), RequestLog{
			Method: "GET", Path: "/api/v1/appointments", Route: "/api/v1/appointments",
			Status: status, Latency: 10 * time.Millisecond, ClientIP: "127.0.0.1", Bytes: 12,
		})
	}

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
	assert.EqualValues(t, 503, entries[2].ContextMap()["status"])
	assert.Equal(t, "/api/v1/appointments", entries[2].ContextMap()["route"])
}

func TestInit_ProductionAndSetLevel(t *testing.T) {
	resetLogger(t)
	Init("production")
	require.NotNil(t, GetLogger())
	assert.True(t, GetLogger().Core().Enabled(zapcore.InfoLevel))

	require.NoError(t, SetLevel("error"))
	assert.False(t, GetLogger().Core().Enabled(zapcore.WarnLevel))
	assert.Error(t, SetLevel("chatty"))
	Sync()
}

func TestInit_DevelopmentLogsDebug(t *testing.T) {
	resetLogger(t)
	Init("development")
	assert.True(t, GetLogger().Core().Enabled(zapcore.DebugLevel))
	Debug(context.Background(), "debug")
}

func TestInit_PanicsWhenBuildFails(t *testing.T) {
	resetLogger(t)
	origBuild := buildLogger
	t.Cleanup(func() { buildLogger = origBuild })
	buildLogger = func(zap.Config) (*zap.Logger, error) {
		return nil, errors.New("build failed")
	}

	assert.Panics(t, func() { Init("production") })
}
