package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"truccoanalytics/internal/shared/testutil"
)

type staticSessionCounter int

func (c staticSessionCounter) Count() int { return int(c) }

type staticClientCounter int

func (c staticClientCounter) ClientCount() int { return int(c) }

func TestHealthService_Health(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	hs := NewHealthService("1.2.3", staticSessionCounter(3), staticClientCounter(2), logger)

	status := hs.Health(context.Background())

	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, "1.2.3", status.Version)
	assert.False(t, status.Timestamp.IsZero())
	require.Contains(t, status.Services, "sessions")
	require.Contains(t, status.Services, "websocket")

	sessions := status.Services["sessions"].(map[string]any)
	assert.Equal(t, 3, sessions["active"])

	clients := status.Services["websocket"].(map[string]any)
	assert.Equal(t, 2, clients["clients"])
}

func TestHealthService_Health_NoOptionalDependencies(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	hs := NewHealthService("dev", nil, nil, logger)

	status := hs.Health(context.Background())

	assert.Equal(t, "healthy", status.Status)
	assert.NotContains(t, status.Services, "sessions")
	assert.NotContains(t, status.Services, "websocket")
}
