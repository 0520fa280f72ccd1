package cmd

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEventBus(t *testing.T) {
	bus, err := NewEventBus("gochannel", nil, slog.Default())
	require.NoError(t, err)
	assert.NoError(t, bus.Close())

	_, err = NewEventBus("kafka", nil, slog.Default())
	assert.Error(t, err)

	_, err = NewEventBus("rabbitmq", nil, slog.Default())
	assert.Error(t, err)
}

func TestNewRegistry(t *testing.T) {
	reg, err := NewRegistry(slog.Default(), "")
	require.NoError(t, err)
	assert.Len(t, reg.Available(), 7)

	reg, err = NewRegistry(slog.Default(), t.TempDir())
	require.NoError(t, err)
	assert.Len(t, reg.Available(), 7)
}
