package profiler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestTick_LogsOncePerInterval(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	p := NewProfiler(zap.New(core))
	start := p.lastTime

	for i := 1; i < 60; i++ {
		assert.False(t, p.tickAt(start.Add(time.Duration(i)*time.Second/60)))
	}
	require.True(t, p.tickAt(start.Add(time.Second)))
	require.Equal(t, 1, logs.Len())

	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "60", fields["fps"])
	assert.Contains(t, fields, "heap")
	assert.Contains(t, fields, "sys")
	assert.Equal(t, 0, p.frameCount, "the window restarts after logging")
}

func TestSetInterval(t *testing.T) {
	p := NewProfiler(nil)
	p.SetInterval(0)
	assert.Equal(t, time.Second, p.updateInterval)
	p.SetInterval(5 * time.Second)
	assert.False(t, p.tickAt(p.lastTime.Add(2*time.Second)))
}
