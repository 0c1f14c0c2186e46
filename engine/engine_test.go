package engine

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-player/engine/camera"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHeadlessRunTicksUntilQuit(t *testing.T) {
	e := NewEngine(WithLogger(zap.NewNop()), WithTickRate(500), WithProfiling(true))

	var ticks atomic.Int32
	var badDelta atomic.Bool
	e.SetTickCallback(func(dt float32) {
		if dt < 0 {
			badDelta.Store(true)
		}
		ticks.Add(1)
	})

	done := make(chan struct{})
	go func() {
		e.Run()
		close(done)
	}()

	assert.Eventually(t, func() bool { return ticks.Load() >= 5 }, 2*time.Second, time.Millisecond)
	e.SetTickRate(1000)
	e.Quit()
	e.Quit()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Quit")
	}
	assert.False(t, badDelta.Load())
}

func TestTickPanicStopsEngine(t *testing.T) {
	e := NewEngine(WithLogger(zap.NewNop()), WithTickRate(1000))
	e.SetTickCallback(func(float32) { panic("boom") })

	done := make(chan struct{})
	go func() {
		e.Run()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("engine kept running after a tick panic")
	}
}

func TestTickDuration(t *testing.T) {
	assert.Equal(t, time.Second/60, tickDuration(0))
	assert.Equal(t, time.Second/60, tickDuration(-5))
	assert.Equal(t, 4*time.Millisecond, tickDuration(250))
}

func TestSetTickRateBeforeRun(t *testing.T) {
	e := NewEngine(WithLogger(zap.NewNop())).(*engine)
	e.SetTickRate(120)
	assert.Equal(t, time.Second/120, e.tickRate())
	assert.Nil(t, e.Window())
}

func TestCameraWithoutWindowIsUntouched(t *testing.T) {
	cam := camera.NewCamera(camera.WithAspect(2))
	e := NewEngine(WithLogger(zap.NewNop()), WithCamera(cam))
	require.NotNil(t, e)
	assert.Equal(t, float32(2), cam.Aspect())
}
