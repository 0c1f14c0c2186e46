package window

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-player/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestWindow() *engineWindow {
	return newEngineWindow(WithLogger(zap.NewNop()))
}

func TestDefaultsAndOptions(t *testing.T) {
	w := newEngineWindow(WithLogger(zap.NewNop()), WithTitle("test"), WithWidth(800), WithHeight(0), WithSizeLimits(0, 100, 0, 0), WithRawMouseMotion(false))
	assert.Equal(t, "test", w.title)
	assert.Equal(t, 800, w.Width())
	assert.Equal(t, 720, w.Height())
	assert.Equal(t, 600, w.minWidth)
	assert.Equal(t, 100, w.minHeight)
	assert.False(t, w.rawMouse)
}

func TestCursorDeltas(t *testing.T) {
	w := newTestWindow()
	var deltas [][2]float32
	w.SetMouseDeltaCallback(func(dx, dy float32) { deltas = append(deltas, [2]float32{dx, dy}) })

	w.handleCursor(100, 100)
	w.handleCursor(110, 95)
	w.handleCursor(110, 95)
	w.handleCursor(90, 100)

	require.Len(t, deltas, 2)
	assert.Equal(t, [2]float32{10, -5}, deltas[0])
	assert.Equal(t, [2]float32{-20, 5}, deltas[1])
}

func TestKeyRouting(t *testing.T) {
	w := newTestWindow()
	var down, up []uint32
	w.SetKeyDownCallback(func(k uint32) { down = append(down, k) })
	w.SetKeyUpCallback(func(k uint32) { up = append(up, k) })

	w.handleKey(common.KeyW, true)
	w.handleKey(common.KeyW, true)
	w.handleKey(common.KeyW, false)
	assert.Equal(t, []uint32{common.KeyW, common.KeyW}, down)
	assert.Equal(t, []uint32{common.KeyW}, up)

	assert.NotPanics(t, func() { w.handleKey(common.KeyEsc, true) })
	assert.Len(t, down, 2, "escape is not forwarded")
}

func TestLockRequestWithoutPlatformWindowFails(t *testing.T) {
	w := newTestWindow()
	var errs []error
	var changes []bool
	w.SetLockErrorCallback(func(err error) { errs = append(errs, err) })
	w.SetLockChangeCallback(func(locked bool) { changes = append(changes, locked) })

	w.RequestLock()
	assert.False(t, w.IsLocked(), "requests apply on the loop thread")
	w.applyPendingLock()

	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], ErrNotInitialized)
	assert.False(t, w.IsLocked())
	assert.Empty(t, changes)
}

func TestUnlockTransitions(t *testing.T) {
	w := newTestWindow()
	var changes []bool
	w.SetLockChangeCallback(func(locked bool) { changes = append(changes, locked) })
	w.locked = true

	w.handleFocus(true)
	assert.True(t, w.IsLocked())

	w.handleFocus(false)
	assert.False(t, w.IsLocked())

	w.ReleaseLock()
	w.applyPendingLock()
	assert.Equal(t, []bool{false}, changes)

	w.locked = true
	w.handleKey(common.KeyEsc, true)
	assert.False(t, w.IsLocked())
	assert.Equal(t, []bool{false, false}, changes)
}

func TestLockResetsCursorTracking(t *testing.T) {
	w := newTestWindow()
	var n int
	w.SetMouseDeltaCallback(func(dx, dy float32) { n++ })
	w.locked = true

	w.handleCursor(0, 0)
	w.handleFocus(false)
	w.handleCursor(500, 500)
	assert.Zero(t, n, "the jump after a lock change is not reported")
}

func TestClickAndResize(t *testing.T) {
	w := newTestWindow()
	clicks := 0
	var size [2]int
	w.SetClickCallback(func() { clicks++ })
	w.SetResizeCallback(func(width, height int) { size = [2]int{width, height} })

	w.handleClick()
	w.handleResize(640, 480)
	assert.Equal(t, 1, clicks)
	assert.Equal(t, [2]int{640, 480}, size)
	assert.Equal(t, 640, w.Width())
	assert.False(t, w.IsRunning())
	assert.ErrorIs(t, w.Close(), ErrNotInitialized)
}
