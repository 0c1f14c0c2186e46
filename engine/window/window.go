package window

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oxy-player/common"
	"go.uber.org/zap"
)

var (
	// ErrNotInitialized is returned when a platform call is made before the window exists.
	ErrNotInitialized = errors.New("window is not initialized")
	// ErrNotFocused is returned when pointer lock is requested for an unfocused window.
	ErrNotFocused = errors.New("window is not focused")
)

// Window provides platform windowing, keyboard and relative mouse input, and pointer lock.
// Callbacks run on the thread that calls ProcessMessages.
type Window interface {
	// SetUpdateCallback sets the function called each message loop iteration.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called when the window is resized.
	//
	// Parameters:
	//   - callback: function receiving new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetKeyDownCallback sets the callback for key press and repeat events.
	//
	// Parameters:
	//   - callback: function receiving the virtual key code
	SetKeyDownCallback(callback func(keyCode uint32))

	// SetKeyUpCallback sets the callback for key release events.
	//
	// Parameters:
	//   - callback: function receiving the virtual key code
	SetKeyUpCallback(callback func(keyCode uint32))

	// SetMouseDeltaCallback sets the callback for relative mouse motion.
	//
	// Parameters:
	//   - callback: function receiving the motion since the previous cursor event, in pixels
	SetMouseDeltaCallback(callback func(dx, dy float32))

	// SetClickCallback sets the callback for left mouse button presses.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetClickCallback(callback func())

	// SetLockChangeCallback sets the callback fired when pointer lock is acquired or lost.
	//
	// Parameters:
	//   - callback: function receiving true when locked
	SetLockChangeCallback(callback func(locked bool))

	// SetLockErrorCallback sets the callback fired when a lock request cannot be honoured.
	//
	// Parameters:
	//   - callback: function receiving the failure
	SetLockErrorCallback(callback func(err error))

	// RequestLock asks for the cursor to be captured. The request is applied on the next
	// message loop iteration, so it is safe to call from any goroutine.
	RequestLock()

	// ReleaseLock asks for the cursor to be released. Safe to call from any goroutine.
	ReleaseLock()

	// IsLocked reports whether the cursor is currently captured.
	//
	// Returns:
	//   - bool: true while locked
	IsLocked() bool

	// IsRunning returns true if the window is still active.
	//
	// Returns:
	//   - bool: true if window is running, false if closed
	IsRunning() bool

	// Close closes the window and releases platform resources.
	//
	// Returns:
	//   - error: error if close operation fails
	Close() error

	// ProcessMessages runs the window message loop.
	// Blocks until the window is closed. Calls the update callback each iteration.
	ProcessMessages()

	// Width returns the current window client area width in pixels.
	//
	// Returns:
	//   - int: width in pixels
	Width() int

	// Height returns the current window client area height in pixels.
	//
	// Returns:
	//   - int: height in pixels
	Height() int
}

// engineWindow is the implementation of the Window interface.
// Holds window configuration, GLFW state, and event callbacks.
type engineWindow struct {
	mu *sync.Mutex

	// title is the window title displayed in the title bar.
	title string

	maxWidth  int
	maxHeight int
	minWidth  int
	minHeight int

	// width is the current framebuffer width in pixels.
	width int

	// height is the current framebuffer height in pixels.
	height int

	// rawMouse enables unaccelerated mouse motion while locked, where supported.
	rawMouse bool

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	logger *zap.Logger

	locked bool

	// pendingLock holds a lock request made since the last loop iteration.
	pendingLock *bool

	// cursor tracks the last cursor position for relative motion.
	cursor    [2]float64
	hasCursor bool

	onUpdate     func()
	onResize     func(width, height int)
	onKeyDown    func(keyCode uint32)
	onKeyUp      func(keyCode uint32)
	onMouseDelta func(dx, dy float32)
	onClick      func()
	onLockChange func(locked bool)
	onLockError  func(err error)
}

var _ Window = &engineWindow{}

// NewWindow creates a new Window with the specified options.
// Applies default values first, then each option in order.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the configured window
//   - error: if the platform window could not be created
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := newEngineWindow(options...)
	if err := newPlatformWindow(w); err != nil {
		return nil, fmt.Errorf("failed to create platform window: %w", err)
	}
	return w, nil
}

func newEngineWindow(options ...WindowBuilderOption) *engineWindow {
	w := &engineWindow{
		mu:        &sync.Mutex{},
		title:     "oxy-player",
		maxWidth:  1600,
		maxHeight: 1200,
		minWidth:  600,
		minHeight: 200,
		width:     1280,
		height:    720,
		rawMouse:  true,
	}
	for _, opt := range options {
		opt(w)
	}
	if w.logger == nil {
		w.logger = zap.L().Named("window")
	}
	return w
}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SetKeyDownCallback(callback func(keyCode uint32)) {
	w.onKeyDown = callback
}

func (w *engineWindow) SetKeyUpCallback(callback func(keyCode uint32)) {
	w.onKeyUp = callback
}

func (w *engineWindow) SetMouseDeltaCallback(callback func(dx, dy float32)) {
	w.onMouseDelta = callback
}

func (w *engineWindow) SetClickCallback(callback func()) {
	w.onClick = callback
}

func (w *engineWindow) SetLockChangeCallback(callback func(locked bool)) {
	w.onLockChange = callback
}

func (w *engineWindow) SetLockErrorCallback(callback func(err error)) {
	w.onLockError = callback
}

func (w *engineWindow) RequestLock() {
	w.queueLock(true)
}

func (w *engineWindow) ReleaseLock() {
	w.queueLock(false)
}

func (w *engineWindow) queueLock(locked bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pendingLock = &locked
}

func (w *engineWindow) IsLocked() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.locked
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		if succ := platformProcessMessages(w); !succ {
			break
		}
		w.applyPendingLock()

		if w.onUpdate != nil {
			w.onUpdate()
		}

		runtime.Gosched()
	}
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}

// applyPendingLock consumes a queued lock request on the message loop thread.
func (w *engineWindow) applyPendingLock() {
	w.mu.Lock()
	req := w.pendingLock
	w.pendingLock = nil
	w.mu.Unlock()

	if req != nil {
		w.setLocked(*req)
	}
}

// setLocked captures or releases the cursor and reports the transition.
// Requests that do not change the state are ignored.
func (w *engineWindow) setLocked(locked bool) {
	w.mu.Lock()
	current := w.locked
	w.mu.Unlock()
	if current == locked {
		return
	}

	if err := platformSetCursorLocked(w, locked); err != nil {
		w.logger.Debug("cursor lock request failed", zap.Bool("locked", locked), zap.Error(err))
		if locked && w.onLockError != nil {
			w.onLockError(err)
		}
		if locked {
			return
		}
	}

	w.mu.Lock()
	w.locked = locked
	w.hasCursor = false
	w.mu.Unlock()

	if w.onLockChange != nil {
		w.onLockChange(locked)
	}
}

// handleKey routes a key event. Escape releases the lock, or closes the window when unlocked.
func (w *engineWindow) handleKey(keyCode uint32, pressed bool) {
	if keyCode == common.KeyEsc && pressed {
		if w.IsLocked() {
			w.setLocked(false)
			return
		}
		platformRequestClose(w)
		return
	}
	if pressed {
		if w.onKeyDown != nil {
			w.onKeyDown(keyCode)
		}
		return
	}
	if w.onKeyUp != nil {
		w.onKeyUp(keyCode)
	}
}

// handleCursor converts absolute cursor positions into relative motion.
// The first position after a lock change only seeds the tracker.
func (w *engineWindow) handleCursor(x, y float64) {
	w.mu.Lock()
	last, had := w.cursor, w.hasCursor
	w.cursor = [2]float64{x, y}
	w.hasCursor = true
	w.mu.Unlock()

	if !had || w.onMouseDelta == nil {
		return
	}
	dx, dy := x-last[0], y-last[1]
	if dx == 0 && dy == 0 {
		return
	}
	w.onMouseDelta(float32(dx), float32(dy))
}

// handleFocus revokes the lock when the window loses focus.
func (w *engineWindow) handleFocus(focused bool) {
	if !focused && w.IsLocked() {
		w.setLocked(false)
	}
}

func (w *engineWindow) handleClick() {
	if w.onClick != nil {
		w.onClick()
	}
}

func (w *engineWindow) handleResize(width, height int) {
	w.width = width
	w.height = height
	if w.onResize != nil {
		w.onResize(width, height)
	}
}
