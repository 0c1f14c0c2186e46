package player

// InputSource delivers raw keyboard and relative mouse input from the host.
// Passing nil to a setter detaches the callback.
type InputSource interface {
	// SetKeyDownCallback registers the handler for key presses, including auto-repeats.
	//
	// Parameters:
	//   - cb: receives the key code
	SetKeyDownCallback(cb func(code uint32))

	// SetKeyUpCallback registers the handler for key releases.
	//
	// Parameters:
	//   - cb: receives the key code
	SetKeyUpCallback(cb func(code uint32))

	// SetMouseDeltaCallback registers the handler for relative mouse motion.
	//
	// Parameters:
	//   - cb: receives the motion since the previous call, in pixels
	SetMouseDeltaCallback(cb func(dx, dy float32))
}

// LockProvider captures and releases the pointer on behalf of the controller.
// Lock state only changes when the provider reports it through the change callback.
type LockProvider interface {
	// RequestLock asks the host to capture the pointer.
	RequestLock()

	// ReleaseLock asks the host to release the pointer.
	ReleaseLock()

	// SetLockChangeCallback registers the handler the host calls when the lock is granted or lost.
	//
	// Parameters:
	//   - cb: receives true when locked
	SetLockChangeCallback(cb func(locked bool))

	// SetLockErrorCallback registers the handler the host calls when a lock request fails.
	//
	// Parameters:
	//   - cb: receives the failure
	SetLockErrorCallback(cb func(err error))
}

// inputState latches key state between substeps.
type inputState struct {
	keys keyMap

	forward, back, left, right bool
	jump, toggleHeld           bool

	// togglePending is set by a fresh toggle press and consumed by the next locked substep.
	togglePending bool
}

// keyDown records a press. Repeats of a held toggle key do not re-arm the toggle.
func (in *inputState) keyDown(code uint32) {
	switch code {
	case in.keys.forward:
		in.forward = true
	case in.keys.back:
		in.back = true
	case in.keys.left:
		in.left = true
	case in.keys.right:
		in.right = true
	case in.keys.jump:
		in.jump = true
	case in.keys.toggle:
		if !in.toggleHeld {
			in.togglePending = true
		}
		in.toggleHeld = true
	}
}

func (in *inputState) keyUp(code uint32) {
	switch code {
	case in.keys.forward:
		in.forward = false
	case in.keys.back:
		in.back = false
	case in.keys.left:
		in.left = false
	case in.keys.right:
		in.right = false
	case in.keys.jump:
		in.jump = false
	case in.keys.toggle:
		in.toggleHeld = false
	}
}

func (in *inputState) moving() bool {
	return in.forward || in.back || in.left || in.right
}

// reset releases every key and drops a pending toggle.
func (in *inputState) reset() {
	keys := in.keys
	*in = inputState{keys: keys}
}
