package common

import "strings"

// Virtual key codes for cross-platform input handling.
// These values match GLFW key codes which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyW         = 87  // W key (ASCII)
	KeyA         = 65  // A key (ASCII)
	KeyS         = 83  // S key (ASCII)
	KeyD         = 68  // D key (ASCII)
	KeyQ         = 81  // Q key (ASCII)
	KeyE         = 69  // E key (ASCII)
	KeyC         = 67  // C key (ASCII)
	KeyF         = 70  // F key (ASCII)
	KeyR         = 82  // R key (ASCII)
	KeyV         = 86  // V key (ASCII)
	KeySpace     = 32  // Spacebar (ASCII)
	KeyBackspace = 259 // Backspace key (GLFW)
	KeyEsc       = 256 // Escape key (GLFW)
	KeyRight     = 262 // Right arrow (GLFW)
	KeyLeft      = 263 // Left arrow (GLFW)
	KeyDown      = 264 // Down arrow (GLFW)
	KeyUp        = 265 // Up arrow (GLFW)

	Key1 = 49 // 1 key (ASCII)
	Key2 = 50 // 2 key (ASCII)
)

// Additional non-printable keys
const (
	KeyLeftShift    = 340 // Left Shift (GLFW)
	KeyLeftControl  = 341 // Left Control (GLFW)
	KeyRightShift   = 344 // Right Shift (GLFW)
	KeyRightControl = 345 // Right Control (GLFW)
)

// keyNames maps the DOM-style key identifiers used in configuration files to key codes.
var keyNames = map[string]uint32{
	"KeyW":         KeyW,
	"KeyA":         KeyA,
	"KeyS":         KeyS,
	"KeyD":         KeyD,
	"KeyQ":         KeyQ,
	"KeyE":         KeyE,
	"KeyC":         KeyC,
	"KeyF":         KeyF,
	"KeyR":         KeyR,
	"KeyV":         KeyV,
	"Space":        KeySpace,
	"Backspace":    KeyBackspace,
	"Escape":       KeyEsc,
	"ArrowRight":   KeyRight,
	"ArrowLeft":    KeyLeft,
	"ArrowDown":    KeyDown,
	"ArrowUp":      KeyUp,
	"Digit1":       Key1,
	"Digit2":       Key2,
	"ShiftLeft":    KeyLeftShift,
	"ShiftRight":   KeyRightShift,
	"ControlLeft":  KeyLeftControl,
	"ControlRight": KeyRightControl,
}

// KeyCodeFromName resolves a key identifier such as "KeyW" or "Space" to its key code.
// Matching is case-insensitive.
//
// Parameters:
//   - name: the key identifier
//
// Returns:
//   - uint32: the key code
//   - bool: false if the name is unknown
func KeyCodeFromName(name string) (uint32, bool) {
	if code, ok := keyNames[name]; ok {
		return code, true
	}
	for k, code := range keyNames {
		if strings.EqualFold(k, name) {
			return code, true
		}
	}
	return 0, false
}

// KeyName returns the identifier for a key code, or an empty string if it has none.
//
// Parameters:
//   - code: the key code
//
// Returns:
//   - string: the key identifier
func KeyName(code uint32) string {
	for k, c := range keyNames {
		if c == code {
			return k
		}
	}
	return ""
}
