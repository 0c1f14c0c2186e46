package player

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-player/common"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// defaultCharacterHeight is used for the chase camera when no character height is known.
const defaultCharacterHeight = 1.8

var (
	// ErrInvalidRadius is returned when the capsule radius is not positive.
	ErrInvalidRadius = errors.New("capsule radius must be positive")
	// ErrInvalidSubsteps is returned when the substep count is negative.
	ErrInvalidSubsteps = errors.New("substep count must be positive")
	// ErrInvalidPolarRange is returned when the polar angle range is inverted or outside [0, π].
	ErrInvalidPolarRange = errors.New("polar angle range must satisfy 0 <= min <= max <= π")
	// ErrUnknownKey is returned when a key binding names a key that has no key code.
	ErrUnknownKey = errors.New("unknown key name")
	// ErrInvalidFrameDelta is returned when the frame delta clamp is not a positive finite duration.
	ErrInvalidFrameDelta = errors.New("max frame delta must be positive and finite")
	// ErrInvalidTuning is returned when a movement tunable is negative or not finite.
	ErrInvalidTuning = errors.New("movement tunable must be non-negative and finite")
)

// Off explicitly disables AirControl or AirDampingScale, whose zero value selects the default.
const Off float32 = -1

// KeyBindings maps controller actions to key names such as "KeyW" or "Space".
type KeyBindings struct {
	Forward string `yaml:"forward"`
	Back    string `yaml:"back"`
	Left    string `yaml:"left"`
	Right   string `yaml:"right"`
	Jump    string `yaml:"jump"`
	Toggle  string `yaml:"toggle"`
}

// Config holds the immutable tuning of a PlayerController.
// Zero fields take the value from DefaultConfig.
type Config struct {
	// Stride is the ground acceleration in units/s².
	Stride float32 `yaml:"stride"`
	// AirControl scales Stride while airborne. Set Off for no air control.
	AirControl float32 `yaml:"air_control"`
	// JumpHeight is the vertical speed set when jumping.
	JumpHeight float32 `yaml:"jump_height"`
	Gravity    float32 `yaml:"gravity"`

	Substeps      int     `yaml:"substeps"`
	MaxFrameDelta float32 `yaml:"max_frame_delta"`

	// GroundDamping is the exponential velocity decay rate while grounded.
	GroundDamping float32 `yaml:"ground_damping"`
	// AirDampingScale scales the damping factor while airborne. Set Off for no air damping.
	AirDampingScale float32 `yaml:"air_damping_scale"`

	CapsuleStart  mgl32.Vec3 `yaml:"capsule_start"`
	CapsuleEnd    mgl32.Vec3 `yaml:"capsule_end"`
	CapsuleRadius float32    `yaml:"capsule_radius"`

	// CorrectionHeight is how far below the capsule end the character origin sits.
	CorrectionHeight float32 `yaml:"correction_height"`
	// CharacterHeight sizes the chase camera; zero measures the character.
	CharacterHeight float32 `yaml:"character_height"`

	PointerSpeed  float32 `yaml:"pointer_speed"`
	MinPolarAngle float32 `yaml:"min_polar_angle"`
	MaxPolarAngle float32 `yaml:"max_polar_angle"`

	// ThirdPerson starts the controller in third-person mode.
	ThirdPerson bool `yaml:"third_person"`

	Keys KeyBindings `yaml:"keys"`
}

// DefaultConfig returns the stock controller tuning.
//
// Returns:
//   - Config: the default configuration
func DefaultConfig() Config {
	return Config{
		Stride:           20,
		AirControl:       0.23,
		JumpHeight:       15,
		Gravity:          50,
		Substeps:         5,
		MaxFrameDelta:    0.05,
		GroundDamping:    4,
		AirDampingScale:  0.1,
		CapsuleStart:     mgl32.Vec3{0, 0.35, 0},
		CapsuleEnd:       mgl32.Vec3{0, 1, 0},
		CapsuleRadius:    0.66,
		CorrectionHeight: 1.32,
		PointerSpeed:     1,
		MinPolarAngle:    0,
		MaxPolarAngle:    math32.Pi,
		Keys: KeyBindings{
			Forward: "KeyW",
			Back:    "KeyS",
			Left:    "KeyA",
			Right:   "KeyD",
			Jump:    "Space",
			Toggle:  "KeyF",
		},
	}
}

// WithDefaults returns a copy of c with every zero field replaced by its default.
//
// Returns:
//   - Config: the completed configuration
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	c.Stride = common.Coalesce(c.Stride, d.Stride)
	c.AirControl = common.Coalesce(c.AirControl, d.AirControl)
	c.JumpHeight = common.Coalesce(c.JumpHeight, d.JumpHeight)
	c.Gravity = common.Coalesce(c.Gravity, d.Gravity)
	c.Substeps = common.Coalesce(c.Substeps, d.Substeps)
	c.MaxFrameDelta = common.Coalesce(c.MaxFrameDelta, d.MaxFrameDelta)
	c.GroundDamping = common.Coalesce(c.GroundDamping, d.GroundDamping)
	c.AirDampingScale = common.Coalesce(c.AirDampingScale, d.AirDampingScale)
	if c.AirControl == Off {
		c.AirControl = 0
	}
	if c.AirDampingScale == Off {
		c.AirDampingScale = 0
	}
	if c.CapsuleStart == (mgl32.Vec3{}) && c.CapsuleEnd == (mgl32.Vec3{}) {
		c.CapsuleStart, c.CapsuleEnd = d.CapsuleStart, d.CapsuleEnd
	}
	c.CapsuleRadius = common.Coalesce(c.CapsuleRadius, d.CapsuleRadius)
	c.CorrectionHeight = common.Coalesce(c.CorrectionHeight, d.CorrectionHeight)
	c.PointerSpeed = common.Coalesce(c.PointerSpeed, d.PointerSpeed)
	c.MaxPolarAngle = common.Coalesce(c.MaxPolarAngle, d.MaxPolarAngle)
	c.Keys.Forward = common.Coalesce(c.Keys.Forward, d.Keys.Forward)
	c.Keys.Back = common.Coalesce(c.Keys.Back, d.Keys.Back)
	c.Keys.Left = common.Coalesce(c.Keys.Left, d.Keys.Left)
	c.Keys.Right = common.Coalesce(c.Keys.Right, d.Keys.Right)
	c.Keys.Jump = common.Coalesce(c.Keys.Jump, d.Keys.Jump)
	c.Keys.Toggle = common.Coalesce(c.Keys.Toggle, d.Keys.Toggle)
	return c
}

// Validate checks a completed configuration.
//
// Returns:
//   - error: the first problem found, or nil
func (c Config) Validate() error {
	if !(c.CapsuleRadius > 0) {
		return fmt.Errorf("%w: got %v", ErrInvalidRadius, c.CapsuleRadius)
	}
	if c.Substeps <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidSubsteps, c.Substeps)
	}
	if !(c.MaxFrameDelta > 0) || math32.IsInf(c.MaxFrameDelta, 0) {
		return fmt.Errorf("%w: got %v", ErrInvalidFrameDelta, c.MaxFrameDelta)
	}
	tunables := []struct {
		name  string
		value float32
	}{
		{"stride", c.Stride},
		{"air_control", c.AirControl},
		{"jump_height", c.JumpHeight},
		{"gravity", c.Gravity},
		{"ground_damping", c.GroundDamping},
		{"air_damping_scale", c.AirDampingScale},
		{"pointer_speed", c.PointerSpeed},
	}
	for _, t := range tunables {
		if !(t.value >= 0) || math32.IsInf(t.value, 1) {
			return fmt.Errorf("%w: %s = %v", ErrInvalidTuning, t.name, t.value)
		}
	}
	if c.MinPolarAngle < 0 || c.MaxPolarAngle > math32.Pi+1e-6 || c.MinPolarAngle > c.MaxPolarAngle {
		return fmt.Errorf("%w: got [%v, %v]", ErrInvalidPolarRange, c.MinPolarAngle, c.MaxPolarAngle)
	}
	if _, err := c.Keys.resolve(); err != nil {
		return err
	}
	return nil
}

// keyMap holds the resolved key code for each action.
type keyMap struct {
	forward, back, left, right, jump, toggle uint32
}

func (k KeyBindings) resolve() (keyMap, error) {
	var (
		m   keyMap
		err error
	)
	lookup := func(action, name string) uint32 {
		if err != nil {
			return 0
		}
		code, ok := common.KeyCodeFromName(name)
		if !ok {
			err = fmt.Errorf("%w: %q bound to %s", ErrUnknownKey, name, action)
		}
		return code
	}
	m.forward = lookup("forward", k.Forward)
	m.back = lookup("back", k.Back)
	m.left = lookup("left", k.Left)
	m.right = lookup("right", k.Right)
	m.jump = lookup("jump", k.Jump)
	m.toggle = lookup("toggle", k.Toggle)
	return m, err
}
