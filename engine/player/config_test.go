package player

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-player/common"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithDefaultsFillsZeroFields(t *testing.T) {
	cfg := Config{Stride: 30, CapsuleRadius: 0.5, Keys: KeyBindings{Jump: "KeyE"}}.WithDefaults()
	d := DefaultConfig()

	assert.Equal(t, float32(30), cfg.Stride)
	assert.Equal(t, float32(0.5), cfg.CapsuleRadius)
	assert.Equal(t, d.Gravity, cfg.Gravity)
	assert.Equal(t, d.Substeps, cfg.Substeps)
	assert.Equal(t, d.CapsuleStart, cfg.CapsuleStart)
	assert.Equal(t, d.CapsuleEnd, cfg.CapsuleEnd)
	assert.Equal(t, "KeyE", cfg.Keys.Jump)
	assert.Equal(t, "KeyW", cfg.Keys.Forward)
	assert.NoError(t, cfg.Validate())
}

func TestWithDefaultsKeepsPartialCapsule(t *testing.T) {
	cfg := Config{CapsuleEnd: mgl32.Vec3{0, 2, 0}}.WithDefaults()
	assert.Equal(t, mgl32.Vec3{}, cfg.CapsuleStart)
	assert.Equal(t, mgl32.Vec3{0, 2, 0}, cfg.CapsuleEnd)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		err    error
	}{
		{"defaults", func(*Config) {}, nil},
		{"negative radius", func(c *Config) { c.CapsuleRadius = -0.1 }, ErrInvalidRadius},
		{"nan radius", func(c *Config) { c.CapsuleRadius = math32.NaN() }, ErrInvalidRadius},
		{"negative substeps", func(c *Config) { c.Substeps = -2 }, ErrInvalidSubsteps},
		{"inverted polar range", func(c *Config) { c.MinPolarAngle, c.MaxPolarAngle = 2, 1 }, ErrInvalidPolarRange},
		{"polar range beyond pi", func(c *Config) { c.MaxPolarAngle = 4 }, ErrInvalidPolarRange},
		{"unknown key", func(c *Config) { c.Keys.Toggle = "KeyZZ" }, ErrUnknownKey},
		{"negative frame delta", func(c *Config) { c.MaxFrameDelta = -0.05 }, ErrInvalidFrameDelta},
		{"zero frame delta", func(c *Config) { c.MaxFrameDelta = 0 }, ErrInvalidFrameDelta},
		{"nan frame delta", func(c *Config) { c.MaxFrameDelta = math32.NaN() }, ErrInvalidFrameDelta},
		{"infinite frame delta", func(c *Config) { c.MaxFrameDelta = math32.Inf(1) }, ErrInvalidFrameDelta},
		{"negative stride", func(c *Config) { c.Stride = -20 }, ErrInvalidTuning},
		{"nan stride", func(c *Config) { c.Stride = math32.NaN() }, ErrInvalidTuning},
		{"negative gravity", func(c *Config) { c.Gravity = -50 }, ErrInvalidTuning},
		{"infinite gravity", func(c *Config) { c.Gravity = math32.Inf(1) }, ErrInvalidTuning},
		{"negative jump height", func(c *Config) { c.JumpHeight = -1 }, ErrInvalidTuning},
		{"negative ground damping", func(c *Config) { c.GroundDamping = -4 }, ErrInvalidTuning},
		{"negative air control", func(c *Config) { c.AirControl = -0.5 }, ErrInvalidTuning},
		{"negative air damping scale", func(c *Config) { c.AirDampingScale = -0.1 }, ErrInvalidTuning},
		{"negative pointer speed", func(c *Config) { c.PointerSpeed = -1 }, ErrInvalidTuning},
		{"zero air control", func(c *Config) { c.AirControl = 0 }, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.err == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestOffDisablesAirTunables(t *testing.T) {
	cfg := Config{AirControl: Off, AirDampingScale: Off}.WithDefaults()
	assert.Zero(t, cfg.AirControl)
	assert.Zero(t, cfg.AirDampingScale)
	assert.NoError(t, cfg.Validate())

	cfg = Config{}.WithDefaults()
	assert.Equal(t, DefaultConfig().AirControl, cfg.AirControl, "zero still selects the default")
}

func TestKeyBindingsResolve(t *testing.T) {
	m, err := DefaultConfig().Keys.resolve()
	require.NoError(t, err)
	assert.Equal(t, uint32(common.KeyW), m.forward)
	assert.Equal(t, uint32(common.KeySpace), m.jump)
	assert.Equal(t, uint32(common.KeyF), m.toggle)

	m, err = KeyBindings{Forward: "arrowup", Back: "ArrowDown", Left: "ArrowLeft", Right: "ArrowRight", Jump: "Space", Toggle: "KeyV"}.resolve()
	require.NoError(t, err)
	assert.Equal(t, uint32(common.KeyUp), m.forward)
}

func TestInputStateReset(t *testing.T) {
	keys, err := DefaultConfig().Keys.resolve()
	require.NoError(t, err)
	in := inputState{keys: keys}

	in.keyDown(common.KeyW)
	in.keyDown(common.KeyF)
	require.True(t, in.moving())
	require.True(t, in.togglePending)

	in.reset()
	assert.False(t, in.moving())
	assert.False(t, in.togglePending)
	assert.False(t, in.toggleHeld)
	assert.Equal(t, keys, in.keys)
}

func TestEventKindString(t *testing.T) {
	assert.Equal(t, "walk", EventWalk.String())
	assert.Equal(t, "keyUp", EventKeyUp.String())
	assert.Equal(t, "unknown", EventKind(99).String())
}
