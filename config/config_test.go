package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-player/engine/player"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
logging:
  level: debug
  format: json
window:
  title: arena
  width: 1024
engine:
  tick_rate: 120
  profiling: true
player:
  stride: 25
  substeps: 8
  capsule_start: [0, 0.5, 0]
  capsule_end: [0, 1.5, 0]
  third_person: true
  keys:
    forward: ArrowUp
world:
  path: levels/arena.glb
  spawn_offset: [0, 5, 0]
character:
  path: models/hero.glb
`

func TestParse(t *testing.T) {
	cfg, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.False(t, cfg.Logging.Development, "a logging section replaces the preset")

	assert.Equal(t, "arena", cfg.Window.Title)
	assert.Equal(t, 1024, cfg.Window.Width)
	assert.Equal(t, 720, cfg.Window.Height)

	assert.Equal(t, 120.0, cfg.Engine.TickRate)
	assert.True(t, cfg.Engine.Profiling)

	assert.Equal(t, float32(25), cfg.Player.Stride)
	assert.Equal(t, 8, cfg.Player.Substeps)
	assert.Equal(t, mgl32.Vec3{0, 1.5, 0}, cfg.Player.CapsuleEnd)
	assert.True(t, cfg.Player.ThirdPerson)
	assert.Equal(t, "ArrowUp", cfg.Player.Keys.Forward)
	assert.Equal(t, "KeyS", cfg.Player.Keys.Back)
	assert.Equal(t, player.DefaultConfig().Gravity, cfg.Player.Gravity)

	assert.Equal(t, "levels/arena.glb", cfg.World.Path)
	assert.Equal(t, mgl32.Vec3{0, 5, 0}, cfg.World.SpawnOffset)
	assert.Equal(t, 8, cfg.World.MaxDepth)
	assert.Equal(t, "models/hero.glb", cfg.Character.Path)
}

func TestParseMinimal(t *testing.T) {
	cfg, err := Parse(strings.NewReader("world:\n  path: floor.gltf\n"))
	require.NoError(t, err)

	d := Default()
	assert.Equal(t, d.Logging, cfg.Logging)
	assert.Equal(t, d.Window, cfg.Window)
	assert.Equal(t, d.Engine, cfg.Engine)
	assert.Equal(t, player.DefaultConfig(), cfg.Player)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		is   error
	}{
		{"empty", "", ErrNoWorld},
		{"no world", "engine:\n  tick_rate: 30\n", ErrNoWorld},
		{"bad key", "world:\n  path: a.glb\nplayer:\n  keys:\n    jump: Banana\n", player.ErrUnknownKey},
		{"negative substeps", "world:\n  path: a.glb\nplayer:\n  substeps: -1\n", player.ErrInvalidSubsteps},
		{"unknown field", "world:\n  path: a.glb\n  gravity: 3\n", nil},
		{"malformed", "world: [", nil},
		{"short vector", "world:\n  path: a.glb\n  spawn_offset: [1, 2]\n", nil},
		{"negative tick rate", "world:\n  path: a.glb\nengine:\n  tick_rate: -1\n", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.doc))
			require.Error(t, err)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "player.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "arena", cfg.Window.Title)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("engine:\n  tick_rate: 30\n"), 0o644))
	_, err = Load(bad)
	assert.ErrorIs(t, err, ErrNoWorld)
	assert.Contains(t, err.Error(), bad)
}
