package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-player/config"
	"github.com/Carmen-Shannon/oxy-player/engine/collision"
	"github.com/Carmen-Shannon/oxy-player/engine/player"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func floorAt(y float32) collision.Octree {
	return collision.NewOctree([][3]mgl32.Vec3{
		{{-10, y, -10}, {-10, y, 10}, {10, y, 10}},
		{{-10, y, -10}, {10, y, 10}, {10, y, -10}},
	}, collision.WithLogger(zap.NewNop()))
}

func TestSpawnOffsetProbesFloor(t *testing.T) {
	offset := spawnOffset(floorAt(2), mgl32.Vec3{}, player.Config{})

	// default capsule bottom sits 0.31 below the origin
	assert.InDelta(t, 0, offset.X(), 1e-6)
	assert.InDelta(t, 2+0.31+spawnClearance, offset.Y(), 1e-4)

	c := collision.NewCapsule(mgl32.Vec3{0, 0.35, 0}, mgl32.Vec3{0, 1, 0}, 0.66).Translate(offset)
	_, hit := floorAt(2).CapsuleIntersect(c)
	assert.False(t, hit, "the spawned capsule starts just clear of the floor")
}

func TestSpawnOffsetKeepsConfigured(t *testing.T) {
	configured := mgl32.Vec3{3, 4, 5}
	assert.Equal(t, configured, spawnOffset(floorAt(0), configured, player.Config{}))

	empty := collision.NewOctree(nil, collision.WithLogger(zap.NewNop()))
	assert.Equal(t, mgl32.Vec3{}, spawnOffset(empty, mgl32.Vec3{}, player.Config{}))
}

func TestLoadConfigWorldOverride(t *testing.T) {
	dir := t.TempDir()

	cfg, err := loadConfig(filepath.Join(dir, "missing.yaml"), "arena.glb")
	require.NoError(t, err)
	assert.Equal(t, "arena.glb", cfg.World.Path)
	assert.Equal(t, config.Default().Engine, cfg.Engine)

	_, err = loadConfig(filepath.Join(dir, "missing.yaml"), "")
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(dir, "player.yaml")
	require.NoError(t, os.WriteFile(path, []byte("world:\n  path: a.glb\nengine:\n  tick_rate: 30\n"), 0o644))
	cfg, err = loadConfig(path, "b.glb")
	require.NoError(t, err)
	assert.Equal(t, "b.glb", cfg.World.Path)
	assert.Equal(t, 30.0, cfg.Engine.TickRate)
}
