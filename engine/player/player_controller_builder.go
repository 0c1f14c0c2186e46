package player

import (
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// PlayerControllerBuilderOption is a functional option for configuring a PlayerController.
// Options are applied before the configuration is completed and validated.
type PlayerControllerBuilderOption func(*playerController)

// WithConfig sets the controller tuning. Zero fields fall back to DefaultConfig.
//
// Parameters:
//   - cfg: the configuration
//
// Returns:
//   - PlayerControllerBuilderOption: a function that sets the controller's configuration
func WithConfig(cfg Config) PlayerControllerBuilderOption {
	return func(p *playerController) {
		p.cfg = cfg
	}
}

// WithCharacter attaches a visible character that follows the collider and is shown in third-person mode.
//
// Parameters:
//   - c: the character
//
// Returns:
//   - PlayerControllerBuilderOption: a function that sets the controller's character
func WithCharacter(c Character) PlayerControllerBuilderOption {
	return func(p *playerController) {
		p.character = c
	}
}

// WithSpawnOffset moves the collider away from its configured position before the first step.
//
// Parameters:
//   - offset: the world-space offset
//
// Returns:
//   - PlayerControllerBuilderOption: a function that sets the spawn offset
func WithSpawnOffset(offset mgl32.Vec3) PlayerControllerBuilderOption {
	return func(p *playerController) {
		p.spawnOffset = offset
	}
}

// WithLogger sets the logger used for pointer lock diagnostics.
//
// Parameters:
//   - l: the logger
//
// Returns:
//   - PlayerControllerBuilderOption: a function that sets the controller's logger
func WithLogger(l *zap.Logger) PlayerControllerBuilderOption {
	return func(p *playerController) {
		p.logger = l
	}
}
