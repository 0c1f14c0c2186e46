package player

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-player/common"
	"github.com/Carmen-Shannon/oxy-player/engine/collision"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// mouseScale converts pointer motion in pixels to radians.
const mouseScale = 0.001

var (
	// ErrNilCamera is returned when the controller is created without a camera.
	ErrNilCamera = errors.New("camera is nil")
	// ErrNilWorld is returned when the controller is created without a collision world.
	ErrNilWorld = errors.New("collision world is nil")
	// ErrNilInput is returned when the controller is created without an input source.
	ErrNilInput = errors.New("input source is nil")
	// ErrNilLock is returned when the controller is created without a lock provider.
	ErrNilLock = errors.New("lock provider is nil")
)

// Camera is the camera pose the controller drives.
type Camera interface {
	Position() mgl32.Vec3
	SetPosition(p mgl32.Vec3)
	Quaternion() mgl32.Quat
	SetQuaternion(q mgl32.Quat)
	LookAt(target mgl32.Vec3)
	WorldDirection() mgl32.Vec3
	Up() mgl32.Vec3
}

// Character is the optional visible body shown in third-person mode.
// Enabled doubles as its visibility flag.
type Character interface {
	Position() mgl32.Vec3
	SetPosition(p mgl32.Vec3)
	RotationY() float32
	SetRotationY(ry float32)
	Enabled() bool
	SetEnabled(enabled bool)
	WorldMatrix() mgl32.Mat4
	WorldDirection() mgl32.Vec3
	Size() mgl32.Vec3
}

// CollisionWorld resolves the player capsule against static geometry.
type CollisionWorld interface {
	CapsuleIntersect(c collision.Capsule) (collision.Contact, bool)
}

type playerController struct {
	mu *sync.Mutex

	cfg    Config
	logger *zap.Logger

	camera    Camera
	character Character
	world     CollisionWorld
	input     InputSource
	lock      LockProvider
	events    *eventBus

	collider    collision.Capsule
	velocity    mgl32.Vec3
	onFloor     bool
	firstPerson bool
	locked      bool
	disposed    bool

	keys inputState

	spawnOffset mgl32.Vec3

	// characterHeight sizes the third-person chase offset
	characterHeight float32
}

// PlayerController is a fixed-timestep first/third-person movement controller.
// It moves a capsule through a static collision world from latched keyboard input,
// turns the camera from relative mouse motion while the pointer is locked,
// and projects the camera and an optional character from the capsule every substep.
type PlayerController interface {
	// Step advances the simulation by one frame. The delta is clamped to the configured
	// maximum and split into fixed substeps; negative or NaN deltas count as zero.
	//
	// Parameters:
	//   - frameDelta: elapsed time since the previous frame, in seconds
	Step(frameDelta float32)

	// Lock asks the lock provider to capture the pointer. The controller only becomes
	// locked once the provider confirms.
	Lock()

	// Unlock asks the lock provider to release the pointer.
	Unlock()

	// Subscribe registers a listener for one kind of event.
	// Listeners run synchronously after the controller has released its internal lock.
	//
	// Parameters:
	//   - kind: the event kind to listen for
	//   - fn: the listener
	//
	// Returns:
	//   - func(): removes the listener; safe to call more than once
	Subscribe(kind EventKind, fn Listener) func()

	// Dispose detaches the controller from its input source and lock provider and drops all listeners.
	// Step becomes a no-op afterwards.
	Dispose()

	// IsLocked reports whether pointer lock is held.
	IsLocked() bool

	// FirstPerson reports whether the controller is in first-person mode.
	FirstPerson() bool

	// OnFloor reports whether the last collision query found ground.
	OnFloor() bool

	// Velocity returns the current collider velocity in units/s.
	Velocity() mgl32.Vec3

	// Collider returns a copy of the player capsule.
	Collider() collision.Capsule

	// Config returns the completed configuration in use.
	Config() Config
}

var _ PlayerController = &playerController{}

// NewPlayerController creates a controller bound to a camera, a collision world and the host input.
// The camera is turned towards (1, characterHeight, 0) and the pose is projected once before returning.
//
// Parameters:
//   - cam: the camera to drive
//   - world: the collision world, built once before simulation starts
//   - input: the host keyboard/mouse source
//   - lock: the host pointer-lock provider
//   - options: functional options (configuration, character, logger, spawn offset)
//
// Returns:
//   - PlayerController: the controller
//   - error: if a dependency is missing or the configuration is invalid
func NewPlayerController(cam Camera, world CollisionWorld, input InputSource, lock LockProvider, options ...PlayerControllerBuilderOption) (PlayerController, error) {
	switch {
	case cam == nil:
		return nil, ErrNilCamera
	case world == nil:
		return nil, ErrNilWorld
	case input == nil:
		return nil, ErrNilInput
	case lock == nil:
		return nil, ErrNilLock
	}

	p := &playerController{
		mu:      &sync.Mutex{},
		cfg:     DefaultConfig(),
		camera:  cam,
		world:   world,
		input:   input,
		lock:    lock,
		events:  newEventBus(),
		onFloor: true,
	}
	for _, option := range options {
		option(p)
	}

	p.cfg = p.cfg.WithDefaults()
	if err := p.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid player config: %w", err)
	}
	keys, err := p.cfg.Keys.resolve()
	if err != nil {
		return nil, fmt.Errorf("invalid player config: %w", err)
	}
	p.keys = inputState{keys: keys}

	if p.logger == nil {
		p.logger = zap.L().Named("player")
	}

	p.firstPerson = !p.cfg.ThirdPerson
	p.collider = collision.NewCapsule(p.cfg.CapsuleStart, p.cfg.CapsuleEnd, p.cfg.CapsuleRadius).Translate(p.spawnOffset)
	p.characterHeight = p.cfg.CharacterHeight
	if p.characterHeight <= 0 && p.character != nil {
		p.characterHeight = p.character.Size().Y()
	}
	if p.characterHeight <= 0 {
		p.characterHeight = defaultCharacterHeight
	}

	p.camera.LookAt(mgl32.Vec3{1, p.characterHeight, 0})
	p.connect()
	p.Step(0)

	p.logger.Debug("player controller ready",
		zap.Bool("firstPerson", p.firstPerson),
		zap.Bool("character", p.character != nil),
		zap.Float32("characterHeight", p.characterHeight),
	)
	return p, nil
}

// connect registers the controller's input and lock handlers.
func (p *playerController) connect() {
	p.input.SetKeyDownCallback(p.onKeyDown)
	p.input.SetKeyUpCallback(p.onKeyUp)
	p.input.SetMouseDeltaCallback(p.onMouseMove)
	p.lock.SetLockChangeCallback(p.onLockChange)
	p.lock.SetLockErrorCallback(p.onLockError)
}

func (p *playerController) disconnect() {
	p.input.SetKeyDownCallback(nil)
	p.input.SetKeyUpCallback(nil)
	p.input.SetMouseDeltaCallback(nil)
	p.lock.SetLockChangeCallback(nil)
	p.lock.SetLockErrorCallback(nil)
}

func (p *playerController) Step(frameDelta float32) {
	p.mu.Lock()
	if p.disposed {
		p.mu.Unlock()
		return
	}
	if !(frameDelta > 0) {
		frameDelta = 0
	}
	dt := math32.Min(p.cfg.MaxFrameDelta, frameDelta) / float32(p.cfg.Substeps)

	var pending []Event
	for range p.cfg.Substeps {
		if ev, ok := p.controls(dt); ok {
			pending = append(pending, ev)
		}
		p.updatePlayer(dt)
	}
	p.mu.Unlock()

	p.events.publish(pending...)
}

// controls applies latched input for one substep and returns the notification it raises, if any.
// Caller must hold the mutex.
func (p *playerController) controls(dt float32) (Event, bool) {
	if !p.locked {
		return Event{}, false
	}

	speedDelta := dt * p.cfg.Stride
	if !p.onFloor {
		speedDelta *= p.cfg.AirControl
	}

	in := &p.keys
	if in.forward {
		p.velocity = p.velocity.Add(p.forwardVector().Mul(speedDelta))
	}
	if in.back {
		p.velocity = p.velocity.Add(p.forwardVector().Mul(-speedDelta))
	}
	if in.left {
		p.velocity = p.velocity.Add(p.sideVector().Mul(-speedDelta))
	}
	if in.right {
		p.velocity = p.velocity.Add(p.sideVector().Mul(speedDelta))
	}

	if in.togglePending {
		in.togglePending = false
		p.firstPerson = !p.firstPerson
	}

	if p.onFloor && in.jump {
		p.velocity[1] = p.cfg.JumpHeight
	}

	switch {
	case in.moving():
		return Event{Kind: EventWalk, FirstPerson: p.firstPerson}, true
	case p.onFloor && in.jump:
		return Event{Kind: EventJump, FirstPerson: p.firstPerson}, true
	case p.onFloor && in.toggleHeld:
		return Event{Kind: EventSwitch, FirstPerson: p.firstPerson}, true
	}
	return Event{}, false
}

// updatePlayer integrates gravity, damping and velocity, resolves collisions and projects the pose.
// Caller must hold the mutex.
func (p *playerController) updatePlayer(dt float32) {
	damping := math32.Exp(-p.cfg.GroundDamping*dt) - 1
	if !p.onFloor {
		p.velocity[1] -= p.cfg.Gravity * dt
		damping *= p.cfg.AirDampingScale
	}
	p.velocity = p.velocity.Add(p.velocity.Mul(damping))

	p.collider = p.collider.Translate(p.velocity.Mul(dt))
	p.collisions()
	p.projectPose()
}

// collisions pushes the collider out of the world and updates the grounded flag.
// Caller must hold the mutex.
func (p *playerController) collisions() {
	contact, hit := p.world.CapsuleIntersect(p.collider)
	p.onFloor = false
	if !hit {
		return
	}

	p.onFloor = contact.Normal.Y() > 0
	if !p.onFloor {
		p.velocity = p.velocity.Sub(contact.Normal.Mul(contact.Normal.Dot(p.velocity)))
	}
	p.collider = p.collider.Translate(contact.Normal.Mul(contact.Depth))
}

// projectPose places the camera and character from the collider.
// Caller must hold the mutex.
func (p *playerController) projectPose() {
	end := p.collider.End
	p.camera.SetPosition(end)

	if p.character == nil {
		return
	}
	p.character.SetPosition(mgl32.Vec3{end[0], end[1] - p.cfg.CorrectionHeight, end[2]})
	if p.firstPerson {
		p.character.SetEnabled(false)
		return
	}
	p.character.SetEnabled(true)
	h := p.characterHeight
	offset := mgl32.Vec3{0, h + 0.1, -(h + 0.8)}
	p.camera.SetPosition(mgl32.TransformCoordinate(offset, p.character.WorldMatrix()))
}

// forwardVector is the camera look direction flattened onto the ground plane.
func (p *playerController) forwardVector() mgl32.Vec3 {
	return common.FlatDirection(p.camera.WorldDirection())
}

// sideVector points to the camera's right along the ground plane.
func (p *playerController) sideVector() mgl32.Vec3 {
	return common.SafeNormalize(p.forwardVector().Cross(p.camera.Up()))
}

func (p *playerController) onKeyDown(code uint32) {
	p.mu.Lock()
	if p.disposed {
		p.mu.Unlock()
		return
	}
	p.keys.keyDown(code)
	ev := Event{Kind: EventKeyDown, KeyCode: code, FirstPerson: p.firstPerson}
	p.mu.Unlock()

	p.events.publish(ev)
}

func (p *playerController) onKeyUp(code uint32) {
	p.mu.Lock()
	if p.disposed {
		p.mu.Unlock()
		return
	}
	p.keys.keyUp(code)
	ev := Event{Kind: EventKeyUp, KeyCode: code, FirstPerson: p.firstPerson}
	p.mu.Unlock()

	p.events.publish(ev)
}

// onMouseMove turns the camera by a relative pointer motion while locked.
// In third-person mode the character turns with the camera and the camera orbits to one unit behind it.
func (p *playerController) onMouseMove(dx, dy float32) {
	p.mu.Lock()
	if p.disposed || !p.locked {
		p.mu.Unlock()
		return
	}

	yaw, pitch := common.YawPitchFromQuat(p.camera.Quaternion())
	yaw -= dx * mouseScale * p.cfg.PointerSpeed
	pitch -= dy * mouseScale * p.cfg.PointerSpeed
	pitch = mgl32.Clamp(pitch, math32.Pi/2-p.cfg.MaxPolarAngle, math32.Pi/2-p.cfg.MinPolarAngle)
	p.camera.SetQuaternion(common.QuatFromYawPitch(yaw, pitch))

	if !p.firstPerson && p.character != nil {
		turn := math32.Min(math32.Pi/2-p.cfg.MinPolarAngle, dx*mouseScale*p.cfg.PointerSpeed)
		p.character.SetRotationY(p.character.RotationY() - turn)

		pos := p.character.Position()
		p.camera.SetPosition(pos.Sub(p.character.WorldDirection()))
		p.camera.LookAt(pos)
	}
	ev := Event{Kind: EventChange, FirstPerson: p.firstPerson}
	p.mu.Unlock()

	p.events.publish(ev)
}

func (p *playerController) onLockChange(locked bool) {
	p.mu.Lock()
	if p.disposed || p.locked == locked {
		p.mu.Unlock()
		return
	}
	p.locked = locked
	kind := EventLock
	if !locked {
		kind = EventUnlock
		p.keys.reset()
	}
	ev := Event{Kind: kind, FirstPerson: p.firstPerson}
	p.mu.Unlock()

	p.logger.Debug("pointer lock changed", zap.Bool("locked", locked))
	p.events.publish(ev)
}

func (p *playerController) onLockError(err error) {
	p.logger.Warn("unable to acquire pointer lock", zap.Error(err))
}

func (p *playerController) Lock() {
	p.lock.RequestLock()
}

func (p *playerController) Unlock() {
	p.lock.ReleaseLock()
}

func (p *playerController) Subscribe(kind EventKind, fn Listener) func() {
	if fn == nil {
		return func() {}
	}
	return p.events.subscribe(kind, fn)
}

func (p *playerController) Dispose() {
	p.mu.Lock()
	if p.disposed {
		p.mu.Unlock()
		return
	}
	p.disposed = true
	p.mu.Unlock()

	p.disconnect()
	p.events.clear()
}

func (p *playerController) IsLocked() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.locked
}

func (p *playerController) FirstPerson() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.firstPerson
}

func (p *playerController) OnFloor() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.onFloor
}

func (p *playerController) Velocity() mgl32.Vec3 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.velocity
}

func (p *playerController) Collider() collision.Capsule {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.collider
}

func (p *playerController) Config() Config {
	return p.cfg
}
