package player

import "sync"

// EventKind identifies a controller notification.
type EventKind int

const (
	// EventWalk fires on a substep where a directional key is held.
	EventWalk EventKind = iota
	// EventJump fires on a substep where the player is grounded with jump held.
	EventJump
	// EventSwitch fires on a substep where the player is grounded with the toggle key held.
	EventSwitch
	// EventChange fires after mouse-look updated the camera.
	EventChange
	// EventLock fires when the host grants pointer lock.
	EventLock
	// EventUnlock fires when pointer lock is released or revoked.
	EventUnlock
	// EventKeyDown fires for every key press delivered by the input source.
	EventKeyDown
	// EventKeyUp fires for every key release delivered by the input source.
	EventKeyUp
)

var eventKindNames = [...]string{
	EventWalk:    "walk",
	EventJump:    "jump",
	EventSwitch:  "switch",
	EventChange:  "change",
	EventLock:    "lock",
	EventUnlock:  "unlock",
	EventKeyDown: "keyDown",
	EventKeyUp:   "keyUp",
}

func (k EventKind) String() string {
	if k < 0 || int(k) >= len(eventKindNames) {
		return "unknown"
	}
	return eventKindNames[k]
}

// Event is a single controller notification.
type Event struct {
	Kind EventKind
	// KeyCode is set for EventKeyDown and EventKeyUp.
	KeyCode uint32
	// FirstPerson is the perspective mode at the time the event was raised.
	FirstPerson bool
}

// Listener receives controller events.
type Listener func(Event)

type subscription struct {
	id uint64
	fn Listener
}

// eventBus fans events out to listeners registered per kind.
type eventBus struct {
	mu        sync.Mutex
	nextID    uint64
	listeners map[EventKind][]subscription
}

func newEventBus() *eventBus {
	return &eventBus{listeners: make(map[EventKind][]subscription)}
}

func (b *eventBus) subscribe(kind EventKind, fn Listener) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.listeners[kind] = append(b.listeners[kind], subscription{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			subs := b.listeners[kind]
			for i, s := range subs {
				if s.id == id {
					b.listeners[kind] = append(subs[:i:i], subs[i+1:]...)
					break
				}
			}
		})
	}
}

// publish delivers events in order. Listeners run on the caller's goroutine without the bus lock held,
// so they may subscribe or unsubscribe.
func (b *eventBus) publish(events ...Event) {
	for _, ev := range events {
		b.mu.Lock()
		subs := b.listeners[ev.Kind]
		b.mu.Unlock()
		for _, s := range subs {
			s.fn(ev)
		}
	}
}

func (b *eventBus) clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners = make(map[EventKind][]subscription)
}
