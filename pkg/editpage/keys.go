package editpage

import (
	"context"
	"runtime"
	"slices"
	"strings"
	"sync"
)

// Platform selects the modifier used for keyboard accelerators.
type Platform string

const (
	// PlatformMac uses the Command (meta) key.
	PlatformMac Platform = "mac"
	// PlatformOther uses the Control key.
	PlatformOther Platform = "other"
)

// DetectPlatform returns the platform of the running process.
func DetectPlatform() Platform {
	if runtime.GOOS == "darwin" {
		return PlatformMac
	}
	return PlatformOther
}

// ParsePlatform maps a configured name ("mac", "darwin", "macos", "auto",
// anything else) to a Platform. "auto" and empty values detect it.
func ParsePlatform(name string) Platform {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "mac", "macos", "darwin", "osx":
		return PlatformMac
	case "", "auto":
		return DetectPlatform()
	default:
		return PlatformOther
	}
}

// KeyEvent is a key press delivered to KeyBus subscribers.
type KeyEvent struct {
	Context context.Context
	Key     string
	Meta    bool
	Ctrl    bool
	Shift   bool
	Alt     bool

	prevented bool
}

// PreventDefault marks the event as handled.
func (e *KeyEvent) PreventDefault() {
	e.prevented = true
}

// DefaultPrevented reports whether a subscriber handled the event.
func (e *KeyEvent) DefaultPrevented() bool {
	return e.prevented
}

func (e *KeyEvent) context() context.Context {
	if e.Context != nil {
		return e.Context
	}
	return context.Background()
}

// SaveAccelerator builds the save shortcut for platform.
func SaveAccelerator(platform Platform) *KeyEvent {
	if platform == PlatformMac {
		return &KeyEvent{Key: "s", Meta: true}
	}
	return &KeyEvent{Key: "s", Ctrl: true}
}

// IsSaveAccelerator reports whether ev is Cmd+S on macOS or Ctrl+S
// elsewhere.
func IsSaveAccelerator(ev *KeyEvent, platform Platform) bool {
	if ev == nil || !strings.EqualFold(ev.Key, "s") || ev.Alt {
		return false
	}
	if platform == PlatformMac {
		return ev.Meta
	}
	return ev.Ctrl
}

// KeyHandler receives dispatched key events.
type KeyHandler func(*KeyEvent)

// KeyBus is a process-wide key event bus. Handlers run synchronously in
// subscription order.
type KeyBus struct {
	mu       sync.RWMutex
	next     uint64
	handlers map[uint64]KeyHandler
}

// NewKeyBus constructs an empty bus.
func NewKeyBus() *KeyBus {
	return &KeyBus{handlers: make(map[uint64]KeyHandler)}
}

var defaultKeyBus = NewKeyBus()

// DefaultKeyBus returns the shared bus used when pages are not given one.
func DefaultKeyBus() *KeyBus {
	return defaultKeyBus
}

// Subscribe registers handler and returns a function removing it. The
// returned function is safe to call more than once.
func (b *KeyBus) Subscribe(handler KeyHandler) func() {
	if handler == nil {
		return func() {}
	}
	b.mu.Lock()
	b.next++
	id := b.next
	b.handlers[id] = handler
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.handlers, id)
			b.mu.Unlock()
		})
	}
}

// Dispatch delivers ev to every subscriber and reports whether one of them
// prevented its default action.
func (b *KeyBus) Dispatch(ev *KeyEvent) bool {
	if ev == nil {
		return false
	}
	b.mu.RLock()
	ids := make([]uint64, 0, len(b.handlers))
	for id := range b.handlers {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	handlers := make([]KeyHandler, 0, len(ids))
	for _, id := range ids {
		handlers = append(handlers, b.handlers[id])
	}
	b.mu.RUnlock()

	for _, handler := range handlers {
		handler(ev)
	}
	return ev.DefaultPrevented()
}

// Len returns the number of subscribers.
func (b *KeyBus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers)
}
