// Package input tracks which keys are held, fed by window key callbacks.
package input

import (
	"sort"
	"sync"

	"github.com/Carmen-Shannon/oxy-gl/engine/window"
)

// KeyState is the set of keys currently held down. It satisfies scene.KeyState.
type KeyState struct {
	mu      *sync.Mutex
	pressed map[int]struct{}
}

// NewKeyState creates an empty key state.
func NewKeyState() *KeyState {
	return &KeyState{
		mu:      &sync.Mutex{},
		pressed: make(map[int]struct{}),
	}
}

// Press marks a key as held. Repeats are idempotent.
func (k *KeyState) Press(keyCode int) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.pressed[keyCode] = struct{}{}
}

// Release marks a key as no longer held.
func (k *KeyState) Release(keyCode int) {
	k.mu.Lock()
	defer k.mu.Unlock()
	delete(k.pressed, keyCode)
}

// IsPressed reports whether a key is currently held.
func (k *KeyState) IsPressed(keyCode int) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	_, ok := k.pressed[keyCode]
	return ok
}

// Pressed returns the held key codes in ascending order.
func (k *KeyState) Pressed() []int {
	k.mu.Lock()
	defer k.mu.Unlock()
	keys := make([]int, 0, len(k.pressed))
	for key := range k.pressed {
		keys = append(keys, key)
	}
	sort.Ints(keys)
	return keys
}

// Clear releases every key, for example when the window loses focus.
func (k *KeyState) Clear() {
	k.mu.Lock()
	defer k.mu.Unlock()
	clear(k.pressed)
}

// Attach installs the key state as the window's key down and key up callbacks,
// replacing any previously set.
//
// Parameters:
//   - w: the window delivering key events
func (k *KeyState) Attach(w window.Window) {
	w.SetKeyDownCallback(k.Press)
	w.SetKeyUpCallback(k.Release)
}
