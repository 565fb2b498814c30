package input

import "sync"

// Source is a producer of key and mouse events, usually the window.
type Source interface {
	SetKeyDownCallback(callback func(keyCode uint32))
	SetKeyUpCallback(callback func(keyCode uint32))
	SetRightMouseDownCallback(callback func(x, y int32))
	SetRightMouseUpCallback(callback func(x, y int32))
	SetMouseMoveCallback(callback func(x, y int32))
}

// KeyState tracks which keys are held and how far the mouse moved while the right button was down.
// Writers are the window callbacks on the main thread, readers are the engine tick.
type KeyState interface {
	// Pressed reports whether a key is currently held down.
	//
	// Parameters:
	//   - key: the key code, see the common package
	//
	// Returns:
	//   - bool: true while the key is held
	Pressed(key uint32) bool

	// Press marks a key as held.
	//
	// Parameters:
	//   - key: the key code
	Press(key uint32)

	// Release marks a key as released.
	//
	// Parameters:
	//   - key: the key code
	Release(key uint32)

	// Held returns the number of keys currently held.
	//
	// Returns:
	//   - int: the held key count
	Held() int

	// Reset releases every key and drops any pending mouse movement.
	Reset()

	// MouseDown starts accumulating mouse movement from the given cursor position.
	//
	// Parameters:
	//   - x, y: the cursor position in pixels
	MouseDown(x, y int32)

	// MouseUp stops accumulating mouse movement.
	MouseUp()

	// MouseMove records a cursor position. Movement only counts while the button is down.
	//
	// Parameters:
	//   - x, y: the cursor position in pixels
	MouseMove(x, y int32)

	// TakeMouseDelta returns the movement accumulated since the last call and clears it.
	//
	// Returns:
	//   - dx, dy: the movement in pixels
	TakeMouseDelta() (dx, dy float32)

	// Bind registers the key state's handlers on src.
	//
	// Parameters:
	//   - src: the event source
	Bind(src Source)
}

type keyState struct {
	mu *sync.Mutex

	pressed map[uint32]bool

	dragging     bool
	lastX, lastY int32
	dx, dy       float32
}

var _ KeyState = &keyState{}

// NewKeyState creates a KeyState with no keys held.
//
// Returns:
//   - KeyState: the new key state
func NewKeyState() KeyState {
	return &keyState{
		mu:      &sync.Mutex{},
		pressed: make(map[uint32]bool),
	}
}

func (k *keyState) Pressed(key uint32) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.pressed[key]
}

func (k *keyState) Press(key uint32) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.pressed[key] = true
}

func (k *keyState) Release(key uint32) {
	k.mu.Lock()
	defer k.mu.Unlock()
	delete(k.pressed, key)
}

func (k *keyState) Held() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.pressed)
}

func (k *keyState) Reset() {
	k.mu.Lock()
	defer k.mu.Unlock()
	clear(k.pressed)
	k.dragging = false
	k.dx, k.dy = 0, 0
}

func (k *keyState) MouseDown(x, y int32) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.dragging = true
	k.lastX, k.lastY = x, y
}

func (k *keyState) MouseUp() {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.dragging = false
}

func (k *keyState) MouseMove(x, y int32) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.dragging {
		k.dx += float32(x - k.lastX)
		k.dy += float32(y - k.lastY)
	}
	k.lastX, k.lastY = x, y
}

func (k *keyState) TakeMouseDelta() (dx, dy float32) {
	k.mu.Lock()
	defer k.mu.Unlock()
	dx, dy = k.dx, k.dy
	k.dx, k.dy = 0, 0
	return dx, dy
}

func (k *keyState) Bind(src Source) {
	src.SetKeyDownCallback(k.Press)
	src.SetKeyUpCallback(k.Release)
	src.SetRightMouseDownCallback(k.MouseDown)
	src.SetRightMouseUpCallback(func(_, _ int32) { k.MouseUp() })
	src.SetMouseMoveCallback(k.MouseMove)
}
