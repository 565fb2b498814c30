package common

// Virtual key codes for cross-platform input handling.
// These values match GLFW key codes which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyW     = 87 // W key (ASCII)
	KeyA     = 65 // A key (ASCII)
	KeyS     = 83 // S key (ASCII)
	KeyD     = 68 // D key (ASCII)
	KeyC     = 67 // C key (ASCII)
	KeyG     = 71 // G key (ASCII)
	KeyT     = 84 // T key (ASCII)
	KeyZ     = 90 // Z key (ASCII)
	KeySpace = 32 // Spacebar (ASCII)

	KeyEsc   = 256 // Escape key (GLFW)
	KeyEnter = 257 // Enter/Return key (GLFW)
	KeyRight = 262 // Right arrow (GLFW)
	KeyLeft  = 263 // Left arrow (GLFW)
	KeyDown  = 264 // Down arrow (GLFW)
	KeyUp    = 265 // Up arrow (GLFW)
)

// Additional non-printable keys
const (
	KeyLeftShift  = 340 // Left Shift (GLFW)
	KeyRightShift = 344 // Right Shift (GLFW)
)

// keyNames maps the key codes above to the names used in replay scripts and config files.
var keyNames = map[string]uint32{
	"W":     KeyW,
	"A":     KeyA,
	"S":     KeyS,
	"D":     KeyD,
	"C":     KeyC,
	"G":     KeyG,
	"T":     KeyT,
	"Z":     KeyZ,
	"SPACE": KeySpace,
	"ESC":   KeyEsc,
	"ENTER": KeyEnter,
	"RIGHT": KeyRight,
	"LEFT":  KeyLeft,
	"DOWN":  KeyDown,
	"UP":    KeyUp,
	"SHIFT": KeyLeftShift,
}

// KeyCode resolves a key name (case-sensitive upper case, e.g. "ENTER", "W") to its key code.
//
// Parameters:
//   - name: the key name
//
// Returns:
//   - uint32: the key code
//   - bool: false if the name is unknown
func KeyCode(name string) (uint32, bool) {
	code, ok := keyNames[name]
	return code, ok
}
