package hal

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

// PixelFormat defines the framebuffer pixel encoding.
type PixelFormat uint8

const (
	// PixelFormatRGB8888 is 32bpp: r, g, b, then an unused byte.
	PixelFormatRGB8888 PixelFormat = iota + 1
	// PixelFormatBGR8888 is 32bpp: b, g, r, then an unused byte.
	PixelFormatBGR8888
)

func (f PixelFormat) String() string {
	switch f {
	case PixelFormatRGB8888:
		return "rgb"
	case PixelFormatBGR8888:
		return "bgr"
	default:
		return "unknown"
	}
}

// Framebuffer is 32bpp memory the root compositor borrows as its target.
// Rows are StrideBytes apart; Present publishes the current contents.
type Framebuffer interface {
	Width() int
	Height() int
	Format() PixelFormat
	StrideBytes() int
	Buffer() []byte
	ClearRGB(r, g, b uint8)
	Present() error
}

// KeyCode is a minimal key identifier.
type KeyCode uint16

const (
	KeyUnknown KeyCode = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyEnter
	KeyEscape
	KeyBackspace
	KeyTab
	KeyDelete
	KeyHome
	KeyEnd
	KeyF1
	KeyF2
	KeyF3
)

// KeyEvent is a keyboard event.
type KeyEvent struct {
	Code  KeyCode
	Press bool
	Rune  rune
}

// Keyboard provides key events.
type Keyboard interface {
	Events() <-chan KeyEvent
}

// Pointer buttons.
const (
	ButtonLeft uint8 = 1 << iota
	ButtonRight
	ButtonMiddle
)

// PointerEvent is a relative mouse report: the movement since the previous
// event and the buttons held now.
type PointerEvent struct {
	DX, DY  int
	Buttons uint8
}

// Pointer provides mouse events.
type Pointer interface {
	Events() <-chan PointerEvent
}

// Display provides access to the framebuffer (if available).
type Display interface {
	Framebuffer() Framebuffer
}

// Input provides access to input devices (if available).
type Input interface {
	Keyboard() Keyboard
	Pointer() Pointer
}

// Time provides a base tick stream. Host ticks are milliseconds and carry
// the elapsed count, so a consumer that misses some can still tell time.
type Time interface {
	Ticks() <-chan uint64
}

// HAL provides the only contact point between the compositor and the outside
// world.
type HAL interface {
	Logger() Logger
	Display() Display
	Input() Input
	Time() Time
}
