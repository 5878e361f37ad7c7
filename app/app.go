package app

import (
	"fmt"
	"io"
	"log/slog"

	"glaze/gfx/desktop"
	"glaze/gfx/geom"
	"glaze/gfx/layer"
	"glaze/gfx/surface"
	"glaze/hal"
	"glaze/internal/buildinfo"
)

type Config struct {
	DoubleBuffered bool
	LogLevel       slog.Level
	// ConsoleLog mirrors app log lines onto the desktop console.
	ConsoleLog bool
}

type system struct {
	h    hal.HAL
	fb   hal.Framebuffer
	desk *desktop.Context
	log  *slog.Logger

	lastSecond uint64
}

// New initializes the desktop with default config.
func New(h hal.HAL) func() error {
	return NewWithConfig(h, Config{})
}

// NewWithConfig builds the desktop on h's framebuffer and returns the
// per-tick step function.
func NewWithConfig(h hal.HAL, cfg Config) func() error {
	sink := hal.LogWriter(h.Logger())
	layer.SetLogger(slog.New(slog.NewTextHandler(sink, &slog.HandlerOptions{Level: cfg.LogLevel})))

	s, err := newSystem(h, cfg, sink)
	if err != nil {
		h.Logger().WriteLineString("glaze: " + err.Error())
		if fb := h.Display().Framebuffer(); fb != nil {
			showFatal(fb, err)
		}
		return func() error { return nil }
	}
	return s.step
}

func newSystem(h hal.HAL, cfg Config, sink io.Writer) (*system, error) {
	fb := h.Display().Framebuffer()
	if fb == nil {
		return nil, fmt.Errorf("no framebuffer")
	}
	target, err := framebufferSurface(fb)
	if err != nil {
		return nil, err
	}
	desk, err := desktop.New(target, desktop.Config{DoubleBuffered: cfg.DoubleBuffered})
	if err != nil {
		return nil, err
	}

	w := sink
	if cfg.ConsoleLog {
		w = io.MultiWriter(sink, desk.Console())
	}
	s := &system{
		h:    h,
		fb:   fb,
		desk: desk,
		log:  slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: cfg.LogLevel})),
	}

	fmt.Fprintf(desk.Console(), "glaze %s\n%dx%d %s\n> ", buildinfo.Short(), fb.Width(), fb.Height(), fb.Format())
	s.log.Info("system up", slog.String("version", buildinfo.Short()))
	return s, nil
}

// framebufferSurface wraps the framebuffer memory without copying it.
func framebufferSurface(fb hal.Framebuffer) (*surface.Surface, error) {
	var f surface.Format
	switch fb.Format() {
	case hal.PixelFormatRGB8888:
		f = surface.FormatRGB
	case hal.PixelFormatBGR8888:
		f = surface.FormatBGR
	default:
		return nil, fmt.Errorf("framebuffer %s: %w", fb.Format(), surface.ErrUnknownPixelFormat)
	}
	return surface.New(surface.Config{
		Width:  fb.Width(),
		Height: fb.Height(),
		Stride: fb.StrideBytes() / surface.BytesPerPixel,
		Format: f,
		Buffer: fb.Buffer(),
	})
}

func (s *system) step() error {
	in := s.h.Input()
	var keys <-chan hal.KeyEvent
	var ptr <-chan hal.PointerEvent
	if in != nil {
		if k := in.Keyboard(); k != nil {
			keys = k.Events()
		}
		if p := in.Pointer(); p != nil {
			ptr = p.Events()
		}
	}
	var ticks <-chan uint64
	if t := s.h.Time(); t != nil {
		ticks = t.Ticks()
	}

	for {
		select {
		case ev := <-keys:
			s.handleKey(ev)
		case ev := <-ptr:
			s.desk.HandlePointer(desktop.PointerEvent{
				Delta:   geom.Vec(ev.DX, ev.DY),
				Buttons: desktop.Buttons(ev.Buttons),
			})
		case seq := <-ticks:
			s.handleTick(seq)
		default:
			return s.fb.Present()
		}
	}
}

func (s *system) handleKey(ev hal.KeyEvent) {
	if !ev.Press {
		return
	}
	con := s.desk.Console()
	switch {
	case ev.Rune == 0x0c:
		if err := con.Clear(); err != nil {
			s.log.Warn("clear console", slog.Any("err", err))
		}
	case ev.Rune >= ' ':
		fmt.Fprintf(con, "%c", ev.Rune)
	case ev.Code == hal.KeyEnter:
		con.WriteString("\n> ")
	case ev.Code == hal.KeyBackspace:
		con.WriteString("\b")
	case ev.Code == hal.KeyTab:
		con.WriteString("\t")
	case ev.Code == hal.KeyF1:
		s.desk.ToggleGroup()
		s.log.Info("group layer toggled")
	case ev.Code == hal.KeyF2:
		s.desk.Redraw()
	}
}

// handleTick refreshes the uptime shown in the taskbar once per second.
// Host ticks are milliseconds.
func (s *system) handleTick(seq uint64) {
	sec := seq / 1000
	if sec == s.lastSecond {
		return
	}
	s.lastSecond = sec
	if err := s.desk.SetStatus(fmt.Sprintf("up %ds", sec)); err != nil {
		s.log.Warn("status", slog.Any("err", err))
	}
}
