//go:build !tinygo

package hal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
)

// TerminalConfig controls the text-mode host runner.
type TerminalConfig struct {
	Hz   int
	Host HostConfig
}

var tcellKeys = map[tcell.Key]KeyCode{
	tcell.KeyUp:         KeyUp,
	tcell.KeyDown:       KeyDown,
	tcell.KeyLeft:       KeyLeft,
	tcell.KeyRight:      KeyRight,
	tcell.KeyEnter:      KeyEnter,
	tcell.KeyBackspace:  KeyBackspace,
	tcell.KeyBackspace2: KeyBackspace,
	tcell.KeyTab:        KeyTab,
	tcell.KeyDelete:     KeyDelete,
	tcell.KeyHome:       KeyHome,
	tcell.KeyEnd:        KeyEnd,
	tcell.KeyF1:         KeyF1,
	tcell.KeyF2:         KeyF2,
	tcell.KeyF3:         KeyF3,
}

// RunTerminal shows the framebuffer in the terminal, two pixels per cell with
// upper half blocks, and forwards keys and mouse. Escape or Ctrl-C quits.
func RunTerminal(ctx context.Context, newApp func(HAL) func() error, cfg TerminalConfig) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 30
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	defer screen.Fini()
	screen.EnableMouse()
	screen.HideCursor()

	h := newHost(cfg.Host)
	step := newApp(h)
	view := &terminalView{fb: h.fb}
	view.resize(screen.Size())

	events := make(chan tcell.Event, 100)
	done := make(chan struct{})
	defer close(done)
	go pumpEvents(done, screen.PollEvent, events)

	t := time.NewTicker(time.Second / time.Duration(cfg.Hz))
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
					return nil
				}
				if ev.Key() == tcell.KeyRune {
					h.kbd.push(KeyEvent{Press: true, Rune: ev.Rune()})
				} else if code, ok := tcellKeys[ev.Key()]; ok {
					h.kbd.push(KeyEvent{Code: code, Press: true})
				}
			case *tcell.EventMouse:
				x, y := view.toPixel(ev.Position())
				var buttons uint8
				if ev.Buttons()&tcell.Button1 != 0 {
					buttons |= ButtonLeft
				}
				if ev.Buttons()&tcell.Button2 != 0 {
					buttons |= ButtonRight
				}
				if ev.Buttons()&tcell.Button3 != 0 {
					buttons |= ButtonMiddle
				}
				h.ptr.report(x, y, buttons)
			case *tcell.EventResize:
				view.resize(screen.Size())
				screen.Sync()
			}
		case <-t.C:
			h.t.advance()
			if step != nil {
				if err := step(); err != nil {
					if errors.Is(err, context.Canceled) {
						return nil
					}
					return err
				}
			}
			view.draw(screen)
			screen.Show()
		}
	}
}

// pumpEvents forwards polled events to out until poll returns nil or done
// is closed.
func pumpEvents(done <-chan struct{}, poll func() tcell.Event, out chan<- tcell.Event) {
	for {
		ev := poll()
		if ev == nil {
			return
		}
		select {
		case out <- ev:
		case <-done:
			return
		}
	}
}

// terminalView scales the framebuffer onto the terminal grid.
type terminalView struct {
	fb         *hostFramebuffer
	cols, rows int
	pix        []byte
}

func (v *terminalView) resize(cols, rows int) {
	v.cols, v.rows = max(cols, 1), max(rows, 1)
}

// toPixel maps a cell to the framebuffer pixel at its top half.
func (v *terminalView) toPixel(col, row int) (int, int) {
	return col * v.fb.width / v.cols, row * v.fb.height / v.rows
}

func (v *terminalView) sample(px, py int) tcell.Color {
	j := (py*v.fb.width + px) * 4
	return tcell.NewRGBColor(int32(v.pix[j]), int32(v.pix[j+1]), int32(v.pix[j+2]))
}

func (v *terminalView) draw(screen tcell.Screen) {
	w, h := v.fb.width, v.fb.height
	if len(v.pix) != w*h*4 {
		v.pix = make([]byte, w*h*4)
	}
	v.fb.snapshotRGBA(v.pix)

	for row := 0; row < v.rows; row++ {
		top := min(2*row*h/(2*v.rows), h-1)
		bottom := min((2*row+1)*h/(2*v.rows), h-1)
		for col := 0; col < v.cols; col++ {
			x := min(col*w/v.cols, w-1)
			style := tcell.StyleDefault.
				Foreground(v.sample(x, top)).
				Background(v.sample(x, bottom))
			screen.SetContent(col, row, '▀', nil, style)
		}
	}
}
