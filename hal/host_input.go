//go:build !tinygo

package hal

type hostKeyboard struct {
	ch chan KeyEvent
}

func newHostKeyboard() *hostKeyboard {
	return &hostKeyboard{ch: make(chan KeyEvent, 64)}
}

func (k *hostKeyboard) Events() <-chan KeyEvent { return k.ch }

// push drops the event if the app is not keeping up.
func (k *hostKeyboard) push(ev KeyEvent) {
	select {
	case k.ch <- ev:
	default:
	}
}

// hostPointer turns absolute host mouse positions into relative reports.
type hostPointer struct {
	ch      chan PointerEvent
	x, y    int
	buttons uint8
}

func newHostPointer(x, y int) *hostPointer {
	return &hostPointer{ch: make(chan PointerEvent, 64), x: x, y: y}
}

func (p *hostPointer) Events() <-chan PointerEvent { return p.ch }

// report emits a PointerEvent if the position or buttons changed.
func (p *hostPointer) report(x, y int, buttons uint8) {
	if x == p.x && y == p.y && buttons == p.buttons {
		return
	}
	ev := PointerEvent{DX: x - p.x, DY: y - p.y, Buttons: buttons}
	select {
	case p.ch <- ev:
		p.x, p.y, p.buttons = x, y, buttons
	default:
	}
}
