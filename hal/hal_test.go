package hal

import (
	"bytes"
	"context"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/image/bmp"
)

type lineLogger struct {
	lines []string
}

func (l *lineLogger) WriteLineString(s string) { l.lines = append(l.lines, s) }
func (l *lineLogger) WriteLineBytes(b []byte)  { l.lines = append(l.lines, string(b)) }

func TestLogWriterSplitsLines(t *testing.T) {
	l := &lineLogger{}
	w := LogWriter(l)

	for _, chunk := range []string{"level=INFO msg=a\nlevel=", "WARN msg=b\r\n", "tail"} {
		if n, err := w.Write([]byte(chunk)); n != len(chunk) || err != nil {
			t.Fatalf("Write(%q) = %d, %v", chunk, n, err)
		}
	}
	want := []string{"level=INFO msg=a", "level=WARN msg=b"}
	if len(l.lines) != len(want) {
		t.Fatalf("lines = %q, want %q", l.lines, want)
	}
	for i := range want {
		if l.lines[i] != want[i] {
			t.Fatalf("line %d = %q, want %q", i, l.lines[i], want[i])
		}
	}

	w.Write([]byte("\n"))
	if got := l.lines[len(l.lines)-1]; got != "tail" {
		t.Fatalf("held line = %q, want %q", got, "tail")
	}
}

func TestFramebufferFormats(t *testing.T) {
	for _, f := range []PixelFormat{PixelFormatRGB8888, PixelFormatBGR8888} {
		fb := newHostFramebuffer(3, 2, f)
		fb.ClearRGB(10, 20, 30)
		if fb.StrideBytes() != 12 || len(fb.Buffer()) != 24 {
			t.Fatalf("%s: stride %d, len %d", f, fb.StrideBytes(), len(fb.Buffer()))
		}
		want := []byte{10, 20, 30, 0}
		if f == PixelFormatBGR8888 {
			want = []byte{30, 20, 10, 0}
		}
		if got := fb.Buffer()[20:24]; !bytes.Equal(got, want) {
			t.Fatalf("%s: last pixel = %v, want %v", f, got, want)
		}

		rgba := make([]byte, 3*2*4)
		fb.snapshotRGBA(rgba)
		if got := rgba[20:24]; !bytes.Equal(got, []byte{10, 20, 30, 0xFF}) {
			t.Fatalf("%s: snapshot pixel = %v", f, got)
		}
	}
}

func TestPointerReportsDeltas(t *testing.T) {
	p := newHostPointer(50, 50)
	p.report(50, 50, 0)
	p.report(60, 45, 0)
	p.report(60, 45, ButtonLeft)
	p.report(55, 45, ButtonLeft)

	want := []PointerEvent{
		{DX: 10, DY: -5},
		{Buttons: ButtonLeft},
		{DX: -5, Buttons: ButtonLeft},
	}
	for i, w := range want {
		select {
		case got := <-p.Events():
			if got != w {
				t.Fatalf("event %d = %+v, want %+v", i, got, w)
			}
		default:
			t.Fatalf("event %d missing", i)
		}
	}
	select {
	case ev := <-p.Events():
		t.Fatalf("unexpected event %+v", ev)
	default:
	}
}

func TestWriteScreenshot(t *testing.T) {
	fb := newHostFramebuffer(4, 3, PixelFormatBGR8888)
	fb.ClearRGB(200, 100, 50)
	dir := t.TempDir()

	for _, name := range []string{"shot.png", "shot.BMP"} {
		path := filepath.Join(dir, name)
		if err := WriteScreenshot(fb, path); err != nil {
			t.Fatalf("WriteScreenshot(%s) error = %v", name, err)
		}
		f, err := os.Open(path)
		if err != nil {
			t.Fatal(err)
		}
		decode := png.Decode
		if filepath.Ext(name) == ".BMP" {
			decode = bmp.Decode
		}
		img, err := decode(f)
		f.Close()
		if err != nil {
			t.Fatalf("decode %s: %v", name, err)
		}
		if b := img.Bounds(); b.Dx() != 4 || b.Dy() != 3 {
			t.Fatalf("%s bounds = %v", name, b)
		}
		r, g, b, _ := img.At(3, 2).RGBA()
		if r>>8 != 200 || g>>8 != 100 || b>>8 != 50 {
			t.Fatalf("%s pixel = %d,%d,%d", name, r>>8, g>>8, b>>8)
		}
	}
}

func TestRunHeadless(t *testing.T) {
	shot := filepath.Join(t.TempDir(), "out.png")
	var got []PointerEvent
	steps := 0
	newApp := func(h HAL) func() error {
		fb := h.Display().Framebuffer()
		ptr := h.Input().Pointer()
		return func() error {
			steps++
			for {
				select {
				case ev := <-ptr.Events():
					got = append(got, ev)
				default:
					fb.ClearRGB(1, 2, 3)
					return fb.Present()
				}
			}
		}
	}
	cfg := HeadlessConfig{
		Hz:         1000,
		Ticks:      4,
		StepBudget: 2,
		Host:       HostConfig{Width: 8, Height: 8, Log: &bytes.Buffer{}},
		Screenshot: shot,
		Script:     []PointerEvent{{DX: 1}, {DY: 2, Buttons: ButtonLeft}},
	}
	if err := RunHeadless(context.Background(), newApp, cfg); err != nil {
		t.Fatalf("RunHeadless() error = %v", err)
	}
	if steps != 8 {
		t.Fatalf("steps = %d, want 8", steps)
	}
	if len(got) != 2 || got[1].Buttons != ButtonLeft {
		t.Fatalf("pointer events = %+v", got)
	}
	if _, err := os.Stat(shot); err != nil {
		t.Fatalf("screenshot missing: %v", err)
	}
}

func TestSnapshotRejectsShortBuffer(t *testing.T) {
	fb := newHostFramebuffer(4, 4, PixelFormatRGB8888)
	fb.buf = fb.buf[:10]
	if _, err := Snapshot(fb); err == nil {
		t.Fatalf("Snapshot() accepted a short buffer")
	}
}

func TestTerminalViewMapping(t *testing.T) {
	v := &terminalView{fb: newHostFramebuffer(100, 60, PixelFormatRGB8888)}
	v.resize(50, 30)
	if x, y := v.toPixel(25, 15); x != 50 || y != 30 {
		t.Fatalf("toPixel(25,15) = %d,%d; want 50,30", x, y)
	}
	v.resize(0, 0)
	if v.cols != 1 || v.rows != 1 {
		t.Fatalf("resize(0,0) = %d,%d", v.cols, v.rows)
	}
}

func TestPumpEventsStopsWhenDone(t *testing.T) {
	poll := func() tcell.Event { return tcell.NewEventInterrupt(nil) }
	out := make(chan tcell.Event, 1)
	done := make(chan struct{})
	exited := make(chan struct{})
	go func() {
		pumpEvents(done, poll, out)
		close(exited)
	}()

	<-out
	close(done)
	select {
	case <-exited:
	case <-time.After(time.Second):
		t.Fatalf("pumpEvents() still blocked after done")
	}
}

func TestPumpEventsStopsOnNil(t *testing.T) {
	n := 0
	poll := func() tcell.Event {
		n++
		if n > 2 {
			return nil
		}
		return tcell.NewEventInterrupt(n)
	}
	out := make(chan tcell.Event, 4)
	pumpEvents(make(chan struct{}), poll, out)
	if len(out) != 2 {
		t.Fatalf("forwarded %d events, want 2", len(out))
	}
}

func TestHostTimeTicksMilliseconds(t *testing.T) {
	clock := time.Unix(100, 0)
	ht := newHostTime()
	ht.now = func() time.Time { return clock }

	drain := func() []uint64 {
		var out []uint64
		for {
			select {
			case v := <-ht.Ticks():
				out = append(out, v)
			default:
				return out
			}
		}
	}

	ht.advance()
	if got := drain(); len(got) != 1 || got[0] != 1 {
		t.Fatalf("first advance = %v, want [1]", got)
	}

	clock = clock.Add(2500 * time.Microsecond)
	ht.advance()
	if got := drain(); len(got) != 2 || got[1] != 3 {
		t.Fatalf("after 2.5ms = %v, want [2 3]", got)
	}

	// The half millisecond carried over completes the next tick.
	clock = clock.Add(500 * time.Microsecond)
	ht.advance()
	if got := drain(); len(got) != 1 || got[0] != 4 {
		t.Fatalf("after carry = %v, want [4]", got)
	}

	clock = clock.Add(2 * time.Second)
	ht.advance()
	got := drain()
	if len(got) != cap(ht.ch) {
		t.Fatalf("delivered %d ticks, want %d", len(got), cap(ht.ch))
	}
	if ht.seq != 2004 {
		t.Fatalf("seq = %d, want 2004", ht.seq)
	}
}
