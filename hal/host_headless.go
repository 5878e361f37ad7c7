//go:build !tinygo

package hal

import (
	"context"
	"fmt"
	"time"
)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	Enabled    bool
	Hz         int
	Ticks      uint64
	StepBudget int
	Host       HostConfig
	// Screenshot, if set, receives the final frame (.png or .bmp).
	Screenshot string
	// Script is fed to the pointer, one event per tick, before any real input.
	Script []PointerEvent
}

// RunHeadless runs the compositor without opening a window.
func RunHeadless(ctx context.Context, newApp func(HAL) func() error, cfg HeadlessConfig) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 60
	}
	if cfg.StepBudget <= 0 {
		cfg.StepBudget = 1
	}

	h := newHost(cfg.Host)
	step := newApp(h)

	d := time.Second / time.Duration(cfg.Hz)
	if d <= 0 {
		return fmt.Errorf("invalid headless hz: %d", cfg.Hz)
	}
	t := time.NewTicker(d)
	defer t.Stop()

	var tick uint64
	err := func() error {
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-t.C:
				if tick < uint64(len(cfg.Script)) {
					select {
					case h.ptr.ch <- cfg.Script[tick]:
					default:
					}
				}
				h.t.advance()
				if step != nil {
					for i := 0; i < cfg.StepBudget; i++ {
						if err := step(); err != nil {
							return err
						}
					}
				}
				tick++
				if cfg.Ticks > 0 && tick >= cfg.Ticks {
					return nil
				}
			}
		}
	}()

	if cfg.Screenshot != "" {
		if serr := WriteScreenshot(h.fb, cfg.Screenshot); serr != nil {
			return serr
		}
		h.logger.WriteLineString("screenshot written to " + cfg.Screenshot)
	}
	return err
}
