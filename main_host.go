//go:build !tinygo

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"glaze/app"
	"glaze/hal"
)

func main() {
	var cfg hal.HeadlessConfig
	var appCfg app.Config
	var tui bool
	var format string
	flag.BoolVar(&cfg.Enabled, "headless", false, "Run without a window.")
	flag.IntVar(&cfg.Hz, "hz", 60, "Tick rate in headless and terminal mode.")
	flag.Uint64Var(&cfg.Ticks, "ticks", 0, "Stop after N ticks in headless mode (0 = run forever).")
	flag.StringVar(&cfg.Screenshot, "screenshot", "", "Write the last headless frame to this .png or .bmp file.")
	flag.BoolVar(&tui, "tui", false, "Render into the terminal instead of a window.")
	flag.IntVar(&cfg.Host.Width, "width", 1024, "Framebuffer width in pixels.")
	flag.IntVar(&cfg.Host.Height, "height", 768, "Framebuffer height in pixels.")
	flag.StringVar(&format, "format", "bgr", "Framebuffer pixel format: rgb or bgr.")
	flag.BoolVar(&appCfg.DoubleBuffered, "double-buffer", false, "Composite off-screen and copy damaged regions.")
	flag.BoolVar(&appCfg.ConsoleLog, "console-log", false, "Mirror log lines onto the desktop console.")
	flag.TextVar(&appCfg.LogLevel, "log-level", slog.LevelInfo, "Log level: debug, info, warn or error.")
	flag.Parse()

	switch format {
	case "rgb":
		cfg.Host.Format = hal.PixelFormatRGB8888
	case "bgr":
		cfg.Host.Format = hal.PixelFormatBGR8888
	default:
		fmt.Fprintf(os.Stderr, "unknown -format %q\n", format)
		os.Exit(2)
	}

	newApp := func(h hal.HAL) func() error {
		return app.NewWithConfig(h, appCfg)
	}

	var err error
	switch {
	case cfg.Enabled:
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		err = hal.RunHeadless(ctx, newApp, cfg)
	case tui:
		// The terminal is the display; log lines would tear it.
		cfg.Host.Log = io.Discard
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		err = hal.RunTerminal(ctx, newApp, hal.TerminalConfig{Hz: cfg.Hz, Host: cfg.Host})
	default:
		err = hal.RunWindow(newApp, cfg.Host)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
