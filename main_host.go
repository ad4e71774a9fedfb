package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"nebula/app"
	"nebula/hal"
	"nebula/internal/buildinfo"
	"nebula/particles"
)

func main() {
	var (
		headless hal.HeadlessConfig
		window   hal.WindowConfig
		termCfg  hal.TerminalConfig
		appCfg   app.Config

		term          bool
		version       bool
		hud           bool
		reducedMotion bool
		width, height int
	)
	flag.BoolVar(&headless.Enabled, "headless", false, "Run without a window.")
	flag.IntVar(&headless.Hz, "hz", 60, "Refresh rate in headless and terminal mode.")
	flag.Uint64Var(&headless.Ticks, "ticks", 0, "Stop after N refreshes in headless mode (0 = run forever).")
	flag.StringVar(&headless.Snapshot, "snapshot", "", "Write a PNG of the last headless frame to this path.")
	flag.BoolVar(&headless.Orbit, "orbit", false, "Drive a synthetic pointer in headless mode.")
	flag.BoolVar(&term, "term", false, "Render into the terminal with half-block cells.")
	flag.BoolVar(&reducedMotion, "reduced-motion", false, "Behave as if the user prefers reduced motion.")
	flag.BoolVar(&hud, "hud", false, "Overlay frame rate and particle stats.")
	flag.StringVar(&appCfg.Theme, "theme", "dark", "Color theme: dark or light.")
	flag.IntVar(&appCfg.ParticleCount, "count", 0, "Particle count on wide viewports (0 = default).")
	flag.StringVar(&appCfg.RemoteAddr, "remote", "", "Accept websocket pointer input on this address, e.g. :8090.")
	flag.IntVar(&width, "width", 1280, "Viewport width in logical pixels.")
	flag.IntVar(&height, "height", 720, "Viewport height in logical pixels.")
	flag.BoolVar(&version, "version", false, "Print build information and exit.")
	flag.Parse()

	if version {
		fmt.Println(buildinfo.String())
		return
	}

	if _, ok := particles.ThemeByName(appCfg.Theme); !ok {
		fmt.Fprintf(os.Stderr, "unknown theme %q\n", appCfg.Theme)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	appCfg.Context = ctx

	host := hal.HostConfig{ReducedMotion: reducedMotion}
	if hud {
		appCfg.HUD = app.NewHUD()
		host.Overlay = appCfg.HUD.Draw
	}
	newApp := func(h hal.HAL) func() error { return app.New(h, appCfg) }

	var err error
	switch {
	case headless.Enabled:
		headless.HostConfig = host
		headless.Width, headless.Height = width, height
		err = hal.RunHeadless(ctx, newApp, headless)
	case term:
		termCfg.HostConfig = host
		termCfg.Hz = headless.Hz
		err = hal.RunTerminal(ctx, newApp, termCfg)
	default:
		window.HostConfig = host
		window.Width, window.Height = width, height
		window.Title = "Nebula"
		err = hal.RunWindow(window, newApp)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
