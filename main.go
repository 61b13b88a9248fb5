package main

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"GPUWindow/config"
	"GPUWindow/event"
	"GPUWindow/i18n"
	"GPUWindow/logging"
	"GPUWindow/loop"
	"GPUWindow/platform/desktop"
	"GPUWindow/platform/gpu"
	"GPUWindow/platform/headless"
	"GPUWindow/timer"
)

//go:embed assets/*
var content embed.FS

func main() {
	os.Exit(run(content, os.Stderr))
}

// run builds and runs the application and returns the process exit code.
func run(r config.ContentReader, stderr io.Writer) int {
	cfg, err := config.Load(r)
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", i18n.T("Invalid configuration"), err)
		return 1
	}

	logger, err := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: stderr})
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", i18n.T("Invalid configuration"), err)
		return 1
	}
	slog.SetDefault(logger)

	platform := newPlatform(cfg.Backend, logger)
	el, err := loop.NewBuilder[CustomEvent](platform).
		WithUserEvents(cfg.UserEventCapacity).
		WithControlFlow(cfg.Flow()).
		WithLogger(logger).
		Build()
	if err != nil {
		logger.Error("failed to initialize platform", "error", err)
		fmt.Fprintf(stderr, "%s: %v\n", i18n.T("Could not start the windowing system"), err)
		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if interval := cfg.TimerInterval(); interval > 0 {
		proxy, err := el.Proxy()
		if err != nil {
			logger.Error("custom events unavailable", "error", err)
			return 1
		}
		tk, err := timer.New(interval, CustomEventTimer, proxy, logger)
		if err != nil {
			logger.Error("failed to create timer", "error", err)
			return 1
		}
		go tk.Run(ctx)
	}

	if hp, ok := platform.(*headless.Platform); ok {
		go closeOnSignal(ctx, hp)
	}

	a := NewApp(cfg.WindowAttributes(), logger)
	if err := el.Run(a); err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", i18n.T("The event loop stopped unexpectedly"), err)
		return 1
	}
	if err := a.Err(); err != nil {
		msg := i18n.T("The event loop stopped unexpectedly")
		if errors.Is(err, loop.ErrWindowCreation) {
			msg = i18n.T("Could not create the window")
		}
		fmt.Fprintf(stderr, "%s: %v\n", msg, err)
		return 1
	}
	return 0
}

// closeOnSignal turns an interrupt into a close request, the headless
// counterpart of the window close button.
func closeOnSignal(ctx context.Context, p *headless.Platform) {
	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	select {
	case <-p.Stopped():
		return
	case <-sigCtx.Done():
	}
	if ctx.Err() != nil {
		return
	}
	windows := p.Windows()
	if len(windows) == 0 {
		p.Terminate()
		return
	}
	for _, w := range windows {
		id := w.ID()
		p.Post(func(s loop.Sink) { s.WindowEvent(id, event.CloseRequested{}) })
	}
}

func newPlatform(backend string, logger *slog.Logger) loop.Platform {
	switch backend {
	case config.BackendGPU:
		return gpu.New(gpu.WithLogger(logger))
	case config.BackendHeadless:
		return headless.New(headless.WithAutoResume(), headless.WithLogger(logger))
	default:
		return desktop.New(desktop.WithLogger(logger))
	}
}
