package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/1broseidon/xlayout/internal/layout"
	"github.com/1broseidon/xlayout/internal/x11"
)

func runWatch(args []string) int {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	configPath := fs.String("config", "", "Config file path (default: ~/.config/xlayout/config.yaml)")

	if len(args) > 0 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help") {
		fmt.Fprintln(os.Stderr, "Usage: xlayout watch [--config PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Watch for monitor hotplug events and reapply the auto layout after")
		fmt.Fprintln(os.Stderr, "each change. Runs in the foreground; only one instance can run at a")
		fmt.Fprintln(os.Stderr, "time.")
		return 0
	}

	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "watch takes no arguments")
		return 1
	}

	eng, cfg, err := loadEngine(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	lock, err := acquireLock()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer lock.Release()

	conn, err := x11.NewConnection()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer conn.Close()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Printf("Received %v, shutting down", sig)
		lock.Release()
		conn.Close()
		os.Exit(0)
	}()

	// Settle the current state once before waiting for events.
	if _, reset, err := eng.Apply(layout.KindAuto); err != nil {
		logger.Warn("initial layout failed", "error", err)
	} else if reset {
		logger.Warn("initial layout fell back to a display reset")
	}

	watcher := x11.NewWatcher(conn, time.Duration(cfg.WatchDebounceMS)*time.Millisecond, logger)
	logger.Info("watching for monitor changes")

	err = watcher.Run(func() {
		if monitors, merr := conn.GetMonitors(); merr == nil {
			logger.Info("screen change settled", "monitors", len(monitors))
		} else {
			logger.Info("screen change settled")
		}
		if _, reset, aerr := eng.Apply(layout.KindAuto); aerr != nil {
			logger.Error("layout failed", "error", aerr)
		} else if reset {
			logger.Warn("layout fell back to a display reset")
		}
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
