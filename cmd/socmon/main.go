package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/Dicklesworthstone/socmon/internal/config"
	"github.com/Dicklesworthstone/socmon/internal/logging"
	"github.com/Dicklesworthstone/socmon/internal/sampler"
	"github.com/Dicklesworthstone/socmon/internal/snapshot"
	"github.com/Dicklesworthstone/socmon/internal/ui"
)

// Set via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, "socmon:", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	cfg, err := config.FromFlags(args)
	if err != nil {
		return err
	}

	// The dashboard owns the terminal, so only a log file may be written.
	fallback := io.Discard
	if cfg.JSON {
		fallback = stderr
	}
	closeLog, err := logging.Setup(cfg.LogFile, cfg.LogLevel, fallback)
	if err != nil {
		return err
	}
	defer closeLog()
	slog.Debug("starting", "version", version, "config", cfg.ConfigPath, "json", cfg.JSON)

	if cfg.JSON {
		return printSnapshot(cfg, stdout)
	}
	return ui.RunTUI(cfg)
}

func printSnapshot(cfg config.Config, stdout io.Writer) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := sampler.NewCollector(cfg.Sensors, cfg.ReadTimeout)
	if err != nil {
		return err
	}
	rec := snapshot.FromSample(snapshot.Take(ctx, c, cfg.Interval))

	enc := json.NewEncoder(stdout)
	if f, ok := stdout.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(rec)
}
