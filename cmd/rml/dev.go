package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/grindlemire/go-rml/internal/config"
	"github.com/grindlemire/go-rml/internal/devserver"
)

var interruptSignals = []os.Signal{
	os.Interrupt,
	syscall.SIGTERM,
	syscall.SIGINT,
}

// runDev implements the dev subcommand. It watches one .rml file and
// serves a live preview until interrupted.
func runDev(args []string) error {
	addr := ""
	var paths []string

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-addr", "--addr":
			i++
			if i >= len(args) {
				return fmt.Errorf("-addr requires a value")
			}
			addr = args[i]
		default:
			paths = append(paths, args[i])
		}
	}

	if len(paths) != 1 {
		return fmt.Errorf("dev takes exactly one .rml file")
	}
	file := paths[0]
	if _, err := os.Stat(file); err != nil {
		return fmt.Errorf("stat %s: %w", file, err)
	}

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if addr != "" {
		cfg.DevAddress = addr
	}

	if cfg.Environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// stop() or a caught signal makes ctx Done
	ctx, stop := signal.NotifyContext(context.Background(), interruptSignals...)
	defer stop()

	return devserver.NewServer(cfg, file).Run(ctx)
}
