// Command taskpad is the terminal task manager entrypoint.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"taskpad/internal/app"
	"taskpad/internal/config"
	"taskpad/internal/logging"
	"taskpad/internal/snapshot"
	"taskpad/internal/ui"
)

func main() {
	// Create context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	if err := run(ctx, os.Args[1:]); err != nil {
		if ctx.Err() != nil {
			fmt.Fprintf(os.Stderr, "\nInterrupted\n")
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("taskpad", flag.ContinueOnError)
	cfg, err := config.Load(fs, args)
	if err != nil {
		return err
	}

	logFile, err := logging.OpenLogFile(cfg.DataFile)
	if err != nil {
		return err
	}
	defer logFile.Close()
	logger := logging.New(logFile, cfg)

	store := snapshot.NewFile(cfg.DataFile)
	ctrl := app.New(store, logger, app.WithDebounce(cfg.SaveDebounce()))

	logger.Info("starting", "data_file", cfg.DataFile)
	uiErr := ui.Run(ctx, ctrl)

	// Shutdown flushes pending changes even when the interface failed.
	if err := ctrl.Shutdown(); err != nil {
		logger.Error("final save failed", "err", err)
		if uiErr == nil {
			uiErr = err
		}
	}
	return uiErr
}
