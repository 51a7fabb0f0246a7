package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/conveyor/conveyor/internal/engine"
	"github.com/conveyor/conveyor/pkg/config"
	"github.com/conveyor/conveyor/pkg/logger"
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run the pipeline and re-run it on configuration changes",
		Long: `Start Conveyor in watch mode. It runs the pipeline once, then watches
the configuration file and re-runs the pipeline whenever the file changes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch()
		},
	}

	return cmd
}

func runWatch() error {
	// Create root context for the entire operation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Watch mode needs a config file to watch
	configPath := getConfigPath()
	cfg, err := config.NewManager().LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Create logger
	log := logger.CreateLogger("", verbosity)

	e, err := engine.New(cfg, configPath, log)
	if err != nil {
		return err
	}

	printInfo(fmt.Sprintf("Starting Conveyor v%s", version))
	printInfo(fmt.Sprintf("Watching %s", configPath))

	// Handle shutdown signals with proper context cancellation
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	watchDone := make(chan error, 1)
	go func() {
		watchDone <- e.Watch(ctx)
	}()

	select {
	case sig := <-sigChan:
		printInfo(fmt.Sprintf("Received signal: %s", sig))
		cancel()
		if err := <-watchDone; err != nil && err != context.Canceled {
			printWarning(fmt.Sprintf("Watch error during shutdown: %v", err))
		}
	case err := <-watchDone:
		if err != nil {
			return err
		}
	}

	printSuccess("Conveyor stopped gracefully")
	return nil
}
