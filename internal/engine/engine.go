// Package engine provides the application-level pipeline runner
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/conveyor/conveyor/pkg/config"
	"github.com/conveyor/conveyor/pkg/logger"
	"github.com/conveyor/conveyor/pkg/notifier"
	"github.com/conveyor/conveyor/pkg/pipeline"
	"github.com/conveyor/conveyor/pkg/types"
)

// Engine runs pipeline passes for a configuration, keeps per-process run
// history, and optionally re-runs when the configuration file changes.
type Engine struct {
	configPath string
	log        logger.Logger
	notifier   *notifier.RunNotifier

	mu      sync.Mutex
	config  *types.PipelineConfig
	history []*types.RunRecord
}

// New creates an engine for the given configuration. configPath may be
// empty when the configuration did not come from a file; Watch requires it.
func New(cfg *types.PipelineConfig, configPath string, log logger.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	notifConfig := notifier.Config{}
	if cfg.Notifications != nil {
		notifConfig = notifier.Config{
			Enabled:      cfg.Notifications.Enabled,
			SuccessSound: cfg.Notifications.SuccessSound,
			FailureSound: cfg.Notifications.FailureSound,
		}
	}

	return &Engine{
		configPath: configPath,
		log:        log,
		notifier:   notifier.New(notifConfig, log),
		config:     cfg,
	}, nil
}

// RunOnce executes a single pipeline pass, stamps it with a run ID, and
// appends it to the history.
func (e *Engine) RunOnce(ctx context.Context) (*types.RunRecord, error) {
	e.mu.Lock()
	cfg := e.config
	e.mu.Unlock()

	record := &types.RunRecord{
		ID:        uuid.New().String(),
		StartedAt: time.Now(),
	}

	e.log.Info("starting pipeline run",
		logger.WithField("runId", record.ID),
		logger.WithField("itemCount", cfg.ItemCount),
		logger.WithField("channelCapacity", cfg.ChannelCapacity))
	e.notifier.NotifyRunStart(record.ID, cfg.ItemCount)

	p, err := pipeline.New(cfg, e.log)
	if err != nil {
		e.notifier.NotifyRunFailure(record.ID, err)
		return nil, err
	}

	result, err := p.Run(ctx)
	if err != nil {
		e.log.Error("pipeline run failed",
			logger.WithField("runId", record.ID),
			logger.WithField("error", err))
		e.notifier.NotifyRunFailure(record.ID, err)
		return nil, err
	}

	record.Result = result

	e.mu.Lock()
	e.history = append(e.history, record)
	e.mu.Unlock()

	e.log.Success("pipeline run complete",
		logger.WithField("runId", record.ID),
		logger.WithField("collected", len(result.Items)),
		logger.WithField("feedbackDrained", result.FeedbackDrained),
		logger.WithField("duration", result.Duration))
	e.notifier.NotifyRunSuccess(record.ID, len(result.Items), result.Duration)

	return record, nil
}

// UpdateConfig swaps in a new configuration for subsequent runs.
func (e *Engine) UpdateConfig(cfg *types.PipelineConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	e.mu.Lock()
	e.config = cfg
	e.mu.Unlock()

	return nil
}

// Config returns the configuration the next run will use.
func (e *Engine) Config() *types.PipelineConfig {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.config
}

// History returns the run records of this process, oldest first.
func (e *Engine) History() []*types.RunRecord {
	e.mu.Lock()
	defer e.mu.Unlock()

	records := make([]*types.RunRecord, len(e.history))
	copy(records, e.history)
	return records
}

// Watch performs an initial run, then re-runs the pipeline whenever the
// configuration file changes, until the context is cancelled. Invalid
// reloaded configurations are logged and skipped, never fatal to the watch.
func (e *Engine) Watch(ctx context.Context) error {
	if e.configPath == "" {
		return fmt.Errorf("watch requires a configuration file path")
	}

	rm := config.NewReloadManager(e.configPath, e.log)
	rm.AddCallback(func(cfg *types.PipelineConfig, err error) {
		if err != nil {
			e.log.Warn("ignoring config reload error", logger.WithField("error", err))
			return
		}
		if err := e.UpdateConfig(cfg); err != nil {
			e.log.Warn("ignoring invalid reloaded config", logger.WithField("error", err))
			return
		}
		if _, err := e.RunOnce(ctx); err != nil {
			e.log.Error("reload-triggered run failed", logger.WithField("error", err))
		}
	})

	if err := rm.StartWatching(); err != nil {
		return fmt.Errorf("failed to watch config: %w", err)
	}
	defer func() {
		if err := rm.StopWatching(); err != nil {
			e.log.Warn("error stopping config watcher", logger.WithField("error", err))
		}
	}()

	if _, err := e.RunOnce(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	return nil
}
