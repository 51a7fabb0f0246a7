// Package pipeline implements a bounded three-stage producer/consumer
// pipeline with an opportunistic feedback loop.
//
// Items flow producer → transform → consumer over two bounded FIFO
// channels; the transform stage emits one feedback record per item on a
// reverse channel that the producer drains without blocking. Shutdown
// propagates forward through a terminal marker (a nil item) that each stage
// forwards after its input is exhausted. All cross-stage communication
// happens over the channels; the only shared memory is a pair of advisory
// completion flags that no stage ever reads.
package pipeline

import (
	"context"
	"io"
	"time"

	"github.com/conveyor/conveyor/pkg/logger"
	"github.com/conveyor/conveyor/pkg/types"
)

// Pipeline wires and executes one producer/transform/consumer trio.
type Pipeline struct {
	config *types.PipelineConfig
	log    logger.Logger
}

// New validates the configuration and creates a pipeline. The same
// pipeline may be run any number of times; each Run builds a fresh channel
// set and stage trio.
func New(config *types.PipelineConfig, log logger.Logger) (*Pipeline, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.CreateLoggerWithOutput("", "error", io.Discard)
	}

	return &Pipeline{
		config: config,
		log:    log,
	}, nil
}

// Run executes one pipeline pass: it wires the channel set, starts the
// three stages concurrently, waits for all of them to stop, and returns the
// consumer's ordered results together with the run counters.
//
// There is no in-band cancellation beyond the terminal marker; the context
// only scopes the stage group. For a valid configuration every stage
// unconditionally forwards its marker, so Run always terminates.
func (p *Pipeline) Run(ctx context.Context) (*types.RunResult, error) {
	channels, err := newChannelSet(p.config.ItemCount, p.config.ChannelCapacity)
	if err != nil {
		return nil, err
	}

	state := &types.State{}
	prod := newProducer(channels, state, p.log, p.config.ItemCount)
	trans := newTransform(channels, state, p.log)
	cons := newConsumer(channels, p.log)

	p.log.Debug("starting pipeline",
		logger.WithField("itemCount", p.config.ItemCount),
		logger.WithField("channelCapacity", p.config.ChannelCapacity))

	start := time.Now()

	group, _ := NewSafeGroup(ctx, p.log)
	group.Go(prod.run)
	group.Go(trans.run)
	group.Go(cons.run)

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return &types.RunResult{
		Items:            cons.results,
		ItemsProduced:    prod.count,
		ItemsProcessed:   trans.processed,
		FeedbackProduced: trans.processed,
		FeedbackDrained:  prod.drained,
		DoneProducing:    state.DoneProducing,
		DoneProcessing:   state.DoneProcessing,
		Duration:         time.Since(start),
	}, nil
}

// Run is a convenience wrapper that executes a single quiet pipeline pass
// with the given dimensions and returns the collected items.
func Run(itemCount, channelCapacity int) ([]*types.WorkItem, error) {
	cfg := &types.PipelineConfig{
		Version:         "1.0",
		ItemCount:       itemCount,
		ChannelCapacity: channelCapacity,
	}

	p, err := New(cfg, nil)
	if err != nil {
		return nil, err
	}

	result, err := p.Run(context.Background())
	if err != nil {
		return nil, err
	}

	return result.Items, nil
}
