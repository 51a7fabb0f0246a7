package pipeline

import (
	"github.com/conveyor/conveyor/pkg/logger"
	"github.com/conveyor/conveyor/pkg/types"
)

// consumer is the final stage. It accumulates transformed items in arrival
// order until the terminal marker is consumed.
type consumer struct {
	channels *channelSet
	log      logger.Logger

	results []*types.WorkItem
	status  types.StageStatus
}

func newConsumer(channels *channelSet, log logger.Logger) *consumer {
	return &consumer{
		channels: channels,
		log:      log.WithStage(string(types.StageConsumer)),
	}
}

// run collects items until the marker arrives. The result order equals
// production order: both forward channels are strictly FIFO and the
// transform stage processes its input in FIFO order. The marker itself is
// never collected.
func (c *consumer) run() error {
	c.status = types.StageStatusRunning

	for {
		item := <-c.channels.toConsumer
		if item == nil {
			break
		}
		c.results = append(c.results, item)
	}

	// No forwarding step here: the consumer goes straight from seeing the
	// marker to stopped.
	c.status = types.StageStatusStopped

	c.log.Debug("consumer stopped", logger.WithField("collected", len(c.results)))

	return nil
}
