package pipeline

import (
	"github.com/conveyor/conveyor/pkg/logger"
	"github.com/conveyor/conveyor/pkg/types"
)

// transform is the middle stage. It applies the value transformation,
// emits one feedback record per consumed item back to the producer, and
// forwards the transformed item downstream.
type transform struct {
	channels *channelSet
	state    *types.State
	log      logger.Logger

	processed int
	status    types.StageStatus
}

func newTransform(channels *channelSet, state *types.State, log logger.Logger) *transform {
	return &transform{
		channels: channels,
		state:    state,
		log:      log.WithStage(string(types.StageTransform)),
	}
}

// run consumes items until the terminal marker arrives, then forwards the
// marker downstream. For each item the feedback enqueue happens before the
// downstream enqueue, so the producer can observe feedback for item i while
// building item i+1 if the scheduler lines up. That ordering is
// opportunistic, never guaranteed.
func (t *transform) run() error {
	t.status = types.StageStatusRunning

	for {
		item := <-t.channels.toTransform
		if item == nil {
			break
		}

		item.Value = item.Value*2 + 1
		item.Processed = true
		t.processed++

		t.channels.feedback <- types.FeedbackRecord{
			SourceItemID: item.ID,
			Suggestion:   types.SuggestionIncreaseRate,
			Metric:       t.processed,
		}

		t.log.Debug("transformed item",
			logger.WithField("id", item.ID),
			logger.WithField("value", item.Value),
			logger.WithField("processed", t.processed))

		t.channels.toConsumer <- item
	}

	t.status = types.StageStatusDraining
	t.state.DoneProcessing = true

	t.channels.toConsumer <- nil
	t.status = types.StageStatusStopped

	t.log.Debug("transform stopped", logger.WithField("processed", t.processed))

	return nil
}
