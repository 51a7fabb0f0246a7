package pipeline

import (
	"github.com/conveyor/conveyor/pkg/logger"
	"github.com/conveyor/conveyor/pkg/types"
)

// producer is the first stage. It generates a bounded sequence of work
// items, draining any pending feedback into the item currently being built
// before each enqueue.
type producer struct {
	channels *channelSet
	state    *types.State
	log      logger.Logger

	count   int
	drained int
	status  types.StageStatus
}

func newProducer(channels *channelSet, state *types.State, log logger.Logger, count int) *producer {
	return &producer{
		channels: channels,
		state:    state,
		log:      log.WithStage(string(types.StageProducer)),
		count:    count,
	}
}

// run produces exactly p.count items with sequential ids and value id*10,
// then forwards the terminal marker. The feedback drain is opportunistic:
// records are attached to the item being built in drain order, and whatever
// has not arrived by the check point simply rides along to a later item (or
// is never drained at all). The set of adjustments on a given item is
// timing-dependent on purpose; only the transformed values are deterministic.
func (p *producer) run() error {
	p.status = types.StageStatusRunning

	for i := 0; i < p.count; i++ {
		item := &types.WorkItem{ID: i, Value: i * 10}

		for {
			record, ok := p.channels.tryRecvFeedback()
			if !ok {
				break
			}
			p.drained++
			item.Adjustments = append(item.Adjustments, record)
		}

		p.log.Debug("produced item",
			logger.WithField("id", item.ID),
			logger.WithField("value", item.Value),
			logger.WithField("adjustments", len(item.Adjustments)))

		p.channels.toTransform <- item
	}

	p.status = types.StageStatusDraining
	p.state.DoneProducing = true

	// The marker must be forwarded unconditionally, even for count == 0;
	// downstream stages block forever without it.
	p.channels.toTransform <- nil
	p.status = types.StageStatusStopped

	p.log.Debug("producer stopped",
		logger.WithField("produced", p.count),
		logger.WithField("feedbackDrained", p.drained))

	return nil
}
