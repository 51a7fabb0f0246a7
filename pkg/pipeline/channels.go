package pipeline

import (
	"fmt"

	"github.com/conveyor/conveyor/pkg/types"
)

// channelSet owns the three links between stages: two bounded forward
// channels and one feedback channel flowing from the transform stage back
// to the producer. A nil *types.WorkItem on a forward channel is the
// terminal marker; the marker is never sent on the feedback channel.
type channelSet struct {
	toTransform chan *types.WorkItem
	toConsumer  chan *types.WorkItem
	feedback    chan types.FeedbackRecord
}

// newChannelSet builds the channel set for a run of itemCount items.
// Capacity misconfiguration fails fast here, before any stage starts.
//
// The feedback channel is sized to itemCount (minimum 1) rather than to the
// forward capacity: exactly itemCount records are ever produced, so the
// transform stage's blocking feedback enqueue can never wedge after the
// producer stops draining.
func newChannelSet(itemCount, capacity int) (*channelSet, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("channel capacity must be positive, got %d", capacity)
	}
	if itemCount < 0 {
		return nil, fmt.Errorf("item count must be non-negative, got %d", itemCount)
	}

	feedbackCapacity := itemCount
	if feedbackCapacity < 1 {
		feedbackCapacity = 1
	}

	return &channelSet{
		toTransform: make(chan *types.WorkItem, capacity),
		toConsumer:  make(chan *types.WorkItem, capacity),
		feedback:    make(chan types.FeedbackRecord, feedbackCapacity),
	}, nil
}

// tryRecvFeedback polls the feedback channel without blocking. The producer
// must never wait for feedback, only pick up whatever is available at the
// instant of the check.
func (cs *channelSet) tryRecvFeedback() (types.FeedbackRecord, bool) {
	select {
	case record := <-cs.feedback:
		return record, true
	default:
		return types.FeedbackRecord{}, false
	}
}
