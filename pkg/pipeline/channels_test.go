package pipeline

import (
	"io"
	"strings"
	"testing"

	"github.com/conveyor/conveyor/pkg/logger"
	"github.com/conveyor/conveyor/pkg/types"
)

func quietLogger() logger.Logger {
	return logger.CreateLoggerWithOutput("", "error", io.Discard)
}

func TestNewChannelSet_Validation(t *testing.T) {
	tests := []struct {
		name          string
		itemCount     int
		capacity      int
		expectError   bool
		errorContains string
	}{
		{"valid dimensions", 10, 5, false, ""},
		{"unit capacity", 1, 1, false, ""},
		{"zero items", 0, 1, false, ""},
		{"zero capacity", 10, 0, true, "capacity must be positive"},
		{"negative capacity", 10, -1, true, "capacity must be positive"},
		{"negative item count", -1, 5, true, "item count must be non-negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cs, err := newChannelSet(tt.itemCount, tt.capacity)
			if tt.expectError {
				if err == nil {
					t.Fatal("expected construction error, got nil")
				}
				if !strings.Contains(err.Error(), tt.errorContains) {
					t.Errorf("expected error containing %q, got %q", tt.errorContains, err.Error())
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected construction error: %v", err)
			}
			if cap(cs.toTransform) != tt.capacity || cap(cs.toConsumer) != tt.capacity {
				t.Errorf("forward channels should have capacity %d", tt.capacity)
			}
		})
	}
}

func TestNewChannelSet_FeedbackCapacity(t *testing.T) {
	// The feedback channel holds every record a run can produce, so the
	// transform stage's blocking feedback enqueue can never wedge.
	cs, err := newChannelSet(16, 2)
	if err != nil {
		t.Fatal(err)
	}
	if cap(cs.feedback) != 16 {
		t.Errorf("expected feedback capacity 16, got %d", cap(cs.feedback))
	}

	// Zero-item runs still get a usable channel.
	cs, err = newChannelSet(0, 2)
	if err != nil {
		t.Fatal(err)
	}
	if cap(cs.feedback) != 1 {
		t.Errorf("expected feedback capacity 1 for empty run, got %d", cap(cs.feedback))
	}
}

func TestTryRecvFeedback(t *testing.T) {
	cs, err := newChannelSet(4, 1)
	if err != nil {
		t.Fatal(err)
	}

	// Empty channel: the poll must not block and must report nothing.
	if _, ok := cs.tryRecvFeedback(); ok {
		t.Fatal("expected no feedback on empty channel")
	}

	first := types.FeedbackRecord{SourceItemID: 0, Suggestion: types.SuggestionIncreaseRate, Metric: 1}
	second := types.FeedbackRecord{SourceItemID: 1, Suggestion: types.SuggestionIncreaseRate, Metric: 2}
	cs.feedback <- first
	cs.feedback <- second

	got, ok := cs.tryRecvFeedback()
	if !ok || got != first {
		t.Errorf("expected first record %+v, got %+v (ok=%v)", first, got, ok)
	}
	got, ok = cs.tryRecvFeedback()
	if !ok || got != second {
		t.Errorf("expected second record %+v, got %+v (ok=%v)", second, got, ok)
	}
	if _, ok := cs.tryRecvFeedback(); ok {
		t.Fatal("expected drained channel to report no feedback")
	}
}

func TestStageStatuses_AfterRun(t *testing.T) {
	cs, err := newChannelSet(3, 1)
	if err != nil {
		t.Fatal(err)
	}

	state := &types.State{}
	log := quietLogger()
	prod := newProducer(cs, state, log, 3)
	trans := newTransform(cs, state, log)
	cons := newConsumer(cs, log)

	done := make(chan struct{})
	go func() { _ = prod.run(); done <- struct{}{} }()
	go func() { _ = trans.run(); done <- struct{}{} }()
	go func() { _ = cons.run(); done <- struct{}{} }()
	for i := 0; i < 3; i++ {
		<-done
	}

	for name, status := range map[types.StageName]types.StageStatus{
		types.StageProducer:  prod.status,
		types.StageTransform: trans.status,
		types.StageConsumer:  cons.status,
	} {
		if status != types.StageStatusStopped {
			t.Errorf("stage %s: expected status %s, got %s", name, types.StageStatusStopped, status)
		}
	}

	if !state.DoneProducing || !state.DoneProcessing {
		t.Errorf("expected advisory flags set, got %+v", state)
	}
}
