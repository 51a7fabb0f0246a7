package pipeline_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/conveyor/conveyor/pkg/pipeline"
	"github.com/conveyor/conveyor/pkg/types"
)

// TestMain verifies no stage goroutine outlives its run.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func runPipeline(t *testing.T, itemCount, capacity int) *types.RunResult {
	t.Helper()

	cfg := &types.PipelineConfig{
		Version:         "1.0",
		ItemCount:       itemCount,
		ChannelCapacity: capacity,
	}
	p, err := pipeline.New(cfg, nil)
	require.NoError(t, err)

	result, err := p.Run(context.Background())
	require.NoError(t, err)
	return result
}

func TestRun_AllItemsInOrder(t *testing.T) {
	tests := []struct {
		name      string
		itemCount int
		capacity  int
	}{
		{"small run small buffer", 4, 1},
		{"small run large buffer", 4, 64},
		{"medium run", 100, 5},
		{"buffer larger than run", 8, 32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := runPipeline(t, tt.itemCount, tt.capacity)

			require.Len(t, result.Items, tt.itemCount)
			for i, item := range result.Items {
				assert.Equal(t, i, item.ID, "result order must equal production order")
				assert.Equal(t, 2*(i*10)+1, item.Value)
				assert.True(t, item.Processed)
			}
		})
	}
}

func TestRun_EmptyPipeline(t *testing.T) {
	// The terminal marker must propagate through both forward channels
	// even when nothing was produced.
	result := runPipeline(t, 0, 3)

	assert.Empty(t, result.Items)
	assert.Zero(t, result.ItemsProcessed)
	assert.Zero(t, result.FeedbackProduced)
	assert.True(t, result.DoneProducing)
	assert.True(t, result.DoneProcessing)
}

func TestRun_SingleItemUnitCapacity(t *testing.T) {
	// With a single item there is no feedback in flight when the item is
	// built: nothing has been transformed before the producer's only drain.
	result := runPipeline(t, 1, 1)

	require.Len(t, result.Items, 1)
	item := result.Items[0]
	assert.Equal(t, 0, item.ID)
	assert.Equal(t, 1, item.Value)
	assert.True(t, item.Processed)
	assert.Empty(t, item.Adjustments)
	assert.Zero(t, result.FeedbackDrained)
}

func TestRun_AdjustmentsReferenceEarlierItemsOnly(t *testing.T) {
	// An item can never carry feedback about itself or a later item: its
	// feedback record is only created after the item has left the producer.
	result := runPipeline(t, 4, 1)

	require.Len(t, result.Items, 4)
	for _, item := range result.Items {
		for _, adj := range item.Adjustments {
			assert.Less(t, adj.SourceItemID, item.ID,
				"item %d carries feedback about item %d", item.ID, adj.SourceItemID)
			assert.Equal(t, types.SuggestionIncreaseRate, adj.Suggestion)
		}
	}
}

func TestRun_FeedbackAccounting(t *testing.T) {
	// Exactly one feedback record is produced per transformed item no
	// matter how many the producer managed to drain in time.
	for _, capacity := range []int{1, 4, 128} {
		result := runPipeline(t, 32, capacity)

		assert.Equal(t, 32, result.FeedbackProduced)
		assert.LessOrEqual(t, result.FeedbackDrained, result.FeedbackProduced)

		drained := 0
		for _, item := range result.Items {
			drained += len(item.Adjustments)
		}
		assert.Equal(t, result.FeedbackDrained, drained,
			"every drained record must land in exactly one item")
	}
}

func TestRun_IdempotentValues(t *testing.T) {
	// The adjustment contents are timing-dependent, but the transformed
	// values never are.
	first := runPipeline(t, 50, 2)
	second := runPipeline(t, 50, 2)

	require.Len(t, second.Items, len(first.Items))
	for i := range first.Items {
		assert.Equal(t, first.Items[i].ID, second.Items[i].ID)
		assert.Equal(t, first.Items[i].Value, second.Items[i].Value)
		assert.Equal(t, first.Items[i].Processed, second.Items[i].Processed)
	}
}

func TestRun_SamePipelineReusable(t *testing.T) {
	cfg := &types.PipelineConfig{Version: "1.0", ItemCount: 10, ChannelCapacity: 2}
	p, err := pipeline.New(cfg, nil)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		result, err := p.Run(context.Background())
		require.NoError(t, err)
		assert.Len(t, result.Items, 10)
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		config *types.PipelineConfig
	}{
		{"zero capacity", &types.PipelineConfig{Version: "1.0", ItemCount: 5, ChannelCapacity: 0}},
		{"negative capacity", &types.PipelineConfig{Version: "1.0", ItemCount: 5, ChannelCapacity: -2}},
		{"negative item count", &types.PipelineConfig{Version: "1.0", ItemCount: -1, ChannelCapacity: 1}},
		{"bad version", &types.PipelineConfig{Version: "0.9", ItemCount: 5, ChannelCapacity: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := pipeline.New(tt.config, nil)
			assert.Error(t, err)
		})
	}
}

func TestRun_CompletesWithoutHanging(t *testing.T) {
	// A stage that fails to forward its marker wedges everything
	// downstream; surface that as a test timeout rather than swallowing it.
	type outcome struct {
		items []*types.WorkItem
		err   error
	}

	done := make(chan outcome, 1)
	go func() {
		items, err := pipeline.Run(200, 1)
		done <- outcome{items, err}
	}()

	select {
	case out := <-done:
		require.NoError(t, out.err)
		assert.Len(t, out.items, 200)
	case <-time.After(10 * time.Second):
		t.Fatal("pipeline hung: terminal marker was not propagated")
	}
}

func TestRun_ConvenienceWrapper(t *testing.T) {
	items, err := pipeline.Run(4, 1)
	require.NoError(t, err)
	require.Len(t, items, 4)

	_, err = pipeline.Run(4, 0)
	assert.Error(t, err)

	_, err = pipeline.Run(-1, 1)
	assert.Error(t, err)
}
