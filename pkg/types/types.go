// Package types provides core types and configurations for Conveyor
package types

import (
	"fmt"
	"time"
)

// StageName identifies one concurrently scheduled unit of the pipeline
type StageName string

const (
	StageProducer  StageName = "producer"
	StageTransform StageName = "transform"
	StageConsumer  StageName = "consumer"
)

// StageStatus represents the lifecycle state of a single stage.
// Statuses are advisory: termination is always driven by the terminal
// marker on the forward channels, never by polling a status.
type StageStatus string

const (
	// StageStatusRunning means the stage is consuming or producing items.
	StageStatusRunning StageStatus = "running"
	// StageStatusDraining means the stage's input is exhausted and it is
	// about to forward the terminal marker.
	StageStatusDraining StageStatus = "draining"
	// StageStatusStopped means the marker has been forwarded (or consumed,
	// for the final stage) and the stage has returned. Terminal.
	StageStatusStopped StageStatus = "stopped"
)

// SuggestionIncreaseRate is the fixed suggestion tag attached to every
// feedback record emitted by the transform stage.
const SuggestionIncreaseRate = "increase_rate"

// FeedbackRecord is a downstream-to-upstream advisory message describing
// processing progress. Created exactly once per transformed item and never
// mutated afterwards.
type FeedbackRecord struct {
	SourceItemID int    `json:"sourceItemId"`
	Suggestion   string `json:"suggestion"`
	Metric       int    `json:"metric"`
}

// WorkItem is the unit of work flowing through the pipeline. The producer
// creates it, the transform stage mutates Value and Processed in place, and
// it is read-only once it reaches the consumer. Ownership transfers fully at
// each channel handoff.
type WorkItem struct {
	ID          int              `json:"id"`
	Value       int              `json:"value"`
	Adjustments []FeedbackRecord `json:"adjustments,omitempty"`
	Processed   bool             `json:"processed"`
}

// State holds the process-wide advisory completion flags. Each flag is
// written exactly once by its owning stage and must only be read after the
// run has completed; the flags exist for external observability and are
// never consulted for loop termination.
type State struct {
	DoneProducing  bool
	DoneProcessing bool
}

// RunResult is the outcome of a single pipeline pass.
type RunResult struct {
	// Items is the consumer's ordered result collection.
	Items []*WorkItem

	// ItemsProduced is the number of items the producer emitted.
	ItemsProduced int
	// ItemsProcessed is the transform stage's processed counter.
	ItemsProcessed int
	// FeedbackProduced is the total number of feedback records emitted.
	FeedbackProduced int
	// FeedbackDrained is the number of feedback records the producer
	// actually drained into item adjustments. Timing-dependent: always
	// less than or equal to FeedbackProduced.
	FeedbackDrained int

	DoneProducing  bool
	DoneProcessing bool

	Duration time.Duration
}

// RunRecord is a history entry for one engine-level pipeline run.
type RunRecord struct {
	ID        string     `json:"id"`
	StartedAt time.Time  `json:"startedAt"`
	Result    *RunResult `json:"result,omitempty"`
}

// NotificationConfig controls desktop notifications for run completion
type NotificationConfig struct {
	Enabled      bool   `json:"enabled"`
	SuccessSound string `json:"successSound,omitempty"`
	FailureSound string `json:"failureSound,omitempty"`
}

// PipelineConfig is the root configuration for a pipeline run
type PipelineConfig struct {
	Version         string              `json:"version"`
	ItemCount       int                 `json:"itemCount"`
	ChannelCapacity int                 `json:"channelCapacity"`
	Notifications   *NotificationConfig `json:"notifications,omitempty"`
}

// Default pipeline dimensions, matching the classic 500-record bounded run.
const (
	DefaultItemCount       = 500
	DefaultChannelCapacity = 5
)

// DefaultConfig returns a configuration with the default dimensions.
func DefaultConfig() *PipelineConfig {
	return &PipelineConfig{
		Version:         "1.0",
		ItemCount:       DefaultItemCount,
		ChannelCapacity: DefaultChannelCapacity,
	}
}

// Validate checks the configuration for construction-time errors. Capacity
// misconfiguration fails fast here rather than surfacing as a wedged run.
func (c *PipelineConfig) Validate() error {
	if c.Version != "1.0" {
		return fmt.Errorf("unsupported config version: %s", c.Version)
	}
	if c.ItemCount < 0 {
		return fmt.Errorf("itemCount must be non-negative, got %d", c.ItemCount)
	}
	if c.ChannelCapacity <= 0 {
		return fmt.Errorf("channelCapacity must be positive, got %d", c.ChannelCapacity)
	}
	return nil
}
