// Package notifier provides pipeline run notification functionality
package notifier

import (
	"fmt"
	"time"

	"github.com/gen2brain/beeep"

	"github.com/conveyor/conveyor/pkg/logger"
)

// RunNotifier handles pipeline run notifications
type RunNotifier struct {
	enabled      bool
	successSound string
	failureSound string
	logger       logger.Logger
}

// Config represents notification configuration
type Config struct {
	Enabled      bool
	SuccessSound string
	FailureSound string
}

// New creates a new run notifier
func New(config Config, log logger.Logger) *RunNotifier {
	return &RunNotifier{
		enabled:      config.Enabled,
		successSound: config.SuccessSound,
		failureSound: config.FailureSound,
		logger:       log,
	}
}

// NotifyRunStart notifies that a pipeline run has started
func (n *RunNotifier) NotifyRunStart(runID string, itemCount int) {
	if !n.enabled {
		return
	}

	title := "⚙️ Conveyor"
	message := fmt.Sprintf("Run %s started (%d items)", runID, itemCount)

	n.sendNotification(title, message, "")
}

// NotifyRunSuccess notifies that a pipeline run completed
func (n *RunNotifier) NotifyRunSuccess(runID string, collected int, duration time.Duration) {
	if !n.enabled {
		return
	}

	title := "✅ Run Complete"
	message := fmt.Sprintf("Run %s collected %d items in %s", runID, collected, formatDuration(duration))

	n.sendNotification(title, message, n.successSound)
}

// NotifyRunFailure notifies that a pipeline run failed
func (n *RunNotifier) NotifyRunFailure(runID string, err error) {
	if !n.enabled {
		return
	}

	title := "❌ Run Failed"
	message := fmt.Sprintf("Run %s: %v", runID, err)

	n.sendNotification(title, message, n.failureSound)
}

// Private methods

func (n *RunNotifier) sendNotification(title, message, soundName string) {
	if err := beeep.Notify(title, message, ""); err != nil {
		n.logger.Debug("Failed to send notification", logger.WithField("error", err))
	}

	// Play sound if specified
	if soundName != "" {
		if err := beeep.Beep(beeep.DefaultFreq, beeep.DefaultDuration); err != nil {
			n.logger.Debug("Failed to play sound", logger.WithField("error", err))
		}
	}
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
}
