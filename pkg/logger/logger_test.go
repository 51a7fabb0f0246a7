package logger_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/conveyor/conveyor/pkg/logger"
)

func TestCreateLogger(t *testing.T) {
	log := logger.CreateLogger("", "info")
	if log == nil {
		t.Fatal("expected logger to be created")
	}
}

func TestCreateLogger_Levels(t *testing.T) {
	tests := []struct {
		level    string
		expected []string
		hidden   []string
	}{
		{"debug", []string{"DEBUG", "INFO", "WARN", "ERROR"}, nil},
		{"info", []string{"INFO", "WARN", "ERROR"}, []string{"DEBUG"}},
		{"warn", []string{"WARN", "ERROR"}, []string{"DEBUG", "INFO"}},
		{"error", []string{"ERROR"}, []string{"DEBUG", "INFO", "WARN"}},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			log := logger.CreateLoggerWithOutput("", tt.level, &buf)

			log.Debug("debug message")
			log.Info("info message")
			log.Warn("warn message")
			log.Error("error message")

			output := buf.String()
			for _, want := range tt.expected {
				if !strings.Contains(output, want) {
					t.Errorf("expected %s output at level %s, got: %s", want, tt.level, output)
				}
			}
			for _, unwanted := range tt.hidden {
				if strings.Contains(output, unwanted) {
					t.Errorf("expected %s to be suppressed at level %s, got: %s", unwanted, tt.level, output)
				}
			}
		})
	}
}

func TestLogger_WithStage(t *testing.T) {
	var buf bytes.Buffer
	log := logger.CreateLoggerWithOutput("", "info", &buf)

	stageLog := log.WithStage("transform")
	stageLog.Info("processing item")

	output := buf.String()
	if !strings.Contains(output, "transform") {
		t.Errorf("expected stage prefix in output, got: %s", output)
	}
	if !strings.Contains(output, "processing item") {
		t.Errorf("expected message in output, got: %s", output)
	}
}

func TestLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	log := logger.CreateLoggerWithOutput("", "info", &buf)

	log.Info("produced item",
		logger.WithField("id", 3),
		logger.WithField("adjustments", 2))

	output := buf.String()
	if !strings.Contains(output, "id=3") {
		t.Errorf("expected id field in output, got: %s", output)
	}
	if !strings.Contains(output, "adjustments=2") {
		t.Errorf("expected adjustments field in output, got: %s", output)
	}
}

func TestLogger_Success(t *testing.T) {
	var buf bytes.Buffer
	log := logger.CreateLoggerWithOutput("", "info", &buf)

	log.Success("run complete")

	if !strings.Contains(buf.String(), "run complete") {
		t.Errorf("expected success message in output, got: %s", buf.String())
	}
}
