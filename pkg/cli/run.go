package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/conveyor/conveyor/internal/engine"
	"github.com/conveyor/conveyor/pkg/logger"
	"github.com/conveyor/conveyor/pkg/types"
)

func newRunCmd() *cobra.Command {
	var itemCount int
	var capacity int
	var showItems bool
	var notify bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the pipeline once",
		Long: `Run one pipeline pass: the producer emits the configured number of
items, the transform stage doubles-and-increments each value while feeding
progress reports back upstream, and the consumer collects the results.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd, itemCount, capacity, showItems, notify)
		},
	}

	cmd.Flags().IntVarP(&itemCount, "items", "n", 0, "override configured item count")
	cmd.Flags().IntVarP(&capacity, "capacity", "c", 0, "override configured channel capacity")
	cmd.Flags().BoolVar(&showItems, "show-items", false, "print every collected item")
	cmd.Flags().BoolVar(&notify, "notify", false, "send a desktop notification when the run finishes")

	return cmd
}

func runRun(cmd *cobra.Command, itemCount, capacity int, showItems, notify bool) error {
	cfg, err := loadOrDefaultConfig()
	if err != nil {
		return err
	}

	// Flag overrides beat the config file
	if cmd.Flags().Changed("items") {
		cfg.ItemCount = itemCount
	}
	if cmd.Flags().Changed("capacity") {
		cfg.ChannelCapacity = capacity
	}
	if notify {
		if cfg.Notifications == nil {
			cfg.Notifications = &types.NotificationConfig{}
		}
		cfg.Notifications.Enabled = true
	}

	log := logger.CreateLogger("", verbosity)

	e, err := engine.New(cfg, getConfigPath(), log)
	if err != nil {
		return err
	}

	record, err := e.RunOnce(cmd.Context())
	if err != nil {
		return err
	}

	printRunSummary(record, showItems)
	return nil
}

func printRunSummary(record *types.RunRecord, showItems bool) {
	result := record.Result

	printSuccess(fmt.Sprintf("Run %s finished in %s", record.ID, result.Duration.Round(time.Microsecond)))
	printInfo(fmt.Sprintf("Collected %d items (%d transformed, %d feedback records, %d drained)",
		len(result.Items), result.ItemsProcessed, result.FeedbackProduced, result.FeedbackDrained))

	if !showItems {
		return
	}

	for _, item := range result.Items {
		fmt.Printf("  #%-4d value=%-6d adjustments=%d\n", item.ID, item.Value, len(item.Adjustments))
		for _, adj := range item.Adjustments {
			fmt.Printf("        ↳ from item %d: %s (metric %d)\n", adj.SourceItemID, adj.Suggestion, adj.Metric)
		}
	}
}
