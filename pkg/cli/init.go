package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/conveyor/conveyor/pkg/config"
	"github.com/conveyor/conveyor/pkg/types"
)

func newInitCmd() *cobra.Command {
	var itemCount int
	var capacity int
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new Conveyor configuration",
		Long: `Initialize a new Conveyor configuration file in the project root.
The generated file controls the pipeline dimensions: how many items the
producer emits and how large the bounded channels between stages are.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(itemCount, capacity, force)
		},
	}

	cmd.Flags().IntVarP(&itemCount, "items", "n", types.DefaultItemCount, "number of items to produce")
	cmd.Flags().IntVarP(&capacity, "capacity", "c", types.DefaultChannelCapacity, "forward channel capacity")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite existing configuration")

	return cmd
}

func runInit(itemCount, capacity int, force bool) error {
	configPath := getConfigPath()

	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration already exists. Use --force to overwrite")
	}

	cfg := types.DefaultConfig()
	cfg.ItemCount = itemCount
	cfg.ChannelCapacity = capacity

	if err := config.NewManager().SaveConfig(configPath, cfg); err != nil {
		return err
	}

	printSuccess(fmt.Sprintf("Created configuration at %s", configPath))
	printInfo("Edit the configuration to customize the pipeline dimensions")

	return nil
}
