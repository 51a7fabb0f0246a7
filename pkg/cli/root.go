// Package cli provides the command-line interface for Conveyor
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conveyor/conveyor/pkg/config"
	"github.com/conveyor/conveyor/pkg/types"
)

var (
	cfgFile     string
	projectRoot string
	verbosity   string
	version     string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "conveyor",
	Short: "A bounded staged pipeline with opportunistic feedback",
	Long: `⚙️ Conveyor - A three-stage producer/transform/consumer pipeline

Conveyor pushes a bounded stream of work items through three concurrent
stages connected by bounded channels. The transform stage reports back to
the producer over a feedback channel, and whatever feedback arrives in time
is attached to the items still being built.`,

	Run: func(cmd *cobra.Command, args []string) {
		// Check if version flag is set
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Printf("⚙️ Conveyor v%s\n", version)
			return
		}
		// If no subcommand, show help
		cmd.Help()
	},
}

// Execute runs the CLI
func Execute(v string) error {
	version = v

	// Initialize the root command explicitly (avoiding init())
	initializeRootCommand()

	return rootCmd.Execute()
}

// initializeRootCommand sets up the root command and its flags.
// This replaces the init() function to make initialization explicit and testable.
func initializeRootCommand() {
	// Set up config initialization
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: conveyor.config.json)")
	rootCmd.PersistentFlags().StringVar(&projectRoot, "root", ".", "project root directory")
	rootCmd.PersistentFlags().StringVarP(&verbosity, "verbosity", "v", "info", "log level (debug, info, warn, error)")

	// Add version flag
	rootCmd.Flags().Bool("version", false, "Print version information and quit")

	// Add subcommands
	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newWatchCmd())
}

func initConfig() {
	if cfgFile != "" {
		// Use config file from flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Search for config in project root
		viper.AddConfigPath(projectRoot)
		viper.SetConfigName("conveyor.config")
		viper.SetConfigType("json")
	}

	// Read in environment variables
	viper.SetEnvPrefix("CONVEYOR")
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		if verbosity == "debug" {
			fmt.Println("Using config file:", viper.ConfigFileUsed())
		}
	}
}

// Helper functions

func printSuccess(message string) {
	belt := "⚙️"
	fmt.Printf("%s %s %s\n", belt, color.GreenString("[Conveyor]"), message)
}

func printInfo(message string) {
	belt := "⚙️"
	fmt.Printf("%s %s %s\n", belt, color.CyanString("[Conveyor]"), message)
}

func printWarning(message string) {
	belt := "⚙️"
	fmt.Printf("%s %s %s\n", belt, color.YellowString("[Conveyor]"), message)
}

func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return filepath.Join(projectRoot, "conveyor.config.json")
}

// loadOrDefaultConfig loads the project config if one exists, falling back
// to the defaults otherwise.
func loadOrDefaultConfig() (*types.PipelineConfig, error) {
	configPath := getConfigPath()

	if _, err := os.Stat(configPath); err != nil {
		printInfo("No configuration file found, using defaults")
		return types.DefaultConfig(), nil
	}

	cfg, err := config.NewManager().LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}
