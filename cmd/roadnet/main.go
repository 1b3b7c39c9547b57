// Command roadnet runs the road network editor headless: it builds a world
// from layouts, Lua scripts and queued tool input, then writes the result.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roadnet/editor/internal/config"
)

const version = "v0.1.0"

var (
	// configFile is set by the --config flag.
	configFile string

	// cfg and log are initialized before any subcommand runs.
	cfg *config.Config
	log *zap.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "roadnet",
	Short: "Roadnet is a road network editor",
	Long: `Roadnet edits road networks made of nodes, segments and roads.
It replays layouts, Lua scripts and tool input through the editor loop,
then renders the result and stores snapshots.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"config file (default: $ROADNET_CONFIG or "+config.DefaultPath+")")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(snapshotsCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("roadnet " + version)
	},
}

// setup loads the config and builds the logger.
func setup(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	var err error
	switch path := configPath(); {
	case path == config.DefaultPath:
		cfg, err = config.LoadOrDefault(path)
	default:
		cfg, err = config.Load(path)
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err = newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	return nil
}

// configPath resolves the config file: --config, then ROADNET_CONFIG, then
// the default path.
func configPath() string {
	if configFile != "" {
		return configFile
	}
	if p := os.Getenv("ROADNET_CONFIG"); p != "" {
		return p
	}
	return config.DefaultPath
}
