package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/ternarybob/arbor"

	"github.com/Mukundj26/Classroom-Note-Merger/internal/common"
)

var (
	// Command-line flags
	configFiles []string
	serverPort  int
	serverHost  string

	// Global state
	config *common.Config
	logger arbor.ILogger
)

var rootCmd = &cobra.Command{
	Use:   "classsync",
	Short: "Merge class notes from many students into one illustrated PDF",
	Long: `ClassSync collects typed notes, photographed handwriting and PDFs,
extracts their text, merges them with an AI model and lays the result out
as a paginated PDF.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().StringSliceVarP(&configFiles, "config", "c", nil, "Configuration file path (repeatable, later files override earlier ones)")
	rootCmd.PersistentFlags().IntVarP(&serverPort, "port", "p", 0, "Server port (overrides config)")
	rootCmd.PersistentFlags().StringVar(&serverHost, "host", "", "Server host (overrides config)")

	rootCmd.AddCommand(serveCmd, mergeCmd, keysCmd, versionCmd)
}

func main() {
	defer common.RecoverWithCrashFile()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig runs before every command.
// Order: defaults -> file1 -> file2 -> ... -> env -> CLI flags, then logger.
func loadConfig(cmd *cobra.Command, args []string) error {
	common.LoadVersionFromFile()

	if len(configFiles) == 0 {
		if _, err := os.Stat("classsync.toml"); err == nil {
			configFiles = append(configFiles, "classsync.toml")
		} else if _, err := os.Stat("deployments/local/classsync.toml"); err == nil {
			configFiles = append(configFiles, "deployments/local/classsync.toml")
		}
	}

	// KV replacement happens once storage is open
	var err error
	config, err = common.LoadFromFiles(nil, configFiles...)
	if err != nil {
		return fmt.Errorf("failed to load configuration %v: %w", configFiles, err)
	}

	common.ApplyFlagOverrides(config, serverPort, serverHost)

	logger = common.InitLogger(config)

	logger.Debug().
		Strs("config_files", configFiles).
		Str("badger_path", config.Storage.Badger.Path).
		Str("log_level", config.Logging.Level).
		Strs("log_output", config.Logging.Output).
		Str("merge_provider", string(config.LLM.Merge)).
		Msg("Resolved configuration (sanitized)")

	return nil
}
