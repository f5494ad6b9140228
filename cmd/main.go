package main

import (
	"fmt"
	"os"

	"github.com/glefebvre/cineflix/internal/config"
	"github.com/glefebvre/cineflix/internal/logger"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "cineflix",
	Short: "Cineflix serves a video catalog to viewers and its admin panel",
	Long: `Cineflix stores movies and series, the home-page banners and stories, and the
site settings. Viewers browse the catalog and are sent to the messaging bot to
watch or download; admins curate it from a signed-in API.`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of Cineflix",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("Cineflix v%s\n", version)
	},
}

var configFile string

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is ./config.yml)")
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the configuration and sets up both loggers
func loadConfig() (*config.Config, error) {
	if err := config.LoadFile(configFile); err != nil {
		return nil, err
	}
	cfg := config.Get()
	logger.InitializeLoggers(cfg.GetAppLogLevel(), cfg.GetDatabaseLogLevel(), cfg.Logging.Format)
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
