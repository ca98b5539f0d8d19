// Package cmd provides the command-line interface for inkwell.
//
// Configuration System:
//
//	The CLI supports flexible configuration through multiple sources with clear precedence:
//	1. Command-line flags (--config, --port, etc.) - highest priority
//	2. INKWELL_CONFIG_FILE environment variable - custom config file path
//	3. Individual environment variables (INKWELL_SERVER_PORT, etc.)
//	4. Configuration files (.inkwell.yml) - lowest priority
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jackmott/inkwell/internal/config"
	"github.com/jackmott/inkwell/internal/logging"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "inkwell",
	Short: "A static blog generator for Markdown posts",
	Long: `Inkwell turns a directory of Markdown posts with YAML front matter into
a static site: permalink pages, paginated indexes, per-category listings,
RSS/Atom feeds, and a sitemap.

Quick Start:
  inkwell init                    Initialize a new site
  inkwell new "Post Title"        Scaffold a post for today
  inkwell build                   Generate the site into _site/
  inkwell serve                   Preview with live reload
  inkwell validate                Lint posts without building

Command Aliases (for faster typing):
  build (b), serve (s), list (l), watch (w), validate (v)`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .inkwell.yml, can also use INKWELL_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// initConfig initializes the configuration system.
//
// Configuration Loading Priority (highest to lowest):
//  1. --config flag: Explicitly specified config file path
//  2. INKWELL_CONFIG_FILE environment variable: Custom config file path
//  3. Default: .inkwell.yml in current directory
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("INKWELL_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".inkwell")
	}

	viper.SetEnvPrefix("INKWELL")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Missing or malformed config files fall back to defaults without failing
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig reads configuration and builds a logger at the requested level.
func loadConfig() (*config.Config, logging.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := logging.NewLogger(&logging.LoggerConfig{
		Level:  logging.ParseLevel(viper.GetString("log-level")),
		Format: "text",
		Output: os.Stderr,
	})

	return cfg, logger, nil
}
