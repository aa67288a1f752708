package main

import (
	"fmt"
	"os"
	"path/filepath"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mizutanigrandee/vacancy-dashboard/internal/app"
	"github.com/mizutanigrandee/vacancy-dashboard/internal/config"
	"github.com/mizutanigrandee/vacancy-dashboard/internal/logging"
)

var (
	cfgFile string
	mode    string
	jsonOut bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "vacancyctl",
	Short: "Inspect the hotel vacancy and pricing calendar from the terminal.",
	Long: `vacancyctl renders the same two-month demand calendar, trend series and
demand spikes the dashboard serves, straight from the crawler's JSON output.`,
	SilenceUsage: true,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, _ := cmd.Flags().GetString("loglevel")
		return logging.SetLevel(level)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.vacancy-dashboard.yaml)")
	rootCmd.PersistentFlags().StringP("loglevel", "l", "warn", "Set log level. Available: debug, info, warn, error, fatal")
	rootCmd.PersistentFlags().StringVarP(&mode, "mode", "m", "", "pricing mode, e.g. 1p or 2p (default from config)")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "print raw JSON instead of a table")
}

// configPath resolves --config, then $VACANCY_CONFIG, then the dotfile in the
// home directory. An empty result lets config search its usual locations.
func configPath() (string, error) {
	if cfgFile != "" {
		return homedir.Expand(cfgFile)
	}
	if p := os.Getenv("VACANCY_CONFIG"); p != "" {
		return p, nil
	}
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	p := filepath.Join(home, ".vacancy-dashboard.yaml")
	if _, err := os.Stat(p); err == nil {
		return p, nil
	}
	return "", nil
}

func loadApp() (*app.App, error) {
	path, err := configPath()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return app.New(cfg, logging.Log)
}

func colorOutput() bool {
	return !jsonOut && term.IsTerminal(int(os.Stdout.Fd()))
}
