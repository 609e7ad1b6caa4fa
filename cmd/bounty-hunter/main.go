package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/rustchain/bounty-hunter-bot/internal/config"
	"github.com/rustchain/bounty-hunter-bot/internal/monitoring"
	"github.com/rustchain/bounty-hunter-bot/internal/sources"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	cfg     *config.Config
	service *monitoring.Service
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "bounty-hunter",
	Short: "Find, analyze, claim and validate RustChain bounties",
	Long: `bounty-hunter scans GitHub repositories for bounty issues, ranks them by
estimated reward, classifies their complexity and checks finished pull
requests against the submission quality rubric.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()

		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		logrus.SetLevel(logrus.WarnLevel)
		if verbose {
			logrus.SetLevel(logrus.DebugLevel)
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}

		feed := sources.NewGitHubSource(cmd.Context(), cfg.GitHubToken)
		if cfg.GitHubBaseURL != "" {
			if feed, err = feed.WithBaseURL(cfg.GitHubBaseURL); err != nil {
				return err
			}
		}

		service = monitoring.NewService(cfg, feed, nil, nil)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color.RedString("Error:"), err)
		os.Exit(1)
	}
}
