package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/rustchain/bounty-hunter-bot/internal/models"
	"github.com/rustchain/bounty-hunter-bot/internal/scanner"
	"github.com/rustchain/bounty-hunter-bot/internal/storage"
	"github.com/spf13/cobra"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan repositories for bounty leads",
	Long: `Scan the configured repositories (or the ones given with --repo) and print
the leads ranked by estimated reward. Repositories that cannot be fetched are
reported and skipped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		repos, _ := cmd.Flags().GetStringSlice("repo")
		output, _ := cmd.Flags().GetString("output")
		top, _ := cmd.Flags().GetInt("top")

		if len(repos) == 0 {
			repos = cfg.Repositories
		}

		result, err := service.ScanRepositories(cmd.Context(), repos)
		if err != nil {
			return err
		}

		printLeads(result, top)

		if output != "" {
			if err := writeLeads(cmd, output, result); err != nil {
				return err
			}
			fmt.Printf("\nSaved %d leads to %s\n", len(result.Leads), output)
		}
		return nil
	},
}

func printLeads(result *models.ScanResult, top int) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()

	fmt.Printf("\n%s\n\n", cyan(fmt.Sprintf("=== %d bounty leads ===", len(result.Leads))))

	leads := result.Leads
	if top > 0 && len(leads) > top {
		leads = leads[:top]
	}

	for i, lead := range leads {
		difficulty := string(lead.Difficulty)
		if lead.Difficulty == models.DifficultyCritical {
			difficulty = red(difficulty)
		}
		fmt.Printf("%2d. [%3d] %s #%d %s\n", i+1, scanner.Score(lead), lead.Repository, lead.Number, lead.Title)
		fmt.Printf("           %s  %s  %s\n", yellow(lead.RewardEstimate), difficulty, gray(lead.URL))
	}

	for _, f := range result.Failures {
		fmt.Printf("%s %s: %s\n", red("skipped"), f.Repository, f.Error)
	}
}

func writeLeads(cmd *cobra.Command, output string, result *models.ScanResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal leads: %w", err)
	}

	dir := filepath.Dir(output)
	if dir == "." {
		return os.WriteFile(output, data, 0o644)
	}

	store, err := storage.NewLocalStorage(dir)
	if err != nil {
		return err
	}
	return store.Store(cmd.Context(), filepath.Base(output), data)
}

func init() {
	scanCmd.Flags().StringSlice("repo", nil, "Repository to scan as owner/repo (repeatable, defaults to the configured list)")
	scanCmd.Flags().StringP("output", "o", "", "Write the ranked leads as JSON to this file")
	scanCmd.Flags().Int("top", 20, "Number of leads to print (0 for all)")
	rootCmd.AddCommand(scanCmd)
}
