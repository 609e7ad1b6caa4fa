package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/rustchain/bounty-hunter-bot/internal/models"
	"github.com/rustchain/bounty-hunter-bot/internal/templates"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Score a pull request against the submission rubric",
	Long: `Run the five submission checks on a pull request and, separately, the
commit history check. Exits non-zero when the submission does not pass.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, _ := cmd.Flags().GetString("repo")
		number, _ := cmd.Flags().GetInt("pr")

		submission, err := service.ValidateSubmission(cmd.Context(), repo, number)
		if err != nil {
			return err
		}
		commits, err := service.ValidateCommitHistory(cmd.Context(), repo, number)
		if err != nil {
			return err
		}

		printReport("Submission", submission)
		printReport("Commit history", commits)

		if !submission.Passed {
			return fmt.Errorf("%s #%d scored %d/%d and does not pass", repo, number, submission.Score, submission.MaxScore)
		}
		return nil
	},
}

func printReport(title string, report *models.QualityReport) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	verdict := color.GreenString("PASS")
	if !report.Passed {
		verdict = color.RedString("FAIL")
	}

	fmt.Printf("\n%s %s\n", cyan("=== "+title+" ==="), verdict)
	for _, c := range report.Checks {
		mark := color.GreenString("✓")
		if !c.Passed {
			mark = color.RedString("✗")
		}
		fmt.Printf("  %s %-22s %2d/%-2d  %s\n", mark, c.Name, c.Score, c.MaxScore, c.Message)
	}
	fmt.Println(templates.QualitySummary(*report))
}

func init() {
	validateCmd.Flags().String("repo", "", "Repository as owner/repo")
	validateCmd.Flags().Int("pr", 0, "Pull request number")
	_ = validateCmd.MarkFlagRequired("repo")
	_ = validateCmd.MarkFlagRequired("pr")
	rootCmd.AddCommand(validateCmd)
}
