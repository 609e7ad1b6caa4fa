package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/rustchain/bounty-hunter-bot/internal/models"
	"github.com/rustchain/bounty-hunter-bot/internal/templates"
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Classify a bounty issue",
	Long:  `Fetch an issue and show its reward tier, complexity, effort estimate, risks and dependencies.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, _ := cmd.Flags().GetString("repo")
		number, _ := cmd.Flags().GetInt("issue")

		lead, analysis, err := service.AnalyzeIssue(cmd.Context(), repo, number)
		if err != nil {
			return err
		}

		printAnalysis(lead, analysis)
		return nil
	},
}

func printAnalysis(lead *models.Lead, analysis *models.Analysis) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	fmt.Printf("\n%s\n", cyan(fmt.Sprintf("=== %s #%d: %s ===", lead.Repository, lead.Number, lead.Title)))
	fmt.Printf("Reward:      %s\n", lead.RewardEstimate)
	fmt.Printf("Difficulty:  %s\n", lead.Difficulty)
	fmt.Printf("Complexity:  %s\n", templates.ComplexityLabel(analysis.Complexity))
	fmt.Printf("Effort:      %s\n", analysis.EstimatedEffort)

	fmt.Printf("\n%s\n", yellow("Requirements:"))
	if len(analysis.Requirements) == 0 {
		fmt.Println("  (none found)")
	}
	for _, req := range analysis.Requirements {
		fmt.Printf("  - %s\n", req)
	}

	if len(analysis.Risks) > 0 {
		fmt.Printf("\n%s\n", yellow("Risks:"))
		for _, risk := range analysis.Risks {
			fmt.Printf("  - %s\n", risk)
		}
	}

	if len(analysis.Dependencies) > 0 {
		fmt.Printf("\n%s\n", yellow("Dependencies:"))
		for _, dep := range analysis.Dependencies {
			fmt.Printf("  - %s\n", dep)
		}
	}

	fmt.Printf("\n%s\n%s\n", yellow("Implementation notes:"), analysis.ImplementationNotes)
}

func init() {
	analyzeCmd.Flags().String("repo", "", "Repository as owner/repo")
	analyzeCmd.Flags().Int("issue", 0, "Issue number")
	_ = analyzeCmd.MarkFlagRequired("repo")
	_ = analyzeCmd.MarkFlagRequired("issue")
	rootCmd.AddCommand(analyzeCmd)
}
