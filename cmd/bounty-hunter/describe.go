package main

import (
	"fmt"

	"github.com/rustchain/bounty-hunter-bot/internal/templates"
	"github.com/spf13/cobra"
)

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Generate a pull request description for a bounty",
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, _ := cmd.Flags().GetString("repo")
		number, _ := cmd.Flags().GetInt("issue")
		changes, _ := cmd.Flags().GetStringArray("change")
		testing, _ := cmd.Flags().GetString("testing")

		lead, analysis, err := service.AnalyzeIssue(cmd.Context(), repo, number)
		if err != nil {
			return err
		}

		body, err := templates.PRDescription(*lead, *analysis, changes, testing)
		if err != nil {
			return err
		}
		fmt.Println(body)
		return nil
	},
}

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Summarize claimed, in-progress and submitted bounties",
	Long:  `Scan the configured repositories and count leads by their workflow label.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := service.ScanRepositories(cmd.Context(), cfg.Repositories)
		if err != nil {
			return err
		}

		var claimed, inProgress, submitted int
		for _, lead := range result.Leads {
			switch {
			case lead.HasLabel("submitted") || lead.HasLabel("under-review"):
				submitted++
			case lead.HasLabel("in-progress"):
				inProgress++
			case lead.HasLabel("claimed"):
				claimed++
			}
		}

		body, err := templates.ProgressUpdate(claimed, inProgress, submitted)
		if err != nil {
			return err
		}
		fmt.Println(body)
		return nil
	},
}

func init() {
	describeCmd.Flags().String("repo", "", "Repository as owner/repo")
	describeCmd.Flags().Int("issue", 0, "Bounty issue number")
	describeCmd.Flags().StringArray("change", nil, "Change made in the pull request (repeatable)")
	describeCmd.Flags().String("testing", "", "How the change was tested")
	_ = describeCmd.MarkFlagRequired("repo")
	_ = describeCmd.MarkFlagRequired("issue")

	rootCmd.AddCommand(describeCmd)
	rootCmd.AddCommand(progressCmd)
}
