package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/rustchain/bounty-hunter-bot/internal/templates"
	"github.com/spf13/cobra"
)

var claimCmd = &cobra.Command{
	Use:   "claim",
	Short: "Claim a bounty issue",
	Long: `Render the claim comment for an issue. With --post the comment is published
and the issue is labelled "claimed"; without it the comment is only printed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, _ := cmd.Flags().GetString("repo")
		number, _ := cmd.Flags().GetInt("issue")
		post, _ := cmd.Flags().GetBool("post")

		_, analysis, err := service.AnalyzeIssue(cmd.Context(), repo, number)
		if err != nil {
			return err
		}

		body, err := templates.ClaimComment(repo, claimant(cmd), *analysis)
		if err != nil {
			return err
		}

		if !post {
			fmt.Println(body)
			fmt.Println(color.YellowString("\nDry run: pass --post to publish this claim"))
			return nil
		}

		url, err := service.ClaimLead(cmd.Context(), repo, number, body)
		if err != nil {
			return err
		}
		fmt.Printf("%s %s\n", color.GreenString("Claimed:"), url)
		return nil
	},
}

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Announce a finished bounty",
	Long: `Render the submission comment linking a pull request to its bounty issue.
With --post the comment is published and the issue is labelled for review.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, _ := cmd.Flags().GetString("repo")
		number, _ := cmd.Flags().GetInt("issue")
		prURL, _ := cmd.Flags().GetString("pr")
		summary, _ := cmd.Flags().GetString("summary")
		post, _ := cmd.Flags().GetBool("post")

		body, err := templates.SubmissionComment(number, prURL, summary, claimant(cmd))
		if err != nil {
			return err
		}

		if !post {
			fmt.Println(body)
			fmt.Println(color.YellowString("\nDry run: pass --post to publish this submission"))
			return nil
		}

		url, err := service.SubmitCompletion(cmd.Context(), repo, number, body)
		if err != nil {
			return err
		}
		fmt.Printf("%s %s\n", color.GreenString("Submitted:"), url)
		return nil
	},
}

func claimant(cmd *cobra.Command) templates.Claimant {
	who := templates.Claimant{Handle: cfg.Handle, Wallet: cfg.Wallet}
	if handle, _ := cmd.Flags().GetString("handle"); handle != "" {
		who.Handle = handle
	}
	if wallet, _ := cmd.Flags().GetString("wallet"); wallet != "" {
		who.Wallet = wallet
	}
	return who
}

func init() {
	for _, c := range []*cobra.Command{claimCmd, submitCmd} {
		c.Flags().String("repo", "", "Repository as owner/repo")
		c.Flags().Int("issue", 0, "Bounty issue number")
		c.Flags().String("handle", "", "GitHub handle (defaults to HANDLE)")
		c.Flags().String("wallet", "", "RTC wallet (defaults to WALLET)")
		c.Flags().Bool("post", false, "Publish the comment instead of printing it")
		_ = c.MarkFlagRequired("repo")
		_ = c.MarkFlagRequired("issue")
	}
	submitCmd.Flags().String("pr", "", "URL of the pull request")
	submitCmd.Flags().String("summary", "", "Short summary of the work")
	_ = submitCmd.MarkFlagRequired("pr")

	rootCmd.AddCommand(claimCmd)
	rootCmd.AddCommand(submitCmd)
}
