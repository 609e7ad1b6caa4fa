package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/rustchain/bounty-hunter-bot/internal/analyzer"
	"github.com/rustchain/bounty-hunter-bot/internal/models"
	"github.com/rustchain/bounty-hunter-bot/internal/monitoring"
	"github.com/rustchain/bounty-hunter-bot/internal/templates"
	"github.com/spf13/cobra"
)

var autoCmd = &cobra.Command{
	Use:   "auto",
	Short: "Scan, pick the top bounty and claim it",
	Long: `Scan the repositories, analyze the highest ranked lead and render its claim
comment. With --post the claim is published; otherwise it is only printed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		repos, _ := cmd.Flags().GetStringSlice("repo")
		post, _ := cmd.Flags().GetBool("post")
		if len(repos) == 0 {
			repos = cfg.Repositories
		}

		mode := "DRY RUN"
		if post {
			mode = "LIVE"
		}
		fmt.Printf("Starting auto bounty hunter on %d repositories (%s)\n", len(repos), mode)

		outcome, err := autoClaim(cmd.Context(), service, repos, claimant(cmd), post)
		if err != nil {
			return err
		}
		if outcome == nil {
			fmt.Println(color.YellowString("No bounties found to claim"))
			return nil
		}

		fmt.Printf("Top bounty: %s #%d - %s\n", outcome.Lead.Repository, outcome.Lead.Number, outcome.Lead.Title)
		fmt.Printf("Complexity: %s\n", templates.ComplexityLabel(outcome.Analysis.Complexity))

		if !post {
			fmt.Printf("\nWould claim bounty #%d\n\n%s\n", outcome.Lead.Number, outcome.Claim)
			return nil
		}
		fmt.Printf("%s %s\n", color.GreenString("Claimed:"), outcome.URL)
		return nil
	},
}

type autoOutcome struct {
	Lead     models.Lead
	Analysis models.Analysis
	Claim    string
	URL      string // empty on a dry run
}

// autoClaim returns nil without error when no repository has a bounty lead.
func autoClaim(ctx context.Context, svc *monitoring.Service, repos []string, who templates.Claimant, post bool) (*autoOutcome, error) {
	result, err := svc.ScanRepositories(ctx, repos)
	if err != nil {
		return nil, err
	}
	if len(result.Leads) == 0 {
		return nil, nil
	}

	outcome := &autoOutcome{Lead: result.Leads[0]}
	outcome.Analysis = analyzer.AnalyzeLead(outcome.Lead)

	outcome.Claim, err = templates.ClaimComment(outcome.Lead.Repository, who, outcome.Analysis)
	if err != nil {
		return nil, err
	}

	if post {
		outcome.URL, err = svc.ClaimLead(ctx, outcome.Lead.Repository, outcome.Lead.Number, outcome.Claim)
		if err != nil {
			return nil, err
		}
	}
	return outcome, nil
}

func init() {
	autoCmd.Flags().StringSlice("repo", nil, "Repository to scan as owner/repo (repeatable, defaults to the configured list)")
	autoCmd.Flags().String("handle", "", "GitHub handle (defaults to HANDLE)")
	autoCmd.Flags().String("wallet", "", "RTC wallet (defaults to WALLET)")
	autoCmd.Flags().Bool("post", false, "Publish the claim instead of printing it")
	rootCmd.AddCommand(autoCmd)
}
