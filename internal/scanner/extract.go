// Package scanner turns raw issue records into ranked bounty leads.
package scanner

import (
	"strings"

	"github.com/rustchain/bounty-hunter-bot/internal/models"
)

var (
	bountyLabelMarkers = []string{"bounty", "reward", "paid"}
	rewardBodyMarkers  = []string{"rtc", "reward", "bounty", "payment"}
)

// ExtractLeads keeps the open issues of repository that look like bounties and
// normalizes them into leads. Pull requests and non-bounty issues are dropped.
func ExtractLeads(repository string, issues []models.RawIssue) []models.Lead {
	var leads []models.Lead

	for _, issue := range issues {
		if issue.IsPullRequest {
			continue
		}

		if !hasBountyLabel(issue.Labels) && !IsRewardIssue(issue.Body) {
			continue
		}

		reward, difficulty := ParseRewardInfo(issue.Body)

		leads = append(leads, models.Lead{
			Repository:     repository,
			Number:         issue.Number,
			Title:          issue.Title,
			Body:           issue.Body,
			Labels:         issue.Labels,
			RewardEstimate: reward,
			Difficulty:     difficulty,
			URL:            issue.HTMLURL,
		})
	}

	return leads
}

func hasBountyLabel(labels []string) bool {
	for _, label := range labels {
		if containsAny(strings.ToLower(label), bountyLabelMarkers) {
			return true
		}
	}
	return false
}

// IsRewardIssue reports whether the body mentions a reward in any form.
func IsRewardIssue(body string) bool {
	return containsAny(strings.ToLower(body), rewardBodyMarkers)
}

func containsAny(text string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(text, needle) {
			return true
		}
	}
	return false
}
