package scanner

import (
	"testing"

	"github.com/rustchain/bounty-hunter-bot/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractLeads(t *testing.T) {
	issues := []models.RawIssue{
		{
			Number:  1,
			Title:   "Add metrics endpoint",
			Body:    "Reward: 50 RTC for a working endpoint",
			HTMLURL: "https://github.com/acme/node/issues/1",
		},
		{
			Number: 2,
			Title:  "Labelled bounty",
			Body:   "Nothing to see here",
			Labels: []string{"Bounty: Small"},
		},
		{
			Number:        3,
			Title:         "Pull request mentioning a bounty",
			Body:          "Closes the bounty in #1",
			IsPullRequest: true,
		},
		{
			Number: 4,
			Title:  "Plain bug",
			Body:   "The dashboard crashes on load",
			Labels: []string{"bug"},
		},
		{
			Number: 5,
			Title:  "Paid work",
			Labels: []string{"PAID"},
		},
	}

	leads := ExtractLeads("acme/node", issues)

	require.Len(t, leads, 3)
	assert.Equal(t, 1, leads[0].Number)
	assert.Equal(t, 2, leads[1].Number)
	assert.Equal(t, 5, leads[2].Number)

	assert.Equal(t, "acme/node", leads[0].Repository)
	assert.Equal(t, models.Reward50, leads[0].RewardEstimate)
	assert.Equal(t, models.DifficultyNormal, leads[0].Difficulty)
	assert.Equal(t, "https://github.com/acme/node/issues/1", leads[0].URL)

	assert.Equal(t, models.RewardUnspecified, leads[2].RewardEstimate)
	assert.True(t, leads[2].HasLabel("paid"))
}

func TestExtractLeads_Empty(t *testing.T) {
	assert.Empty(t, ExtractLeads("acme/node", nil))
}

func TestIsRewardIssue(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected bool
	}{
		{name: "RTC mention", body: "Pays 25 RTC", expected: true},
		{name: "Payment mention", body: "PAYMENT on merge", expected: true},
		{name: "Bounty mention", body: "open bounty", expected: true},
		{name: "No marker", body: "Fix the login form", expected: false},
		{name: "Empty body", body: "", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsRewardIssue(tt.body))
		})
	}
}

func TestParseRewardInfo(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		reward     models.RewardTier
		difficulty models.Difficulty
	}{
		{name: "Hundred", body: "Reward: 100 RTC", reward: models.Reward100Plus, difficulty: models.DifficultyNormal},
		{name: "First match wins", body: "Reward: 100 RTC, was 50", reward: models.Reward100Plus, difficulty: models.DifficultyNormal},
		{name: "Substring not magnitude", body: "Reward: 150 RTC", reward: models.Reward50, difficulty: models.DifficultyNormal},
		{name: "Fifty", body: "50 RTC, high priority", reward: models.Reward50, difficulty: models.DifficultyHigh},
		{name: "Twenty five", body: "25 rtc medium effort", reward: models.Reward25, difficulty: models.DifficultyMedium},
		{name: "Ten", body: "10 RTC", reward: models.Reward10, difficulty: models.DifficultyNormal},
		{name: "Security beats high", body: "High impact SECURITY fix", reward: models.RewardUnspecified, difficulty: models.DifficultyCritical},
		{name: "Critical", body: "critical path", reward: models.RewardUnspecified, difficulty: models.DifficultyCritical},
		{name: "Nothing", body: "", reward: models.RewardUnspecified, difficulty: models.DifficultyNormal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reward, difficulty := ParseRewardInfo(tt.body)
			assert.Equal(t, tt.reward, reward)
			assert.Equal(t, tt.difficulty, difficulty)
		})
	}
}

func TestScore(t *testing.T) {
	tests := []struct {
		reward   models.RewardTier
		expected int
	}{
		{models.Reward100Plus, 100},
		{models.Reward50, 80},
		{models.Reward25, 50},
		{models.Reward10, 20},
		{models.RewardUnspecified, 20},
	}

	for _, tt := range tests {
		t.Run(string(tt.reward), func(t *testing.T) {
			assert.Equal(t, tt.expected, Score(models.Lead{RewardEstimate: tt.reward}))
		})
	}
}

func TestRank_StableOnTies(t *testing.T) {
	leads := []models.Lead{
		{Number: 1, RewardEstimate: models.RewardUnspecified},
		{Number: 2, RewardEstimate: models.Reward100Plus},
		{Number: 3, RewardEstimate: models.Reward10},
		{Number: 4, RewardEstimate: models.Reward25},
	}

	Rank(leads)

	var order []int
	for _, lead := range leads {
		order = append(order, lead.Number)
	}
	assert.Equal(t, []int{2, 4, 1, 3}, order)
}

func TestMerge_DeduplicatesAcrossSources(t *testing.T) {
	first := []models.Lead{
		{Repository: "repoA", Number: 7, RewardEstimate: models.Reward10},
		{Repository: "repoA", Number: 8, RewardEstimate: models.Reward50},
	}
	second := []models.Lead{
		{Repository: "repoB", Number: 7, RewardEstimate: models.Reward25},
		{Repository: "repoA", Number: 7, RewardEstimate: models.Reward100Plus, Title: "updated"},
	}

	merged := Merge(first, second)

	require.Len(t, merged, 3)
	count := 0
	for _, lead := range merged {
		if lead.Key() == (models.LeadKey{Repository: "repoA", Number: 7}) {
			count++
			assert.Equal(t, "updated", lead.Title)
		}
	}
	assert.Equal(t, 1, count)
	assert.Equal(t, models.Reward100Plus, merged[0].RewardEstimate)
}

func TestMerge_KeepsFirstSeenOnEqualScore(t *testing.T) {
	merged := Merge(
		[]models.Lead{{Repository: "repoA", Number: 7, Title: "first"}},
		[]models.Lead{{Repository: "repoC", Number: 1}},
		[]models.Lead{{Repository: "repoA", Number: 7, Title: "second"}},
	)

	require.Len(t, merged, 2)
	assert.Equal(t, "first", merged[0].Title)
	assert.Equal(t, "repoC", merged[1].Repository)
}
