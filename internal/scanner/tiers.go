package scanner

import (
	"strings"

	"github.com/rustchain/bounty-hunter-bot/internal/models"
)

// Checked in order; the first hit wins. Tokens are substrings, not amounts:
// "1050" lands in the 100+ tier while "150" lands in the 50 tier.
var rewardLadder = []struct {
	token string
	tier  models.RewardTier
}{
	{"100", models.Reward100Plus},
	{"50", models.Reward50},
	{"25", models.Reward25},
	{"10", models.Reward10},
}

// ParseRewardInfo derives the reward and difficulty tiers from an issue body.
func ParseRewardInfo(body string) (models.RewardTier, models.Difficulty) {
	bodyLower := strings.ToLower(body)

	reward := models.RewardUnspecified
	for _, step := range rewardLadder {
		if strings.Contains(bodyLower, step.token) {
			reward = step.tier
			break
		}
	}

	var difficulty models.Difficulty
	switch {
	case strings.Contains(bodyLower, "critical") || strings.Contains(bodyLower, "security"):
		difficulty = models.DifficultyCritical
	case strings.Contains(bodyLower, "high"):
		difficulty = models.DifficultyHigh
	case strings.Contains(bodyLower, "medium"):
		difficulty = models.DifficultyMedium
	default:
		difficulty = models.DifficultyNormal
	}

	return reward, difficulty
}
