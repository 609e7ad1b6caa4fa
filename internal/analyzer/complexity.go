package analyzer

import (
	"strings"

	"github.com/rustchain/bounty-hunter-bot/internal/models"
)

var (
	complexKeywords = []string{"async", "concurrent", "distributed", "consensus", "crypto"}
	hardKeywords    = []string{"database", "api", "integration", "performance"}
	easyKeywords    = []string{"fix", "update", "minor", "simple"}
)

// AssessComplexity maps a title and its requirements to a complexity tier.
func AssessComplexity(title string, requirements []string) models.Complexity {
	titleLower := strings.ToLower(title)

	switch {
	case strings.Contains(titleLower, "security") || strings.Contains(titleLower, "critical"):
		return models.Expert
	case strings.Contains(titleLower, "refactor") || strings.Contains(titleLower, "architecture"):
		return models.Hard
	case strings.Contains(titleLower, "test") || strings.Contains(titleLower, "documentation"):
		return models.Trivial
	}

	return tierForScore(ComplexityScore(requirements))
}

// ComplexityScore is the keyword score used when the title does not decide the tier.
// Each keyword found in a requirement counts once for that requirement.
func ComplexityScore(requirements []string) int {
	score := 0
	for _, req := range requirements {
		score += 3 * countKeywords(req, complexKeywords)
		score += 2 * countKeywords(req, hardKeywords)
		score -= countKeywords(req, easyKeywords)
	}
	return score + countFactor(len(requirements))
}

func countKeywords(text string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			n++
		}
	}
	return n
}

func countFactor(n int) int {
	switch {
	case n <= 2:
		return -1
	case n <= 5:
		return 0
	case n <= 10:
		return 1
	default:
		return 2
	}
}

func tierForScore(score int) models.Complexity {
	switch {
	case score >= 8:
		return models.Expert
	case score >= 5:
		return models.Hard
	case score >= 3:
		return models.Medium
	case score >= 1:
		return models.Easy
	default:
		return models.Trivial
	}
}

// EstimateEffort returns the effort range that belongs to a tier.
func EstimateEffort(c models.Complexity) string {
	switch c {
	case models.Easy:
		return "1-4 hours"
	case models.Medium:
		return "4-8 hours"
	case models.Hard:
		return "8-16 hours"
	case models.Expert:
		return "16+ hours"
	default:
		return "< 1 hour"
	}
}
