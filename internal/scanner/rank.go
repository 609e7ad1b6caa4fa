package scanner

import (
	"sort"
	"strings"

	"github.com/rustchain/bounty-hunter-bot/internal/models"
)

// Score maps a lead's reward estimate to a comparable number.
func Score(lead models.Lead) int {
	reward := string(lead.RewardEstimate)

	switch {
	case strings.Contains(reward, "100"):
		return 100
	case strings.Contains(reward, "50"):
		return 80
	case strings.Contains(reward, "25"):
		return 50
	default:
		return 20
	}
}

// Rank sorts leads by descending score. Leads with equal scores keep their input order.
func Rank(leads []models.Lead) {
	sort.SliceStable(leads, func(i, j int) bool {
		return Score(leads[i]) > Score(leads[j])
	})
}

// Merge combines the leads of several sources into one ranked list with a
// single entry per (repository, number). When the same lead shows up more
// than once the highest scoring copy is kept, the first one seen on a tie.
func Merge(batches ...[]models.Lead) []models.Lead {
	index := make(map[models.LeadKey]int)
	var merged []models.Lead

	for _, batch := range batches {
		for _, lead := range batch {
			key := lead.Key()
			if pos, seen := index[key]; seen {
				if Score(lead) > Score(merged[pos]) {
					merged[pos] = lead
				}
				continue
			}
			index[key] = len(merged)
			merged = append(merged, lead)
		}
	}

	Rank(merged)
	return merged
}
