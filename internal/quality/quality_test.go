package quality

import (
	"testing"

	"github.com/rustchain/bounty-hunter-bot/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateSubmission_WorstCase(t *testing.T) {
	report := EvaluateSubmission(models.Submission{
		Description:    "",
		Files:          []string{"assets/logo.png"},
		MergeableState: "dirty",
	})

	require.Len(t, report.Checks, 5)
	scores := []int{}
	for _, c := range report.Checks {
		scores = append(scores, c.Score)
		assert.False(t, c.Passed, c.Name)
	}
	assert.Equal(t, []int{0, 5, 5, 0, 5}, scores)
	assert.Equal(t, 15, report.Score)
	assert.Equal(t, 55, report.MaxScore)
	assert.False(t, report.Passed)
	assert.Contains(t, report.Checks[4].Message, "dirty")
}

func TestEvaluateSubmission_BestCase(t *testing.T) {
	report := EvaluateSubmission(models.Submission{
		Description:    "Implements the scanner",
		Files:          []string{"tests/foo_test.py", "README.md", "main.go"},
		MergeableState: "clean",
	})

	for _, c := range report.Checks {
		assert.True(t, c.Passed, c.Name)
		assert.Equal(t, c.MaxScore, c.Score, c.Name)
	}
	assert.Equal(t, 55, report.Score)
	assert.Equal(t, 55, report.MaxScore)
	assert.True(t, report.Passed)
	assert.InDelta(t, 100.0, report.Percentage(), 0.001)
}

func TestEvaluateSubmission_CheckOrder(t *testing.T) {
	report := EvaluateSubmission(models.Submission{})

	var names []string
	for _, c := range report.Checks {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"PR Description", "Tests Included", "Documentation Updated", "Contains Code", "Merge Ready"}, names)
	assert.Contains(t, report.Checks[4].Message, "unknown")
}

func TestEvaluateSubmission_PassingLine(t *testing.T) {
	tests := []struct {
		name     string
		sub      models.Submission
		score    int
		expected bool
	}{
		{
			name:     "Code only with conflicts",
			sub:      models.Submission{Files: []string{"src/lib.rs"}, MergeableState: "dirty"},
			score:    0 + 5 + 5 + 10 + 5,
			expected: false,
		},
		{
			name:     "Code and hooks",
			sub:      models.Submission{Files: []string{"src/lib.rs"}, MergeableState: "has_hooks"},
			score:    0 + 5 + 5 + 10 + 10,
			expected: true,
		},
		{
			name:     "Description, code, merge ready",
			sub:      models.Submission{Description: "x", Files: []string{"app.js"}, MergeableState: "clean"},
			score:    10 + 5 + 5 + 10 + 10,
			expected: true,
		},
		{
			name:     "Test file also counts as code",
			sub:      models.Submission{Files: []string{"pkg/scan_test.go"}, MergeableState: "blocked"},
			score:    0 + 15 + 5 + 10 + 5,
			expected: true,
		},
		{
			name:     "Docs only",
			sub:      models.Submission{Description: "docs", Files: []string{"docs/README"}, MergeableState: "unstable"},
			score:    10 + 5 + 10 + 0 + 5,
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := EvaluateSubmission(tt.sub)
			assert.Equal(t, tt.score, report.Score)
			assert.Equal(t, tt.expected, report.Passed)
			assert.Equal(t, report.Score*2 >= report.MaxScore, report.Passed)
		})
	}
}

func TestEvaluateCommitHistory(t *testing.T) {
	tests := []struct {
		name     string
		messages []string
		expected bool
	}{
		{name: "Descriptive commits", messages: []string{"Add lead extractor", "Fix ranking ties"}, expected: true},
		{name: "Too short", messages: []string{"Add lead extractor", "wip"}, expected: false},
		{name: "Exactly ten characters", messages: []string{"0123456789"}, expected: false},
		{name: "Merge commit", messages: []string{"Merge branch 'main' into feature"}, expected: false},
		{name: "No commits", messages: nil, expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := EvaluateCommitHistory(tt.messages)
			require.Len(t, report.Checks, 1)
			assert.Equal(t, tt.expected, report.Passed)
			assert.Equal(t, 20, report.MaxScore)
			if tt.expected {
				assert.Equal(t, 20, report.Score)
			} else {
				assert.Equal(t, 0, report.Score)
			}
		})
	}
}

func TestNewReport_HalfPasses(t *testing.T) {
	report := NewReport([]models.QualityCheck{
		{Name: "a", Score: 5, MaxScore: 10},
		{Name: "b", Score: 0, MaxScore: 0},
	})
	assert.True(t, report.Passed)
	assert.InDelta(t, 50.0, report.Percentage(), 0.001)

	assert.True(t, NewReport(nil).Passed)
	assert.Equal(t, 0.0, NewReport(nil).Percentage())
}
