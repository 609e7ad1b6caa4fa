// Package quality scores finished submissions against a fixed rubric.
package quality

import (
	"fmt"
	"path"
	"strings"

	"github.com/rustchain/bounty-hunter-bot/internal/models"
)

var (
	testSuffixes = []string{"_test.go", "_test.rs", "_test.py", ".test.js", ".test.ts", ".spec.js", ".spec.ts"}
	codeSuffixes = []string{".go", ".rs", ".py", ".js", ".ts", ".java", ".c", ".cc", ".cpp", ".h", ".rb", ".sh"}
	docSuffixes  = []string{".md", ".markdown"}

	mergeableStates = map[string]bool{
		"clean":     true,
		"has_hooks": true,
	}
)

// EvaluateSubmission runs the five submission checks and sums them into a report.
func EvaluateSubmission(sub models.Submission) models.QualityReport {
	hasDescription := sub.Description != ""
	hasTests := anyFile(sub.Files, isTestFile)
	hasDocs := anyFile(sub.Files, isDocFile)
	hasCode := anyFile(sub.Files, isCodeFile)
	state := sub.MergeableState
	if state == "" {
		state = "unknown"
	}
	isMergeable := mergeableStates[state]

	checks := []models.QualityCheck{
		check("PR Description", hasDescription, 10, 0, 10,
			"PR has description",
			"PR description is empty or missing"),
		check("Tests Included", hasTests, 15, 5, 15,
			"Tests are included in the PR",
			"No tests found in the PR (bonus points for adding tests)"),
		check("Documentation Updated", hasDocs, 10, 5, 10,
			"Documentation updated",
			"No documentation changes detected"),
		check("Contains Code", hasCode, 10, 0, 10,
			"Code changes present",
			"No code files changed"),
		check("Merge Ready", isMergeable, 10, 5, 10,
			fmt.Sprintf("PR is mergeable (state: %s)", state),
			fmt.Sprintf("PR has merge conflicts or needs rebasing (state: %s)", state)),
	}

	return NewReport(checks)
}

// EvaluateCommitHistory checks that every commit message is descriptive.
// It is reported on its own and never folded into EvaluateSubmission.
func EvaluateCommitHistory(messages []string) models.QualityReport {
	good := true
	for _, msg := range messages {
		if len(msg) <= 10 || strings.HasPrefix(msg, "Merge") {
			good = false
			break
		}
	}

	return NewReport([]models.QualityCheck{
		check("Commit Messages", good, 20, 0, 20,
			fmt.Sprintf("%d commits with descriptive messages", len(messages)),
			"Some commits have poor messages"),
	})
}

// NewReport totals checks into a report. A report passes with at least half of the points.
func NewReport(checks []models.QualityCheck) models.QualityReport {
	report := models.QualityReport{Checks: checks}
	for _, c := range checks {
		report.Score += c.Score
		report.MaxScore += c.MaxScore
	}
	report.Passed = report.Score*2 >= report.MaxScore
	return report
}

func check(name string, passed bool, pass, fail, maxScore int, okMsg, failMsg string) models.QualityCheck {
	c := models.QualityCheck{Name: name, Passed: passed, MaxScore: maxScore}
	if passed {
		c.Score = pass
		c.Message = okMsg
	} else {
		c.Score = fail
		c.Message = failMsg
	}
	if c.Score > maxScore {
		c.Score = maxScore
	}
	return c
}

func anyFile(files []string, pred func(string) bool) bool {
	for _, f := range files {
		if pred(f) {
			return true
		}
	}
	return false
}

func isTestFile(name string) bool {
	return strings.Contains(name, "test") || hasSuffix(name, testSuffixes)
}

func isDocFile(name string) bool {
	return hasSuffix(name, docSuffixes) || strings.Contains(name, "README")
}

func isCodeFile(name string) bool {
	return hasSuffix(path.Ext(name), codeSuffixes)
}

func hasSuffix(name string, suffixes []string) bool {
	for _, s := range suffixes {
		if strings.HasSuffix(name, s) {
			return true
		}
	}
	return false
}
