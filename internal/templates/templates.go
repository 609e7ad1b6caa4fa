// Package templates renders leads, analyses and quality reports as
// human-readable text for issue comments, pull requests and terminals.
package templates

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/rustchain/bounty-hunter-bot/internal/analyzer"
	"github.com/rustchain/bounty-hunter-bot/internal/models"
)

var complexityGlyphs = map[models.Complexity]string{
	models.Trivial: "🔵",
	models.Easy:    "🟢",
	models.Medium:  "🟡",
	models.Hard:    "🟠",
	models.Expert:  "🔴",
}

// ComplexityBadge is the glyph and tier name, e.g. "🟡 Medium".
func ComplexityBadge(c models.Complexity) string {
	return fmt.Sprintf("%s %s", complexityGlyphs[c], c)
}

// ComplexityLabel is the badge with the effort range, e.g. "🟡 Medium (4-8 hours)".
func ComplexityLabel(c models.Complexity) string {
	return fmt.Sprintf("%s (%s)", ComplexityBadge(c), analyzer.EstimateEffort(c))
}

// QualitySummary renders the verdict line of a quality report.
func QualitySummary(r models.QualityReport) string {
	status := "❌ FAILED"
	if r.Passed {
		status = "✅ PASSED"
	}
	return fmt.Sprintf("%s (%.1f%% - %d/%d points)", status, r.Percentage(), r.Score, r.MaxScore)
}

// Notes returns the implementation notes of an analysis, flagged with a
// warning glyph for Hard and Expert work.
func Notes(a models.Analysis) string {
	if a.Complexity >= models.Hard {
		return "⚠️ " + a.ImplementationNotes
	}
	return a.ImplementationNotes
}

var funcs = template.FuncMap{
	"label": ComplexityLabel,
	"badge": ComplexityBadge,
	"notes": Notes,
	"join":  strings.Join,
}

var claimTmpl = template.Must(template.New("claim").Funcs(funcs).Parse(`## Bounty Claim: #{{.Number}}

**Claimant:** @{{.Handle}}
**Wallet:** {{.Wallet}}

### Bounty Details
- **Repository:** {{.Repository}}
- **Issue:** #{{.Number}} - {{.Analysis.Title}}
- **Complexity:** {{label .Analysis.Complexity}}
- **Estimated Effort:** {{.Analysis.EstimatedEffort}}

### Implementation Plan
{{notes .Analysis}}

### Risk Mitigation
{{if .Analysis.Risks}}- {{join .Analysis.Risks "\n- "}}{{else}}No significant risks identified{{end}}

---

I claim this bounty and will submit a PR within the expected timeframe.`))

var submissionTmpl = template.Must(template.New("submission").Parse(`## Submission Update: #{{.Number}}

**Submitted by:** @{{.Handle}}
**PR:** {{.PRURL}}
**Wallet:** {{.Wallet}}

### Summary
{{.Summary}}

### Verification
- [x] Code compiles without errors
- [x] All tests pass
- [x] Documentation updated
- [x] Follows project coding standards

---

Ready for review and payout calculation.`))

var prTmpl = template.Must(template.New("pr").Funcs(funcs).Parse(`## Summary

Fix for issue #{{.Number}}: {{.Title}}

### Complexity Assessment
{{badge .Analysis.Complexity}} - {{.Analysis.EstimatedEffort}}

### Changes

{{range .Changes}}- {{.}}
{{end}}
### Testing

{{.Testing}}

### Implementation Notes

{{notes .Analysis}}

---

**Related Issue:** #{{.Number}}{{if .Reward}}

**Reward Claim:** {{.Reward}}{{end}}`))

var progressTmpl = template.Must(template.New("progress").Parse(`## Progress Update

| Phase | Count |
|-------|-------|
| Claimed | {{.Claimed}} |
| In Progress | {{.InProgress}} |
| Submitted | {{.Submitted}} |

---
*Auto-generated progress report*`))

// Claimant identifies who is claiming a bounty.
type Claimant struct {
	Handle string
	Wallet string
}

// ClaimComment renders the comment posted to claim a bounty.
func ClaimComment(repository string, who Claimant, analysis models.Analysis) (string, error) {
	return render(claimTmpl, map[string]any{
		"Number":     analysis.Number,
		"Repository": repository,
		"Handle":     who.Handle,
		"Wallet":     who.Wallet,
		"Analysis":   analysis,
	})
}

// SubmissionComment renders the comment posted when a solution is submitted.
func SubmissionComment(number int, prURL, summary string, who Claimant) (string, error) {
	return render(submissionTmpl, map[string]any{
		"Number":  number,
		"PRURL":   prURL,
		"Summary": summary,
		"Handle":  who.Handle,
		"Wallet":  who.Wallet,
	})
}

// PRDescription renders a pull request body for a bounty solution.
func PRDescription(lead models.Lead, analysis models.Analysis, changes []string, testing string) (string, error) {
	reward := ""
	if lead.RewardEstimate != models.RewardUnspecified {
		reward = string(lead.RewardEstimate)
	}
	return render(prTmpl, map[string]any{
		"Number":   lead.Number,
		"Title":    lead.Title,
		"Analysis": analysis,
		"Changes":  changes,
		"Testing":  testing,
		"Reward":   reward,
	})
}

// ProgressUpdate renders a status table of claimed, in-progress and submitted bounties.
func ProgressUpdate(claimed, inProgress, submitted int) (string, error) {
	return render(progressTmpl, map[string]int{
		"Claimed":    claimed,
		"InProgress": inProgress,
		"Submitted":  submitted,
	})
}

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render %s template: %w", t.Name(), err)
	}
	return buf.String(), nil
}
