package analyzer

import (
	"strings"

	"github.com/rustchain/bounty-hunter-bot/internal/models"
)

const (
	RiskBreakingChange     = "Breaking change - requires migration guide"
	RiskProductionImpact   = "Production impact - requires thorough testing"
	RiskSecuritySensitive  = "Security-sensitive - requires security review"
	RiskExternalDependency = "External dependency - may break if API changes"
	RiskScopeCreep         = "Many requirements - risk of scope creep"
)

const (
	DependencyAsyncRuntime  = "async runtime"
	DependencySerialization = "serialization"
	DependencyDatabase      = "database backend"
	DependencyHTTPClient    = "HTTP client"
)

// Analyze classifies a single issue.
func Analyze(number int, title, body string) models.Analysis {
	requirements := ExtractRequirements(body)
	complexity := AssessComplexity(title, requirements)

	return models.Analysis{
		Number:              number,
		Title:               title,
		Requirements:        requirements,
		Complexity:          complexity,
		EstimatedEffort:     EstimateEffort(complexity),
		Risks:               IdentifyRisks(body, requirements),
		Dependencies:        FindDependencies(body),
		ImplementationNotes: ImplementationNotes(title, complexity),
	}
}

// AnalyzeLead is Analyze applied to a lead.
func AnalyzeLead(lead models.Lead) models.Analysis {
	return Analyze(lead.Number, lead.Title, lead.Body)
}

// IdentifyRisks lists the delivery risks the body hints at, each at most once.
func IdentifyRisks(body string, requirements []string) []string {
	bodyLower := strings.ToLower(body)
	risks := []string{}

	if strings.Contains(bodyLower, "breaking") {
		risks = append(risks, RiskBreakingChange)
	}
	if containsAny(bodyLower, "production", "live") {
		risks = append(risks, RiskProductionImpact)
	}
	if containsAny(bodyLower, "security", "vulnerability") {
		risks = append(risks, RiskSecuritySensitive)
	}
	if containsAny(bodyLower, "api", "external") {
		risks = append(risks, RiskExternalDependency)
	}
	if len(requirements) > 10 {
		risks = append(risks, RiskScopeCreep)
	}

	return risks
}

// FindDependencies lists the kinds of libraries the work will likely touch.
func FindDependencies(body string) []string {
	bodyLower := strings.ToLower(body)
	deps := []string{}

	if containsAny(bodyLower, "tokio", "async") {
		deps = append(deps, DependencyAsyncRuntime)
	}
	if containsAny(bodyLower, "serde", "serialization") {
		deps = append(deps, DependencySerialization)
	}
	if containsAny(bodyLower, "database", "sql") {
		deps = append(deps, DependencyDatabase)
	}
	if containsAny(bodyLower, "api", "http") {
		deps = append(deps, DependencyHTTPClient)
	}

	return deps
}

// ImplementationNotes returns the approach notes for a tier, one per line.
func ImplementationNotes(title string, c models.Complexity) string {
	var notes []string

	switch c {
	case models.Expert, models.Hard:
		notes = append(notes,
			"Complex implementation - consider phased approach",
			"- Break into smaller PRs if possible",
			"- Add comprehensive tests",
		)
	case models.Medium:
		notes = append(notes,
			"- Standard implementation approach",
			"- Add unit tests for edge cases",
		)
	default:
		notes = append(notes,
			"- Straightforward fix",
			"- Quick turnaround expected",
		)
	}

	if strings.Contains(strings.ToLower(title), "refactor") {
		notes = append(notes,
			"- Follow existing code patterns",
			"- Preserve existing behavior",
		)
	}

	return strings.Join(notes, "\n")
}

func containsAny(text string, needles ...string) bool {
	for _, needle := range needles {
		if strings.Contains(text, needle) {
			return true
		}
	}
	return false
}
