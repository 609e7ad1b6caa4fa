package models

import (
	"fmt"
	"strings"
	"time"
)

// RewardTier is the coarse reward estimate parsed from an issue body
type RewardTier string

const (
	Reward100Plus     RewardTier = "100+ RTC"
	Reward50          RewardTier = "50 RTC"
	Reward25          RewardTier = "25 RTC"
	Reward10          RewardTier = "10 RTC"
	RewardUnspecified RewardTier = "Unspecified"
)

// Difficulty is the coarse difficulty parsed from an issue body
type Difficulty string

const (
	DifficultyCritical Difficulty = "Critical"
	DifficultyHigh     Difficulty = "High"
	DifficultyMedium   Difficulty = "Medium"
	DifficultyNormal   Difficulty = "Normal"
)

// RawIssue is an issue or pull request record as returned by a source feed
type RawIssue struct {
	Number        int      `json:"number"`
	Title         string   `json:"title"`
	Body          string   `json:"body"`
	Labels        []string `json:"labels"`
	IsPullRequest bool     `json:"is_pull_request"`
	HTMLURL       string   `json:"html_url"`
}

// PRMetadata holds the pull request fields the quality gate looks at
type PRMetadata struct {
	Number         int    `json:"number"`
	Body           string `json:"body"`
	MergeableState string `json:"mergeable_state"` // "clean", "dirty", "unstable", ...
}

// Submission is everything the quality gate needs to judge a finished pull request
type Submission struct {
	Description    string   `json:"description"`
	Files          []string `json:"files"`
	Commits        []string `json:"commits"`
	MergeableState string   `json:"mergeable_state"`
}

// Lead represents a bounty-eligible issue found in a repository
type Lead struct {
	Repository     string     `json:"repository"` // owner/repo
	Number         int        `json:"number"`
	Title          string     `json:"title"`
	Body           string     `json:"body"`
	Labels         []string   `json:"labels"`
	RewardEstimate RewardTier `json:"reward_estimate"`
	Difficulty     Difficulty `json:"difficulty"`
	URL            string     `json:"url"`
}

// LeadKey identifies a lead across sources
type LeadKey struct {
	Repository string
	Number     int
}

// Key returns the identity of the lead
func (l Lead) Key() LeadKey {
	return LeadKey{Repository: l.Repository, Number: l.Number}
}

// HasLabel reports whether the lead carries the label, ignoring case
func (l Lead) HasLabel(name string) bool {
	for _, label := range l.Labels {
		if strings.EqualFold(label, name) {
			return true
		}
	}
	return false
}

// Complexity is the five-level technical complexity tier
type Complexity int

const (
	Trivial Complexity = iota
	Easy
	Medium
	Hard
	Expert
)

func (c Complexity) String() string {
	switch c {
	case Trivial:
		return "Trivial"
	case Easy:
		return "Easy"
	case Medium:
		return "Medium"
	case Hard:
		return "Hard"
	case Expert:
		return "Expert"
	}
	return fmt.Sprintf("Complexity(%d)", int(c))
}

// MarshalText encodes the tier by name so JSON snapshots stay readable
func (c Complexity) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText parses a tier name
func (c *Complexity) UnmarshalText(text []byte) error {
	for _, tier := range []Complexity{Trivial, Easy, Medium, Hard, Expert} {
		if strings.EqualFold(tier.String(), string(text)) {
			*c = tier
			return nil
		}
	}
	return fmt.Errorf("unknown complexity %q", string(text))
}

// Analysis is the classification result for one lead
type Analysis struct {
	Number              int        `json:"number"`
	Title               string     `json:"title"`
	Requirements        []string   `json:"requirements"`
	Complexity          Complexity `json:"complexity"`
	EstimatedEffort     string     `json:"estimated_effort"`
	Risks               []string   `json:"risks"`
	Dependencies        []string   `json:"dependencies"`
	ImplementationNotes string     `json:"implementation_notes"`
}

// QualityCheck is one weighted rubric item
type QualityCheck struct {
	Name     string `json:"name"`
	Passed   bool   `json:"passed"`
	Score    int    `json:"score"`
	MaxScore int    `json:"max_score"`
	Message  string `json:"message"`
}

// QualityReport aggregates quality checks into a verdict
type QualityReport struct {
	Passed   bool           `json:"passed"`
	Score    int            `json:"score"`
	MaxScore int            `json:"max_score"`
	Checks   []QualityCheck `json:"checks"`
}

// Percentage returns the share of attainable points that were awarded
func (r QualityReport) Percentage() float64 {
	if r.MaxScore == 0 {
		return 0
	}
	return float64(r.Score) / float64(r.MaxScore) * 100
}

// SourceFailure records a repository that could not be fetched during a scan
type SourceFailure struct {
	Repository string `json:"repository"`
	Error      string `json:"error"`
}

// ScanResult is the merged, ranked output of a multi-repository scan
type ScanResult struct {
	Leads    []Lead          `json:"leads"`
	Failures []SourceFailure `json:"failures,omitempty"`
}

// ScanReport represents a periodic report of ranked leads
type ScanReport struct {
	ID           string          `json:"id"`
	GeneratedAt  time.Time       `json:"generated_at"`
	Period       string          `json:"period"` // "daily", "weekly" or "manual"
	Repositories []string        `json:"repositories"`
	TotalLeads   int             `json:"total_leads"`
	Leads        []Lead          `json:"leads"` // top N only
	Failures     []SourceFailure `json:"failures,omitempty"`
	Summary      map[string]any  `json:"summary"`
}

// Alert represents an urgent notification
type Alert struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"` // "critical", "info"
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Lead      *Lead     `json:"lead,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
