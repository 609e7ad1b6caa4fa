package sources

import (
	"context"
	"fmt"
	"strings"

	"github.com/rustchain/bounty-hunter-bot/internal/models"
)

// Feed defines the read side of a code-hosting platform.
// Repository identifiers are "owner/repo".
type Feed interface {
	GetName() string
	ListOpenIssues(ctx context.Context, repository string) ([]models.RawIssue, error)
	GetIssue(ctx context.Context, repository string, number int) (*models.RawIssue, error)
	GetPullRequest(ctx context.Context, repository string, number int) (*models.PRMetadata, error)
	ListPullRequestFiles(ctx context.Context, repository string, number int) ([]string, error)
	ListCommits(ctx context.Context, repository string, number int) ([]string, error)
}

// Publisher defines the write side used to claim and submit bounties
type Publisher interface {
	CreateComment(ctx context.Context, repository string, number int, body string) (string, error)
	AddLabels(ctx context.Context, repository string, number int, labels []string) error
}

// TransportError wraps any failure talking to the platform
type TransportError struct {
	Op         string
	Repository string
	Err        error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Repository, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// SplitRepository splits "owner/repo" into its parts
func SplitRepository(repository string) (owner, repo string, err error) {
	parts := strings.Split(strings.TrimSpace(repository), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repository %q: expected 'owner/repo'", repository)
	}
	return parts[0], parts[1], nil
}
