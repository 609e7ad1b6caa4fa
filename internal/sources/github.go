package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v60/github"
	"github.com/rustchain/bounty-hunter-bot/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

const perPage = 100

// GitHubSource implements Feed and Publisher on the GitHub REST API
type GitHubSource struct {
	client        *github.Client
	authenticated bool
}

var (
	_ Feed      = (*GitHubSource)(nil)
	_ Publisher = (*GitHubSource)(nil)
)

// NewGitHubSource creates a GitHub source. An empty token gives an
// unauthenticated client with the public rate limit.
func NewGitHubSource(ctx context.Context, token string) *GitHubSource {
	httpClient := &http.Client{Timeout: 30 * time.Second}

	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(context.WithValue(ctx, oauth2.HTTPClient, httpClient), ts)
	}

	return &GitHubSource{
		client:        github.NewClient(httpClient),
		authenticated: token != "",
	}
}

// WithBaseURL points the source at a different API root, e.g. GitHub Enterprise
func (s *GitHubSource) WithBaseURL(baseURL string) (*GitHubSource, error) {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	s.client.BaseURL = u
	return s, nil
}

func (s *GitHubSource) GetName() string {
	return "github"
}

func (s *GitHubSource) IsAuthenticated() bool {
	return s.authenticated
}

func (s *GitHubSource) ListOpenIssues(ctx context.Context, repository string) ([]models.RawIssue, error) {
	owner, repo, err := SplitRepository(repository)
	if err != nil {
		return nil, err
	}

	opts := &github.IssueListByRepoOptions{
		State:       "open",
		ListOptions: github.ListOptions{PerPage: perPage},
	}

	var issues []models.RawIssue
	for {
		page, resp, err := s.client.Issues.ListByRepo(ctx, owner, repo, opts)
		if err != nil {
			return nil, &TransportError{Op: "list issues", Repository: repository, Err: err}
		}

		for _, issue := range page {
			issues = append(issues, toRawIssue(issue))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	logrus.Debugf("Fetched %d open issues from %s", len(issues), repository)
	return issues, nil
}

func (s *GitHubSource) GetIssue(ctx context.Context, repository string, number int) (*models.RawIssue, error) {
	owner, repo, err := SplitRepository(repository)
	if err != nil {
		return nil, err
	}

	issue, _, err := s.client.Issues.Get(ctx, owner, repo, number)
	if err != nil {
		return nil, &TransportError{Op: fmt.Sprintf("get issue #%d", number), Repository: repository, Err: err}
	}

	raw := toRawIssue(issue)
	return &raw, nil
}

func (s *GitHubSource) GetPullRequest(ctx context.Context, repository string, number int) (*models.PRMetadata, error) {
	owner, repo, err := SplitRepository(repository)
	if err != nil {
		return nil, err
	}

	pr, _, err := s.client.PullRequests.Get(ctx, owner, repo, number)
	if err != nil {
		return nil, &TransportError{Op: fmt.Sprintf("get pull request #%d", number), Repository: repository, Err: err}
	}

	return &models.PRMetadata{
		Number:         pr.GetNumber(),
		Body:           pr.GetBody(),
		MergeableState: pr.GetMergeableState(),
	}, nil
}

func (s *GitHubSource) ListPullRequestFiles(ctx context.Context, repository string, number int) ([]string, error) {
	owner, repo, err := SplitRepository(repository)
	if err != nil {
		return nil, err
	}

	opts := &github.ListOptions{PerPage: perPage}
	var files []string
	for {
		page, resp, err := s.client.PullRequests.ListFiles(ctx, owner, repo, number, opts)
		if err != nil {
			return nil, &TransportError{Op: fmt.Sprintf("list files of #%d", number), Repository: repository, Err: err}
		}

		for _, f := range page {
			files = append(files, f.GetFilename())
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return files, nil
}

func (s *GitHubSource) ListCommits(ctx context.Context, repository string, number int) ([]string, error) {
	owner, repo, err := SplitRepository(repository)
	if err != nil {
		return nil, err
	}

	opts := &github.ListOptions{PerPage: perPage}
	var messages []string
	for {
		page, resp, err := s.client.PullRequests.ListCommits(ctx, owner, repo, number, opts)
		if err != nil {
			return nil, &TransportError{Op: fmt.Sprintf("list commits of #%d", number), Repository: repository, Err: err}
		}

		for _, c := range page {
			messages = append(messages, c.GetCommit().GetMessage())
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return messages, nil
}

func (s *GitHubSource) CreateComment(ctx context.Context, repository string, number int, body string) (string, error) {
	owner, repo, err := SplitRepository(repository)
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(body) == "" {
		return "", fmt.Errorf("comment body cannot be empty")
	}

	comment, _, err := s.client.Issues.CreateComment(ctx, owner, repo, number, &github.IssueComment{
		Body: github.String(body),
	})
	if err != nil {
		return "", &TransportError{Op: fmt.Sprintf("comment on #%d", number), Repository: repository, Err: err}
	}

	return comment.GetHTMLURL(), nil
}

func (s *GitHubSource) AddLabels(ctx context.Context, repository string, number int, labels []string) error {
	owner, repo, err := SplitRepository(repository)
	if err != nil {
		return err
	}

	if len(labels) == 0 {
		return fmt.Errorf("labels cannot be empty")
	}

	if _, _, err := s.client.Issues.AddLabelsToIssue(ctx, owner, repo, number, labels); err != nil {
		return &TransportError{Op: fmt.Sprintf("label #%d", number), Repository: repository, Err: err}
	}

	return nil
}

// Missing fields come back as zero values through the go-github getters.
func toRawIssue(issue *github.Issue) models.RawIssue {
	var labels []string
	for _, l := range issue.Labels {
		if name := l.GetName(); name != "" {
			labels = append(labels, name)
		}
	}

	return models.RawIssue{
		Number:        issue.GetNumber(),
		Title:         issue.GetTitle(),
		Body:          issue.GetBody(),
		Labels:        labels,
		IsPullRequest: issue.IsPullRequest(),
		HTMLURL:       issue.GetHTMLURL(),
	}
}
