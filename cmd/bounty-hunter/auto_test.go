package main

import (
	"context"
	"testing"

	"github.com/rustchain/bounty-hunter-bot/internal/config"
	"github.com/rustchain/bounty-hunter-bot/internal/models"
	"github.com/rustchain/bounty-hunter-bot/internal/monitoring"
	"github.com/rustchain/bounty-hunter-bot/internal/templates"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockFeed is a mock GitHub feed that can also publish
type MockFeed struct {
	mock.Mock
}

func (m *MockFeed) GetName() string {
	return "mock"
}

func (m *MockFeed) ListOpenIssues(ctx context.Context, repository string) ([]models.RawIssue, error) {
	args := m.Called(ctx, repository)
	issues, _ := args.Get(0).([]models.RawIssue)
	return issues, args.Error(1)
}

func (m *MockFeed) GetIssue(ctx context.Context, repository string, number int) (*models.RawIssue, error) {
	args := m.Called(ctx, repository, number)
	issue, _ := args.Get(0).(*models.RawIssue)
	return issue, args.Error(1)
}

func (m *MockFeed) GetPullRequest(ctx context.Context, repository string, number int) (*models.PRMetadata, error) {
	args := m.Called(ctx, repository, number)
	pr, _ := args.Get(0).(*models.PRMetadata)
	return pr, args.Error(1)
}

func (m *MockFeed) ListPullRequestFiles(ctx context.Context, repository string, number int) ([]string, error) {
	args := m.Called(ctx, repository, number)
	files, _ := args.Get(0).([]string)
	return files, args.Error(1)
}

func (m *MockFeed) ListCommits(ctx context.Context, repository string, number int) ([]string, error) {
	args := m.Called(ctx, repository, number)
	commits, _ := args.Get(0).([]string)
	return commits, args.Error(1)
}

func (m *MockFeed) CreateComment(ctx context.Context, repository string, number int, body string) (string, error) {
	args := m.Called(ctx, repository, number, body)
	return args.String(0), args.Error(1)
}

func (m *MockFeed) AddLabels(ctx context.Context, repository string, number int, labels []string) error {
	args := m.Called(ctx, repository, number, labels)
	return args.Error(0)
}

func newAutoService(feed *MockFeed) *monitoring.Service {
	return monitoring.NewService(&config.Config{ScanWorkers: 2}, feed, nil, nil)
}

func TestAutoClaim_DryRunPicksTopLead(t *testing.T) {
	feed := &MockFeed{}
	feed.On("ListOpenIssues", mock.Anything, "acme/node").Return([]models.RawIssue{
		{Number: 1, Title: "Fix typo", Body: "10 RTC"},
		{Number: 2, Title: "Add peer cache", Body: "Reward: 100 RTC\n- cache peers"},
	}, nil)

	outcome, err := autoClaim(context.Background(), newAutoService(feed), []string{"acme/node"}, templates.Claimant{Handle: "octo", Wallet: "RTCabc"}, false)
	require.NoError(t, err)
	require.NotNil(t, outcome)

	assert.Equal(t, 2, outcome.Lead.Number)
	assert.Contains(t, outcome.Claim, "## Bounty Claim: #2")
	assert.Contains(t, outcome.Claim, "**Claimant:** @octo")
	assert.Empty(t, outcome.URL)
	feed.AssertNotCalled(t, "CreateComment", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAutoClaim_PostClaims(t *testing.T) {
	feed := &MockFeed{}
	feed.On("ListOpenIssues", mock.Anything, "acme/node").Return([]models.RawIssue{
		{Number: 7, Title: "Export CSV", Body: "50 RTC bounty"},
	}, nil)
	feed.On("CreateComment", mock.Anything, "acme/node", 7, mock.AnythingOfType("string")).Return("https://github.com/acme/node/issues/7#c1", nil)
	feed.On("AddLabels", mock.Anything, "acme/node", 7, []string{"claimed"}).Return(nil)

	outcome, err := autoClaim(context.Background(), newAutoService(feed), []string{"acme/node"}, templates.Claimant{Handle: "octo"}, true)
	require.NoError(t, err)
	require.NotNil(t, outcome)

	assert.Equal(t, "https://github.com/acme/node/issues/7#c1", outcome.URL)
	feed.AssertExpectations(t)
}

func TestAutoClaim_NoLeads(t *testing.T) {
	feed := &MockFeed{}
	feed.On("ListOpenIssues", mock.Anything, "acme/node").Return([]models.RawIssue{
		{Number: 3, Title: "Question", Body: "How do I build this?"},
	}, nil)

	outcome, err := autoClaim(context.Background(), newAutoService(feed), []string{"acme/node"}, templates.Claimant{}, true)
	require.NoError(t, err)
	assert.Nil(t, outcome)
}
