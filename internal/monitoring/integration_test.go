package monitoring

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/rustchain/bounty-hunter-bot/internal/config"
	"github.com/rustchain/bounty-hunter-bot/internal/models"
	"github.com/rustchain/bounty-hunter-bot/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryStorage implements StorageInterface in memory
type memoryStorage struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{data: make(map[string][]byte)}
}

func (m *memoryStorage) Store(ctx context.Context, name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[name] = data
	return nil
}

func (m *memoryStorage) Retrieve(ctx context.Context, name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if data, exists := m.data[name]; exists {
		return data, nil
	}
	return nil, fmt.Errorf("file not found: %s", name)
}

func (m *memoryStorage) List(ctx context.Context, prefix string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var names []string
	for name := range m.data {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	return names, nil
}

func (m *memoryStorage) Delete(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, name)
	return nil
}

// recordingNotifier keeps everything it is asked to send
type recordingNotifier struct {
	reports []models.ScanReport
	alerts  []models.Alert
}

func (r *recordingNotifier) SendReport(report *models.ScanReport) error {
	r.reports = append(r.reports, *report)
	return nil
}

func (r *recordingNotifier) SendAlert(alert *models.Alert) error {
	r.alerts = append(r.alerts, *alert)
	return nil
}

// staticFeed serves fixed issues per repository
type staticFeed struct {
	MockFeed
	issues map[string][]models.RawIssue
}

func (f *staticFeed) ListOpenIssues(ctx context.Context, repository string) ([]models.RawIssue, error) {
	issues, ok := f.issues[repository]
	if !ok {
		return nil, fmt.Errorf("repository %s not found", repository)
	}
	return issues, nil
}

func newIntegrationConfig() *config.Config {
	return &config.Config{
		ReportSchedule:  "daily",
		Repositories:    []string{"acme/node", "acme/wallet", "acme/gone"},
		ScanWorkers:     2,
		TopLeads:        10,
		TeamsWebhookURL: "https://example.com/webhook",
	}
}

func newIntegrationFeed() *staticFeed {
	return &staticFeed{issues: map[string][]models.RawIssue{
		"acme/node": {
			{Number: 1, Title: "Patch signature check", Body: "Security bounty: 100 RTC", Labels: []string{"bounty"}},
			{Number: 2, Title: "Docs typo", Body: "10 RTC for a docs fix"},
			{Number: 3, Title: "Open PR", Body: "bounty", IsPullRequest: true},
		},
		"acme/wallet": {
			{Number: 8, Title: "Export CSV", Body: "Reward: 50 RTC, medium effort"},
			{Number: 9, Title: "Question", Body: "How do I build this?"},
		},
	}}
}

func TestFullWorkflow(t *testing.T) {
	store := newMemoryStorage()
	notifier := &recordingNotifier{}
	service := NewService(newIntegrationConfig(), newIntegrationFeed(), store, notifier)

	require.NoError(t, service.RunScan())

	// Report was stored
	name, data, err := storage.Latest(context.Background(), store, snapshotPrefix)
	require.NoError(t, err)
	require.NotEmpty(t, name)

	var stored models.ScanReport
	require.NoError(t, json.Unmarshal(data, &stored))
	assert.Equal(t, "daily", stored.Period)
	assert.Equal(t, 3, stored.TotalLeads)
	require.Len(t, stored.Failures, 1)
	assert.Equal(t, "acme/gone", stored.Failures[0].Repository)

	// Ranked 100 > 50 > 10
	require.Len(t, stored.Leads, 3)
	assert.Equal(t, 1, stored.Leads[0].Number)
	assert.Equal(t, 8, stored.Leads[1].Number)
	assert.Equal(t, 2, stored.Leads[2].Number)

	// Report and one critical alert were sent
	require.Len(t, notifier.reports, 1)
	assert.Equal(t, stored.ID, notifier.reports[0].ID)
	require.Len(t, notifier.alerts, 1)
	assert.Equal(t, "critical", notifier.alerts[0].Type)
	assert.Equal(t, 1, notifier.alerts[0].Lead.Number)

	// A second scan does not alert again
	require.NoError(t, service.TriggerScan())
	assert.Len(t, notifier.reports, 2)
	assert.Equal(t, "manual", notifier.reports[1].Period)
	assert.Len(t, notifier.alerts, 1)

	// Metrics reflect the last run
	var metrics Metrics
	require.NoError(t, json.Unmarshal([]byte(service.GetMetrics()), &metrics))
	assert.Equal(t, 3, metrics.TotalLeads)
	assert.Equal(t, 1, metrics.ErrorCount)
	assert.Equal(t, 2, metrics.RepositoryMetrics["acme/node"])
}

func TestLoadLatestReport(t *testing.T) {
	store := newMemoryStorage()
	first := NewService(newIntegrationConfig(), newIntegrationFeed(), store, &recordingNotifier{})
	require.NoError(t, first.RunScan())

	notifier := &recordingNotifier{}
	restarted := NewService(newIntegrationConfig(), newIntegrationFeed(), store, notifier)
	assert.Nil(t, restarted.LatestReport())

	require.NoError(t, restarted.LoadLatestReport(context.Background()))
	require.NotNil(t, restarted.LatestReport())
	assert.Equal(t, first.LatestReport().ID, restarted.LatestReport().ID)

	// Critical leads from the stored report were already alerted
	require.NoError(t, restarted.RunCriticalCheck())
	assert.Empty(t, notifier.alerts)
	assert.Empty(t, notifier.reports)
}

func TestLoadLatestReport_Empty(t *testing.T) {
	service := NewService(newIntegrationConfig(), newIntegrationFeed(), newMemoryStorage(), nil)

	require.NoError(t, service.LoadLatestReport(context.Background()))
	assert.Nil(t, service.LatestReport())
}

func TestRunScan_WithoutNotifications(t *testing.T) {
	cfg := newIntegrationConfig()
	cfg.TeamsWebhookURL = ""
	notifier := &recordingNotifier{}
	service := NewService(cfg, newIntegrationFeed(), nil, notifier)

	require.NoError(t, service.RunScan())
	assert.Empty(t, notifier.reports)
	assert.Empty(t, notifier.alerts)
	require.NotNil(t, service.LatestReport())
}
