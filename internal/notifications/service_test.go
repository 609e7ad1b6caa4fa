package notifications

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rustchain/bounty-hunter-bot/internal/config"
	"github.com/rustchain/bounty-hunter-bot/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() *models.ScanReport {
	return &models.ScanReport{
		ID:           "run-1",
		GeneratedAt:  time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
		Period:       "daily",
		Repositories: []string{"acme/node", "acme/wallet"},
		TotalLeads:   2,
		Leads: []models.Lead{
			{Repository: "acme/node", Number: 7, Title: "Peer cache", RewardEstimate: models.Reward100Plus, Difficulty: models.DifficultyHigh, URL: "https://github.com/acme/node/issues/7"},
			{Repository: "acme/node", Number: 3, Title: "Docs <typo>", RewardEstimate: models.Reward10, Difficulty: models.DifficultyNormal, URL: "https://github.com/acme/node/issues/3"},
		},
		Failures: []models.SourceFailure{{Repository: "acme/wallet", Error: "list issues acme/wallet: 404"}},
		Summary: map[string]any{
			"difficulty": map[string]int{"High": 1, "Normal": 1},
		},
	}
}

func TestService_buildTeamsMessage(t *testing.T) {
	service := NewService(&config.Config{})

	message := service.buildTeamsMessage(sampleReport())

	assert.Equal(t, "Bounty Leads Report - Daily", message.Title)
	require.Len(t, message.Sections, 3)
	assert.Equal(t, "Summary", message.Sections[0].ActivityTitle)
	assert.Equal(t, TeamsFact{Name: "High Difficulty", Value: "1"}, message.Sections[0].Facts[2])
	assert.Contains(t, message.Sections[1].ActivityText, "acme/node #7")
	assert.Contains(t, message.Sections[2].ActivityText, "acme/wallet")
}

func TestService_buildEmail(t *testing.T) {
	service := NewService(&config.Config{})
	report := sampleReport()

	text := service.buildEmailText(report)
	assert.Contains(t, text, "Total Leads: 2")
	assert.Contains(t, text, "1. #7 - Peer cache")
	assert.Contains(t, text, "Not scanned: acme/wallet")

	html, err := service.buildEmailHTML(report)
	require.NoError(t, err)
	assert.Contains(t, html, "Score: 100")
	assert.Contains(t, html, "Docs &lt;typo&gt;")
	assert.Contains(t, html, "acme/node, acme/wallet")
}

func TestService_SendReportToTeams(t *testing.T) {
	var received TeamsMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	service := NewService(&config.Config{TeamsWebhookURL: server.URL})

	require.NoError(t, service.SendReport(sampleReport()))
	assert.Equal(t, "MessageCard", received.Type)
	assert.Equal(t, "Bounty Leads Report - Daily", received.Title)
}

func TestService_SendReportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadRequest)
	}))
	defer server.Close()

	service := NewService(&config.Config{TeamsWebhookURL: server.URL})

	err := service.SendReport(sampleReport())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Teams")
}

func TestService_SendAlert(t *testing.T) {
	var received TeamsMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
	}))
	defer server.Close()

	lead := sampleReport().Leads[0]
	alert := &models.Alert{Type: "critical", Title: "Critical bounty", Message: "needs review", Lead: &lead}

	require.NoError(t, NewService(&config.Config{}).SendAlert(alert))

	require.NoError(t, NewService(&config.Config{TeamsWebhookURL: server.URL}).SendAlert(alert))
	assert.Equal(t, "Critical bounty", received.Title)
	require.Len(t, received.Sections, 1)
	assert.Equal(t, TeamsFact{Name: "Reward", Value: "100+ RTC"}, received.Sections[0].Facts[0])
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate(5, "abc"))
	assert.Equal(t, "ab...", truncate(2, "abc"))
}
