package notifications

import (
	"bytes"
	"fmt"
	"html/template"
	"sort"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rustchain/bounty-hunter-bot/internal/config"
	"github.com/rustchain/bounty-hunter-bot/internal/models"
	"github.com/rustchain/bounty-hunter-bot/internal/scanner"
	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

// Service handles sending notifications via various channels
type Service struct {
	config *config.Config
	client *resty.Client
}

// Ensure Service implements NotificationInterface
var _ NotificationInterface = (*Service)(nil)

// TeamsMessage represents a Microsoft Teams message
type TeamsMessage struct {
	Type       string         `json:"@type"`
	Context    string         `json:"@context"`
	ThemeColor string         `json:"themeColor,omitempty"`
	Title      string         `json:"title"`
	Text       string         `json:"text"`
	Sections   []TeamsSection `json:"sections,omitempty"`
}

type TeamsSection struct {
	ActivityTitle    string      `json:"activityTitle,omitempty"`
	ActivitySubtitle string      `json:"activitySubtitle,omitempty"`
	ActivityText     string      `json:"activityText,omitempty"`
	Facts            []TeamsFact `json:"facts,omitempty"`
	Markdown         bool        `json:"markdown,omitempty"`
}

type TeamsFact struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// NewService creates a new notification service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
		client: resty.New().SetTimeout(30 * time.Second),
	}
}

// SendReport sends a scan report via configured notification channels
func (s *Service) SendReport(report *models.ScanReport) error {
	var errors []string

	if s.config.TeamsWebhookURL != "" {
		if err := s.postToTeams(s.buildTeamsMessage(report)); err != nil {
			logrus.Errorf("Failed to send Teams notification: %v", err)
			errors = append(errors, fmt.Sprintf("Teams: %v", err))
		} else {
			logrus.Info("Successfully sent report to Teams")
		}
	}

	if s.config.NotificationEmail != "" {
		if err := s.sendEmail(report); err != nil {
			logrus.Errorf("Failed to send email notification: %v", err)
			errors = append(errors, fmt.Sprintf("Email: %v", err))
		} else {
			logrus.Info("Successfully sent report via email")
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("notification errors: %s", strings.Join(errors, "; "))
	}

	return nil
}

// SendAlert posts a single alert to Teams. Email is reserved for the periodic report.
func (s *Service) SendAlert(alert *models.Alert) error {
	if s.config.TeamsWebhookURL == "" {
		logrus.Infof("Alert not delivered (no Teams webhook): %s - %s", alert.Type, alert.Title)
		return nil
	}

	message := &TeamsMessage{
		Type:       "MessageCard",
		Context:    "https://schema.org/extensions",
		ThemeColor: "d13438",
		Title:      alert.Title,
		Text:       alert.Message,
	}
	if alert.Lead != nil {
		message.Sections = []TeamsSection{{
			ActivityTitle: fmt.Sprintf("[%s #%d](%s)", alert.Lead.Repository, alert.Lead.Number, alert.Lead.URL),
			Facts: []TeamsFact{
				{Name: "Reward", Value: string(alert.Lead.RewardEstimate)},
				{Name: "Difficulty", Value: string(alert.Lead.Difficulty)},
			},
			Markdown: true,
		}}
	}

	if err := s.postToTeams(message); err != nil {
		return fmt.Errorf("failed to send alert: %w", err)
	}
	return nil
}

func (s *Service) postToTeams(message *TeamsMessage) error {
	resp, err := s.client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(message).
		Post(s.config.TeamsWebhookURL)

	if err != nil {
		return fmt.Errorf("failed to send Teams message: %w", err)
	}

	if resp.StatusCode() != 200 {
		return fmt.Errorf("Teams webhook returned status %d: %s", resp.StatusCode(), string(resp.Body()))
	}

	return nil
}

func (s *Service) buildTeamsMessage(report *models.ScanReport) *TeamsMessage {
	message := &TeamsMessage{
		Type:    "MessageCard",
		Context: "https://schema.org/extensions",
		Title:   fmt.Sprintf("Bounty Leads Report - %s", titleCase(report.Period)),
		Text:    fmt.Sprintf("Found %d bounty leads across %d repositories", report.TotalLeads, len(report.Repositories)),
	}

	facts := []TeamsFact{
		{Name: "Total Leads", Value: fmt.Sprintf("%d", report.TotalLeads)},
		{Name: "Generated", Value: report.GeneratedAt.Format("2006-01-02 15:04:05 UTC")},
	}
	if breakdown, ok := report.Summary["difficulty"].(map[string]int); ok {
		for _, name := range sortedKeys(breakdown) {
			facts = append(facts, TeamsFact{
				Name:  fmt.Sprintf("%s Difficulty", name),
				Value: fmt.Sprintf("%d", breakdown[name]),
			})
		}
	}
	message.Sections = append(message.Sections, TeamsSection{
		ActivityTitle: "Summary",
		Facts:         facts,
		Markdown:      true,
	})

	if len(report.Leads) > 0 {
		var top []string
		limit := 5
		if len(report.Leads) < limit {
			limit = len(report.Leads)
		}

		for i := 0; i < limit; i++ {
			lead := report.Leads[i]
			top = append(top, fmt.Sprintf("**[%s](%s)** - %s #%d (%s, %s)",
				lead.Title, lead.URL, lead.Repository, lead.Number, lead.RewardEstimate, lead.Difficulty))
		}

		message.Sections = append(message.Sections, TeamsSection{
			ActivityTitle: "Top Leads",
			ActivityText:  strings.Join(top, "\n\n"),
			Markdown:      true,
		})
	}

	if len(report.Failures) > 0 {
		var failed []string
		for _, f := range report.Failures {
			failed = append(failed, fmt.Sprintf("%s: %s", f.Repository, f.Error))
		}
		message.Sections = append(message.Sections, TeamsSection{
			ActivityTitle: "Repositories not scanned",
			ActivityText:  strings.Join(failed, "\n\n"),
		})
	}

	return message
}

func (s *Service) sendEmail(report *models.ScanReport) error {
	subject := fmt.Sprintf("Bounty Leads Report - %s (%d leads)", titleCase(report.Period), report.TotalLeads)

	htmlBody, err := s.buildEmailHTML(report)
	if err != nil {
		return fmt.Errorf("failed to build email HTML: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.config.SMTPUsername)
	m.SetHeader("To", s.config.NotificationEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", s.buildEmailText(report))
	m.AddAlternative("text/html", htmlBody)

	d := gomail.NewDialer(s.config.SMTPHost, s.config.SMTPPort, s.config.SMTPUsername, s.config.SMTPPassword)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

const emailTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Bounty Leads Report</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 20px; }
        .header { background-color: #24292f; color: white; padding: 20px; border-radius: 5px; }
        .summary { background-color: #f5f5f5; padding: 15px; margin: 20px 0; border-radius: 5px; }
        .lead { border-left: 4px solid #605e5c; padding: 10px; margin: 10px 0; background-color: #fafafa; }
        .lead-title { font-weight: bold; margin-bottom: 5px; }
        .lead-meta { color: #666; font-size: 0.9em; }
        .Critical { border-left-color: #d13438; }
        .High { border-left-color: #ff8c00; }
        .Medium { border-left-color: #ffb900; }
    </style>
</head>
<body>
    <div class="header">
        <h1>Bounty Leads Report</h1>
        <p>{{.Period}} report generated on {{.GeneratedAt.Format "January 2, 2006 at 3:04 PM UTC"}}</p>
    </div>

    <div class="summary">
        <h2>Summary</h2>
        <p><strong>Total Leads:</strong> {{.TotalLeads}}</p>
        <p><strong>Repositories:</strong> {{join .Repositories ", "}}</p>
        {{range .Failures}}<p><strong>Not scanned:</strong> {{.Repository}} ({{.Error}})</p>{{end}}
    </div>

    {{if .Leads}}
    <h2>Top Leads</h2>
    {{range $lead := .Leads}}
        <div class="lead {{$lead.Difficulty}}">
            <div class="lead-title">
                <a href="{{$lead.URL}}" target="_blank">{{$lead.Title}}</a>
            </div>
            <div class="lead-meta">
                {{$lead.Repository}} #{{$lead.Number}} | Reward: {{$lead.RewardEstimate}} | Difficulty: {{$lead.Difficulty}} | Score: {{score $lead}}
            </div>
            {{if $lead.Body}}<p>{{$lead.Body | truncate 200}}</p>{{end}}
        </div>
    {{end}}
    {{end}}

    <hr>
    <p><small>This report was generated automatically by the Bounty Hunter Bot.</small></p>
</body>
</html>
`

func (s *Service) buildEmailHTML(report *models.ScanReport) (string, error) {
	t, err := template.New("email").Funcs(template.FuncMap{
		"join":     strings.Join,
		"score":    scanner.Score,
		"truncate": truncate,
	}).Parse(emailTemplate)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, report); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func (s *Service) buildEmailText(report *models.ScanReport) string {
	var text strings.Builder

	text.WriteString(fmt.Sprintf("Bounty Leads Report - %s\n", titleCase(report.Period)))
	text.WriteString(fmt.Sprintf("Generated: %s\n\n", report.GeneratedAt.Format("2006-01-02 15:04:05 UTC")))

	text.WriteString("SUMMARY\n")
	text.WriteString("=======\n")
	text.WriteString(fmt.Sprintf("Total Leads: %d\n", report.TotalLeads))
	text.WriteString(fmt.Sprintf("Repositories: %s\n", strings.Join(report.Repositories, ", ")))
	for _, f := range report.Failures {
		text.WriteString(fmt.Sprintf("Not scanned: %s (%s)\n", f.Repository, f.Error))
	}

	if len(report.Leads) > 0 {
		text.WriteString("\nTOP LEADS\n")
		text.WriteString("=========\n")

		for i, lead := range report.Leads {
			text.WriteString(fmt.Sprintf("\n%d. #%d - %s\n", i+1, lead.Number, lead.Title))
			text.WriteString(fmt.Sprintf("   Repository: %s\n", lead.Repository))
			text.WriteString(fmt.Sprintf("   Reward: %s | Difficulty: %s\n", lead.RewardEstimate, lead.Difficulty))
			text.WriteString(fmt.Sprintf("   URL: %s\n", lead.URL))
		}
	}

	text.WriteString("\n---\nThis report was generated automatically by the Bounty Hunter Bot.\n")

	return text.String()
}

func truncate(length int, s string) string {
	if len(s) <= length {
		return s
	}
	return s[:length] + "..."
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
