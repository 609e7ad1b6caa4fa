package monitoring

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rustchain/bounty-hunter-bot/internal/analyzer"
	"github.com/rustchain/bounty-hunter-bot/internal/config"
	"github.com/rustchain/bounty-hunter-bot/internal/models"
	"github.com/rustchain/bounty-hunter-bot/internal/notifications"
	"github.com/rustchain/bounty-hunter-bot/internal/quality"
	"github.com/rustchain/bounty-hunter-bot/internal/scanner"
	"github.com/rustchain/bounty-hunter-bot/internal/sources"
	"github.com/rustchain/bounty-hunter-bot/internal/storage"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const snapshotPrefix = "leads-"

// ErrNoPublisher is returned by claim and submit when the feed cannot write
var ErrNoPublisher = errors.New("source feed does not support publishing")

// Service scans repositories for bounty leads and tracks the results
type Service struct {
	config              *config.Config
	feed                sources.Feed
	storage             storage.StorageInterface
	notificationService notifications.NotificationInterface
	metrics             *Metrics
	latest              *models.ScanReport
	alerted             map[models.LeadKey]bool
	mu                  sync.RWMutex
}

// Metrics holds scan metrics
type Metrics struct {
	TotalLeads          int            `json:"total_leads"`
	LastRun             time.Time      `json:"last_run"`
	LastRunDuration     string         `json:"last_run_duration"`
	RepositoryMetrics   map[string]int `json:"repository_metrics"`
	DifficultyBreakdown map[string]int `json:"difficulty_breakdown"`
	ErrorCount          int            `json:"error_count"`
}

// NewService creates a new monitoring service. storage and notificationService may be nil.
func NewService(cfg *config.Config, feed sources.Feed, storage storage.StorageInterface, notificationService notifications.NotificationInterface) *Service {
	return &Service{
		config:              cfg,
		feed:                feed,
		storage:             storage,
		notificationService: notificationService,
		alerted:             make(map[models.LeadKey]bool),
		metrics: &Metrics{
			RepositoryMetrics:   make(map[string]int),
			DifficultyBreakdown: make(map[string]int),
		},
	}
}

// ScanRepository fetches and ranks the leads of a single repository.
// Transport errors are returned to the caller.
func (s *Service) ScanRepository(ctx context.Context, repository string) ([]models.Lead, error) {
	issues, err := s.feed.ListOpenIssues(ctx, repository)
	if err != nil {
		return nil, err
	}

	leads := scanner.ExtractLeads(repository, issues)
	scanner.Rank(leads)
	return leads, nil
}

// ScanRepositories scans every repository with a bounded number of concurrent
// fetches. A repository that fails is logged and listed in the result's
// failures; the others are still merged into one ranked, deduplicated list.
func (s *Service) ScanRepositories(ctx context.Context, repositories []string) (*models.ScanResult, error) {
	if len(repositories) == 0 {
		return nil, fmt.Errorf("no repositories to scan")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	workers := s.config.ScanWorkers
	if workers < 1 {
		workers = 1
	}

	batches := make([][]models.Lead, len(repositories))
	failures := make([]*models.SourceFailure, len(repositories))

	var g errgroup.Group
	g.SetLimit(workers)

	for i, repo := range repositories {
		i, repo := i, repo

		g.Go(func() error {
			logrus.Infof("Scanning %s for bounty leads", repo)
			leads, err := s.ScanRepository(ctx, repo)
			if err != nil {
				logrus.Warnf("Failed to scan %s: %v", repo, err)
				failures[i] = &models.SourceFailure{Repository: repo, Error: err.Error()}
				return nil // keep scanning the other repositories
			}

			logrus.Infof("Found %d leads in %s", len(leads), repo)
			batches[i] = leads
			return nil
		})
	}

	_ = g.Wait()

	result := &models.ScanResult{Leads: scanner.Merge(batches...)}
	for _, f := range failures {
		if f != nil {
			result.Failures = append(result.Failures, *f)
		}
	}

	logrus.Infof("Collected %d leads from %d repositories (%d failed)",
		len(result.Leads), len(repositories), len(result.Failures))
	return result, nil
}

// RunScan performs the scheduled scan of the configured repositories
func (s *Service) RunScan() error {
	return s.runScan(s.config.ReportSchedule)
}

// TriggerScan runs an out-of-schedule scan
func (s *Service) TriggerScan() error {
	return s.runScan("manual")
}

// RunCriticalCheck rescans the configured repositories and alerts on critical
// leads that have not been alerted yet. No report is stored or sent.
func (s *Service) RunCriticalCheck() error {
	logrus.Info("Running critical lead check")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	result, err := s.ScanRepositories(ctx, s.config.Repositories)
	if err != nil {
		return err
	}

	if s.notificationService != nil && s.config.NotificationsEnabled() {
		s.sendCriticalAlerts(result.Leads)
	}
	return nil
}

func (s *Service) runScan(period string) error {
	start := time.Now()
	logrus.Infof("Starting %s scan of %d repositories", period, len(s.config.Repositories))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	result, err := s.ScanRepositories(ctx, s.config.Repositories)
	if err != nil {
		return err
	}

	report := s.generateReport(result, s.config.Repositories, period)

	if err := s.storeReport(ctx, report); err != nil {
		logrus.Errorf("Failed to store scan report: %v", err)
		return err
	}

	s.updateMetrics(result, time.Since(start))

	if s.notificationService != nil && s.config.NotificationsEnabled() {
		if err := s.notificationService.SendReport(report); err != nil {
			logrus.Errorf("Failed to send report: %v", err)
			return err
		}
		s.sendCriticalAlerts(result.Leads)
	}

	logrus.Infof("Scan completed in %v", time.Since(start))
	return nil
}

func (s *Service) generateReport(result *models.ScanResult, repositories []string, period string) *models.ScanReport {
	top := result.Leads
	if limit := s.config.TopLeads; limit > 0 && len(top) > limit {
		top = top[:limit]
	}

	report := &models.ScanReport{
		ID:           uuid.NewString(),
		GeneratedAt:  time.Now().UTC(),
		Period:       period,
		Repositories: repositories,
		TotalLeads:   len(result.Leads),
		Leads:        top,
		Failures:     result.Failures,
		Summary:      make(map[string]any),
	}

	repoCount := make(map[string]int)
	difficultyCount := make(map[string]int)
	rewardCount := make(map[string]int)

	for _, lead := range result.Leads {
		repoCount[lead.Repository]++
		difficultyCount[string(lead.Difficulty)]++
		rewardCount[string(lead.RewardEstimate)]++
	}

	report.Summary["repositories"] = repoCount
	report.Summary["difficulty"] = difficultyCount
	report.Summary["reward"] = rewardCount

	return report
}

func (s *Service) storeReport(ctx context.Context, report *models.ScanReport) error {
	s.mu.Lock()
	s.latest = report
	s.mu.Unlock()

	if s.storage == nil {
		return nil
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal scan report: %w", err)
	}

	name := fmt.Sprintf("%s%s.json", snapshotPrefix, report.GeneratedAt.Format("2006-01-02-15-04-05"))
	return s.storage.Store(ctx, name, data)
}

// LoadLatestReport restores the newest stored report so it is served before the first scan
func (s *Service) LoadLatestReport(ctx context.Context) error {
	if s.storage == nil {
		return nil
	}

	name, data, err := storage.Latest(ctx, s.storage, snapshotPrefix)
	if err != nil {
		return err
	}
	if name == "" {
		logrus.Info("No stored scan report found")
		return nil
	}

	var report models.ScanReport
	if err := json.Unmarshal(data, &report); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = &report
	for _, lead := range report.Leads {
		if lead.Difficulty == models.DifficultyCritical {
			s.alerted[lead.Key()] = true
		}
	}

	logrus.Infof("Loaded scan report %s with %d leads", name, report.TotalLeads)
	return nil
}

// LatestReport returns the most recent scan report, or nil before the first scan
func (s *Service) LatestReport() *models.ScanReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// sendCriticalAlerts alerts once per critical lead
func (s *Service) sendCriticalAlerts(leads []models.Lead) {
	for _, lead := range leads {
		if lead.Difficulty != models.DifficultyCritical {
			continue
		}

		s.mu.Lock()
		seen := s.alerted[lead.Key()]
		s.alerted[lead.Key()] = true
		s.mu.Unlock()
		if seen {
			continue
		}

		lead := lead
		alert := &models.Alert{
			ID:        uuid.NewString(),
			Type:      "critical",
			Title:     fmt.Sprintf("Critical bounty: %s", lead.Title),
			Message:   fmt.Sprintf("%s #%d is marked critical or security related (%s)", lead.Repository, lead.Number, lead.RewardEstimate),
			Lead:      &lead,
			CreatedAt: time.Now().UTC(),
		}
		if err := s.notificationService.SendAlert(alert); err != nil {
			logrus.Errorf("Failed to send alert for %s #%d: %v", lead.Repository, lead.Number, err)
		}
	}
}

func (s *Service) updateMetrics(result *models.ScanResult, duration time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.metrics.TotalLeads = len(result.Leads)
	s.metrics.LastRun = time.Now()
	s.metrics.LastRunDuration = duration.String()
	s.metrics.ErrorCount = len(result.Failures)

	s.metrics.RepositoryMetrics = make(map[string]int)
	s.metrics.DifficultyBreakdown = make(map[string]int)

	for _, lead := range result.Leads {
		s.metrics.RepositoryMetrics[lead.Repository]++
		s.metrics.DifficultyBreakdown[string(lead.Difficulty)]++
	}
}

// GetMetrics returns current metrics as JSON
func (s *Service) GetMetrics() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, _ := json.MarshalIndent(s.metrics, "", "  ")
	return string(data)
}

// AnalyzeIssue fetches one issue and classifies it
func (s *Service) AnalyzeIssue(ctx context.Context, repository string, number int) (*models.Lead, *models.Analysis, error) {
	issue, err := s.feed.GetIssue(ctx, repository, number)
	if err != nil {
		return nil, nil, err
	}

	reward, difficulty := scanner.ParseRewardInfo(issue.Body)
	lead := &models.Lead{
		Repository:     repository,
		Number:         issue.Number,
		Title:          issue.Title,
		Body:           issue.Body,
		Labels:         issue.Labels,
		RewardEstimate: reward,
		Difficulty:     difficulty,
		URL:            issue.HTMLURL,
	}

	analysis := analyzer.AnalyzeLead(*lead)
	return lead, &analysis, nil
}

// ValidateSubmission scores a pull request with the five-check rubric
func (s *Service) ValidateSubmission(ctx context.Context, repository string, number int) (*models.QualityReport, error) {
	pr, err := s.feed.GetPullRequest(ctx, repository, number)
	if err != nil {
		return nil, err
	}

	files, err := s.feed.ListPullRequestFiles(ctx, repository, number)
	if err != nil {
		return nil, err
	}

	report := quality.EvaluateSubmission(models.Submission{
		Description:    pr.Body,
		Files:          files,
		MergeableState: pr.MergeableState,
	})

	logrus.Infof("Quality check for %s #%d: %d/%d", repository, number, report.Score, report.MaxScore)
	return &report, nil
}

// ValidateCommitHistory scores the commit messages of a pull request
func (s *Service) ValidateCommitHistory(ctx context.Context, repository string, number int) (*models.QualityReport, error) {
	commits, err := s.feed.ListCommits(ctx, repository, number)
	if err != nil {
		return nil, err
	}

	report := quality.EvaluateCommitHistory(commits)
	return &report, nil
}

// ClaimLead posts a claim comment and labels the issue as claimed
func (s *Service) ClaimLead(ctx context.Context, repository string, number int, body string) (string, error) {
	return s.publish(ctx, repository, number, body, []string{"claimed"})
}

// SubmitCompletion posts a submission comment and moves the issue to review
func (s *Service) SubmitCompletion(ctx context.Context, repository string, number int, body string) (string, error) {
	return s.publish(ctx, repository, number, body, []string{"submitted", "under-review"})
}

func (s *Service) publish(ctx context.Context, repository string, number int, body string, labels []string) (string, error) {
	publisher, ok := s.feed.(sources.Publisher)
	if !ok {
		return "", ErrNoPublisher
	}

	url, err := publisher.CreateComment(ctx, repository, number, body)
	if err != nil {
		return "", fmt.Errorf("failed to post comment: %w", err)
	}

	if err := publisher.AddLabels(ctx, repository, number, labels); err != nil {
		return url, fmt.Errorf("comment posted but labelling failed: %w", err)
	}

	logrus.Infof("Posted to %s #%d and added labels %v", repository, number, labels)
	return url, nil
}
