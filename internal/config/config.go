package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rustchain/bounty-hunter-bot/internal/sources"
	"gopkg.in/yaml.v3"
)

// DefaultRepositories are scanned when neither REPOSITORIES nor REPOSITORIES_FILE is set
var DefaultRepositories = []string{
	"Scottcjn/rustchain-bounties",
	"rustchain/rustchain",
}

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Port  string
	Debug bool

	// Schedule configuration
	ReportSchedule string // "daily" or "weekly"
	TimeZone       string

	// GitHub configuration
	GitHubToken   string
	GitHubBaseURL string // empty means api.github.com

	// Scan configuration
	Repositories []string // owner/repo
	ScanWorkers  int
	TopLeads     int

	// Storage configuration
	StorageAccount   string
	StorageContainer string
	OutputDir        string // local snapshots when no storage account is configured

	// Notification configuration
	TeamsWebhookURL   string
	NotificationEmail string
	SMTPHost          string
	SMTPPort          int
	SMTPUsername      string
	SMTPPassword      string

	// Claimant identity used in claim and submission comments
	Wallet string
	Handle string
}

type repositoriesFile struct {
	Repositories []struct {
		Owner   string `yaml:"owner"`
		Repo    string `yaml:"repo"`
		Enabled *bool  `yaml:"enabled,omitempty"`
	} `yaml:"repositories"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		Debug:          getBoolEnv("DEBUG", false),
		ReportSchedule: getEnv("REPORT_SCHEDULE", "daily"),
		TimeZone:       getEnv("TIMEZONE", "UTC"),

		GitHubToken:   getEnv("GITHUB_TOKEN", ""),
		GitHubBaseURL: getEnv("GITHUB_API_URL", ""),

		Repositories: getSliceEnv("REPOSITORIES", DefaultRepositories),
		ScanWorkers:  getIntEnv("SCAN_WORKERS", 4),
		TopLeads:     getIntEnv("TOP_LEADS", 20),

		StorageAccount:   getEnv("AZURE_STORAGE_ACCOUNT", ""),
		StorageContainer: getEnv("AZURE_STORAGE_CONTAINER", "bounty-leads"),
		OutputDir:        getEnv("OUTPUT_DIR", "data"),

		TeamsWebhookURL:   getEnv("TEAMS_WEBHOOK_URL", ""),
		NotificationEmail: getEnv("NOTIFICATION_EMAIL", ""),
		SMTPHost:          getEnv("SMTP_HOST", ""),
		SMTPPort:          getIntEnv("SMTP_PORT", 587),
		SMTPUsername:      getEnv("SMTP_USERNAME", ""),
		SMTPPassword:      getEnv("SMTP_PASSWORD", ""),

		Wallet: getEnv("WALLET", ""),
		Handle: getEnv("HANDLE", ""),
	}

	if path := getEnv("REPOSITORIES_FILE", ""); path != "" {
		repos, err := loadRepositoriesFile(path)
		if err != nil {
			return nil, err
		}
		cfg.Repositories = repos
	}

	// Validate required configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// NotificationsEnabled reports whether any report channel is configured
func (c *Config) NotificationsEnabled() bool {
	return c.TeamsWebhookURL != "" || c.NotificationEmail != ""
}

func (c *Config) validate() error {
	if c.ReportSchedule != "daily" && c.ReportSchedule != "weekly" {
		return fmt.Errorf("REPORT_SCHEDULE must be 'daily' or 'weekly'")
	}

	if len(c.Repositories) == 0 {
		return fmt.Errorf("at least one repository must be configured (REPOSITORIES or REPOSITORIES_FILE)")
	}

	for i, repo := range c.Repositories {
		owner, name, err := sources.SplitRepository(repo)
		if err != nil {
			return err
		}
		c.Repositories[i] = owner + "/" + name
	}

	if c.ScanWorkers < 1 {
		return fmt.Errorf("SCAN_WORKERS must be at least 1")
	}

	if c.NotificationEmail != "" {
		if c.SMTPHost == "" || c.SMTPUsername == "" || c.SMTPPassword == "" {
			return fmt.Errorf("SMTP configuration is required when NOTIFICATION_EMAIL is set")
		}
	}

	return nil
}

func loadRepositoriesFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read repositories file: %w", err)
	}

	var file repositoriesFile
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &file); err != nil {
		return nil, fmt.Errorf("failed to parse repositories file: %w", err)
	}

	var repos []string
	for _, r := range file.Repositories {
		if r.Enabled != nil && !*r.Enabled {
			continue
		}
		repos = append(repos, r.Owner+"/"+r.Repo)
	}

	return repos, nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		var out []string
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out
	}
	return append([]string(nil), defaultValue...)
}
