package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rustchain/bounty-hunter-bot/internal/config"
	"github.com/rustchain/bounty-hunter-bot/internal/models"
	"github.com/rustchain/bounty-hunter-bot/internal/monitoring"
	"github.com/rustchain/bounty-hunter-bot/internal/notifications"
	"github.com/rustchain/bounty-hunter-bot/internal/scheduler"
	"github.com/rustchain/bounty-hunter-bot/internal/sources"
	"github.com/rustchain/bounty-hunter-bot/internal/storage"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load environment variables from .env file if it exists
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logrus.SetLevel(logrus.InfoLevel)
	if cfg.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
	logrus.SetFormatter(&logrus.JSONFormatter{})

	logrus.Infof("Starting bounty hunter bot for %d repositories", len(cfg.Repositories))

	ctx := context.Background()

	storageClient, err := newStorage(ctx, cfg)
	if err != nil {
		logrus.Fatalf("Failed to initialize storage: %v", err)
	}

	feed := sources.NewGitHubSource(ctx, cfg.GitHubToken)
	if cfg.GitHubBaseURL != "" {
		if feed, err = feed.WithBaseURL(cfg.GitHubBaseURL); err != nil {
			logrus.Fatalf("Invalid GITHUB_API_URL: %v", err)
		}
	}
	if !feed.IsAuthenticated() {
		logrus.Warn("GITHUB_TOKEN not set, using unauthenticated rate limits")
	}

	notificationService := notifications.NewService(cfg)

	monitoringService := monitoring.NewService(cfg, feed, storageClient, notificationService)
	if err := monitoringService.LoadLatestReport(ctx); err != nil {
		logrus.Warnf("Failed to load latest scan report: %v", err)
	}

	schedulerService := scheduler.NewService(cfg, monitoringService)
	if err := schedulerService.Start(); err != nil {
		logrus.Fatalf("Failed to start scheduler: %v", err)
	}
	defer schedulerService.Stop()

	router := mux.NewRouter()
	router.HandleFunc("/health", healthCheckHandler).Methods("GET")
	router.HandleFunc("/metrics", metricsHandler(monitoringService)).Methods("GET")
	router.HandleFunc("/trigger", triggerHandler(monitoringService)).Methods("POST")
	router.HandleFunc("/leads", leadsHandler(monitoringService)).Methods("GET")
	router.HandleFunc("/analyze/{owner}/{repo}/{number:[0-9]+}", analyzeHandler(monitoringService)).Methods("GET")
	router.HandleFunc("/validate/{owner}/{repo}/{number:[0-9]+}", validateHandler(monitoringService)).Methods("GET")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logrus.Infof("HTTP server starting on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("HTTP server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited")
}

// newStorage uses blob storage when an account is configured and the output directory otherwise
func newStorage(ctx context.Context, cfg *config.Config) (storage.StorageInterface, error) {
	if cfg.StorageAccount != "" {
		return storage.NewAzureStorage(ctx, cfg.StorageAccount, cfg.StorageContainer)
	}
	logrus.Infof("AZURE_STORAGE_ACCOUNT not set, writing snapshots to %s", cfg.OutputDir)
	return storage.NewLocalStorage(cfg.OutputDir)
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy","timestamp":"` + time.Now().Format(time.RFC3339) + `"}`))
}

func metricsHandler(monitoringService *monitoring.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		metrics := monitoringService.GetMetrics()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(metrics))
	}
}

func triggerHandler(monitoringService *monitoring.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		go func() {
			if err := monitoringService.TriggerScan(); err != nil {
				logrus.Errorf("Manual scan trigger failed: %v", err)
			}
		}()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		w.Write([]byte(`{"message":"Scan triggered successfully"}`))
	}
}

func leadsHandler(monitoringService *monitoring.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report := monitoringService.LatestReport()
		if report == nil {
			writeError(w, http.StatusNotFound, fmt.Errorf("no scan has completed yet"))
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}

func analyzeHandler(monitoringService *monitoring.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		repository, number := routeTarget(r)

		lead, analysis, err := monitoringService.AnalyzeIssue(r.Context(), repository, number)
		if err != nil {
			logrus.Errorf("Failed to analyze %s #%d: %v", repository, number, err)
			writeError(w, http.StatusBadGateway, err)
			return
		}

		writeJSON(w, http.StatusOK, struct {
			Lead     *models.Lead     `json:"lead"`
			Analysis *models.Analysis `json:"analysis"`
		}{lead, analysis})
	}
}

func validateHandler(monitoringService *monitoring.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		repository, number := routeTarget(r)

		submission, err := monitoringService.ValidateSubmission(r.Context(), repository, number)
		if err != nil {
			logrus.Errorf("Failed to validate %s #%d: %v", repository, number, err)
			writeError(w, http.StatusBadGateway, err)
			return
		}

		commits, err := monitoringService.ValidateCommitHistory(r.Context(), repository, number)
		if err != nil {
			logrus.Errorf("Failed to read commits of %s #%d: %v", repository, number, err)
			writeError(w, http.StatusBadGateway, err)
			return
		}

		writeJSON(w, http.StatusOK, struct {
			Submission *models.QualityReport `json:"submission"`
			Commits    *models.QualityReport `json:"commits"`
		}{submission, commits})
	}
}

func routeTarget(r *http.Request) (string, int) {
	vars := mux.Vars(r)
	number, _ := strconv.Atoi(vars["number"]) // route pattern guarantees digits
	return vars["owner"] + "/" + vars["repo"], number
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.Errorf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
