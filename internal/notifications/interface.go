package notifications

import "github.com/rustchain/bounty-hunter-bot/internal/models"

// NotificationInterface defines the contract for notification services
type NotificationInterface interface {
	SendReport(report *models.ScanReport) error
	SendAlert(alert *models.Alert) error
}
