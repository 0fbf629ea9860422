package storage

import (
	"time"

	"github.com/pkg/errors"

	"github.com/Ananth-NQI/autoresponder/internal/models"
)

// ErrNotFound is returned when a record does not exist
var ErrNotFound = errors.New("record not found")

// Store defines the interface for storage operations
type Store interface {
	// Data submission operations
	CreateSubmission(sub *models.DataSubmission) (*models.DataSubmission, error)
	GetSubmission(id string) (*models.DataSubmission, error)

	// Chat log operations
	CreateChatLog(entry *models.ChatLog) error
	GetRecentChatLogs(limit int) ([]*models.ChatLog, error)
	DeleteChatLogsBefore(cutoff time.Time) (int64, error)
}
