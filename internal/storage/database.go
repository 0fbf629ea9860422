package storage

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/Ananth-NQI/autoresponder/internal/models"
)

// DatabaseStore persists data through gorm
type DatabaseStore struct {
	db *gorm.DB
}

// NewDatabaseStore creates a new gorm-backed store
func NewDatabaseStore(db *gorm.DB) *DatabaseStore {
	return &DatabaseStore{db: db}
}

// AutoMigrate creates or updates the tables used by the store
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.DataSubmission{},
		&models.ChatLog{},
	)
}

func (d *DatabaseStore) CreateSubmission(sub *models.DataSubmission) (*models.DataSubmission, error) {
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	if err := d.db.Create(sub).Error; err != nil {
		return nil, errors.Wrap(err, "failed to create submission")
	}
	return sub, nil
}

func (d *DatabaseStore) GetSubmission(id string) (*models.DataSubmission, error) {
	var sub models.DataSubmission
	if err := d.db.Where("id = ?", id).First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to get submission")
	}
	return &sub, nil
}

func (d *DatabaseStore) CreateChatLog(entry *models.ChatLog) error {
	return errors.Wrap(d.db.Create(entry).Error, "failed to create chat log")
}

func (d *DatabaseStore) GetRecentChatLogs(limit int) ([]*models.ChatLog, error) {
	var entries []*models.ChatLog
	err := d.db.Order("created_at DESC").Order("id DESC").Limit(limit).Find(&entries).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list chat logs")
	}
	return entries, nil
}

// DeleteChatLogsBefore hard-deletes entries older than cutoff
func (d *DatabaseStore) DeleteChatLogsBefore(cutoff time.Time) (int64, error) {
	result := d.db.Unscoped().Where("created_at < ?", cutoff).Delete(&models.ChatLog{})
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "failed to delete chat logs")
	}
	return result.RowsAffected, nil
}
