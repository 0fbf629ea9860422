package storage

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Ananth-NQI/autoresponder/internal/models"
)

// MemoryStore holds all data in memory
type MemoryStore struct {
	submissions map[string]*models.DataSubmission
	chatLogs    []*models.ChatLog

	// Mutexes for thread safety
	submissionMu sync.RWMutex
	chatMu       sync.RWMutex

	chatCounter uint
}

// NewMemoryStore creates a new in-memory storage
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		submissions: make(map[string]*models.DataSubmission),
	}
}

// Data submission operations
func (m *MemoryStore) CreateSubmission(sub *models.DataSubmission) (*models.DataSubmission, error) {
	m.submissionMu.Lock()
	defer m.submissionMu.Unlock()

	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = time.Now()
	}

	stored := *sub
	m.submissions[sub.ID] = &stored
	return sub, nil
}

func (m *MemoryStore) GetSubmission(id string) (*models.DataSubmission, error) {
	m.submissionMu.RLock()
	defer m.submissionMu.RUnlock()

	sub, exists := m.submissions[id]
	if !exists {
		return nil, ErrNotFound
	}
	found := *sub
	return &found, nil
}

// Chat log operations
func (m *MemoryStore) CreateChatLog(entry *models.ChatLog) error {
	m.chatMu.Lock()
	defer m.chatMu.Unlock()

	m.chatCounter++
	entry.ID = m.chatCounter
	now := time.Now()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	entry.UpdatedAt = now

	stored := *entry
	m.chatLogs = append(m.chatLogs, &stored)
	return nil
}

// GetRecentChatLogs returns the newest entries first
func (m *MemoryStore) GetRecentChatLogs(limit int) ([]*models.ChatLog, error) {
	m.chatMu.RLock()
	defer m.chatMu.RUnlock()

	result := make([]*models.ChatLog, 0, limit)
	for i := len(m.chatLogs) - 1; i >= 0 && len(result) < limit; i-- {
		entry := *m.chatLogs[i]
		result = append(result, &entry)
	}
	return result, nil
}

func (m *MemoryStore) DeleteChatLogsBefore(cutoff time.Time) (int64, error) {
	m.chatMu.Lock()
	defer m.chatMu.Unlock()

	kept := m.chatLogs[:0]
	var deleted int64
	for _, entry := range m.chatLogs {
		if entry.CreatedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, entry)
	}
	m.chatLogs = kept
	return deleted, nil
}
