package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ananth-NQI/autoresponder/internal/models"
)

func TestMemoryStoreSubmissions(t *testing.T) {
	store := NewMemoryStore()

	sub, err := store.CreateSubmission(&models.DataSubmission{Payload: `{"name":"test"}`})
	require.NoError(t, err)
	require.NotEmpty(t, sub.ID)
	assert.False(t, sub.CreatedAt.IsZero())

	found, err := store.GetSubmission(sub.ID)
	require.NoError(t, err)
	assert.Equal(t, `{"name":"test"}`, found.Payload)

	_, err = store.GetSubmission("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreChatLogsNewestFirst(t *testing.T) {
	store := NewMemoryStore()

	for _, msg := range []string{"one", "two", "three"} {
		require.NoError(t, store.CreateChatLog(&models.ChatLog{Channel: models.ChannelTest, Incoming: msg}))
	}

	entries, err := store.GetRecentChatLogs(2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "three", entries[0].Incoming)
	assert.Equal(t, "two", entries[1].Incoming)
	assert.Equal(t, uint(3), entries[0].ID)
}

func TestMemoryStoreDeleteChatLogsBefore(t *testing.T) {
	store := NewMemoryStore()
	old := time.Now().Add(-48 * time.Hour)

	old1 := &models.ChatLog{Incoming: "old"}
	old1.CreatedAt = old
	require.NoError(t, store.CreateChatLog(old1))
	require.NoError(t, store.CreateChatLog(&models.ChatLog{Incoming: "new"}))

	deleted, err := store.DeleteChatLogsBefore(time.Now().Add(-24 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	entries, err := store.GetRecentChatLogs(10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "new", entries[0].Incoming)
}
