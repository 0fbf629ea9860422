package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ananth-NQI/autoresponder/internal/models"
	"github.com/Ananth-NQI/autoresponder/internal/storage"
)

func TestProcessMessageRecordsChatLog(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewConversationService(newTestResponder(t), store)

	reply := svc.ProcessMessage(models.ChannelTest, "+911234567890", "Hello")
	assert.Equal(t, CommandGreeting, reply.Command)

	entries, err := store.GetRecentChatLogs(10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.ChannelTest, entries[0].Channel)
	assert.Equal(t, "+911234567890", entries[0].From)
	assert.Equal(t, "Hello", entries[0].Incoming)
	assert.Equal(t, CommandGreeting, entries[0].Command)
	assert.Equal(t, GreetingMessage, entries[0].Reply)
}

func TestProcessMessageBlankGetsFallback(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewConversationService(newTestResponder(t), store)

	reply := svc.ProcessMessage(models.ChannelTest, "x", "  ")
	assert.Equal(t, CommandFallback, reply.Command)

	entries, err := store.GetRecentChatLogs(10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, FallbackMessage, entries[0].Reply)
}

func TestProcessMessageWithoutStore(t *testing.T) {
	svc := NewConversationService(newTestResponder(t), nil)
	reply := svc.ProcessMessage(models.ChannelTest, "x", "!help")
	assert.Equal(t, CommandHelp, reply.Command)
}
