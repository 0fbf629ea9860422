package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "USE_MEMORY_STORE", "BOT_TIMEZONE", "CHAT_LOG_RETENTION", "TWILIO_ACCOUNT_SID"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "3000", cfg.Port)
	assert.True(t, cfg.UseMemoryStore)
	assert.Equal(t, "Asia/Kolkata", cfg.BotTimezone)
	assert.Equal(t, 720*time.Hour, cfg.ChatLogRetention)
	assert.False(t, cfg.HasTwilioConfig())
	assert.Equal(t, "In-Memory", cfg.StorageType())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("USE_MEMORY_STORE", "false")
	t.Setenv("BOT_REPLY_IN_GROUPS", "true")
	t.Setenv("CHAT_LOG_RETENTION", "2h")
	t.Setenv("TWILIO_ACCOUNT_SID", "AC123")
	t.Setenv("TWILIO_AUTH_TOKEN", "secret")
	t.Setenv("TWILIO_WHATSAPP_FROM", "whatsapp:+14155238886")

	cfg := Load()
	assert.Equal(t, "9090", cfg.Port)
	assert.False(t, cfg.UseMemoryStore)
	assert.True(t, cfg.ReplyInGroups)
	assert.Equal(t, 2*time.Hour, cfg.ChatLogRetention)
	assert.True(t, cfg.HasTwilioConfig())
	assert.Equal(t, "PostgreSQL Database", cfg.StorageType())
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("USE_MEMORY_STORE", "maybe")
	t.Setenv("CHAT_LOG_RETENTION", "soon")

	cfg := Load()
	assert.True(t, cfg.UseMemoryStore)
	assert.Equal(t, 720*time.Hour, cfg.ChatLogRetention)
}
