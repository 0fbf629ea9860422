package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ananth-NQI/autoresponder/internal/config"
	"github.com/Ananth-NQI/autoresponder/internal/storage"
)

func TestDSNLocal(t *testing.T) {
	cfg := &config.Config{DBHost: "db", DBPort: "5433", DBUser: "bot", DBPass: "pw", DBName: "chat"}
	assert.Equal(t, "host=db user=bot password=pw dbname=chat port=5433 sslmode=disable", DSN(cfg))
}

func TestDSNCloudSQL(t *testing.T) {
	cfg := &config.Config{InstanceConnectionName: "proj:region:inst", DBUser: "bot", DBPass: "pw", DBName: "chat"}
	assert.Equal(t, "host=/cloudsql/proj:region:inst user=bot password=pw dbname=chat sslmode=disable", DSN(cfg))
}

func TestNewStoreMemory(t *testing.T) {
	store, err := NewStore(&config.Config{UseMemoryStore: true})
	require.NoError(t, err)
	assert.IsType(t, &storage.MemoryStore{}, store)
}
