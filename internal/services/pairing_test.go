package services

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPairingLifecycle(t *testing.T) {
	p := NewPairingState()
	assert.Empty(t, p.Code())
	assert.False(t, p.Snapshot().Connected)

	p.SetCode("2@abc")
	assert.Equal(t, "2@abc", p.Code())
	assert.True(t, p.Snapshot().HasCode)

	p.SetCode("2@def")
	assert.Equal(t, "2@def", p.Code())

	p.MarkConnected()
	snap := p.Snapshot()
	assert.Empty(t, p.Code())
	assert.True(t, snap.Connected)
	assert.False(t, snap.HasCode)
	require.NotNil(t, snap.ConnectedAt)
	assert.False(t, snap.ConnectedAt.IsZero())

	p.MarkDisconnected()
	assert.False(t, p.Snapshot().Connected)
	assert.Empty(t, p.Code())
}

func TestPairingStatusOmitsUnsetTimes(t *testing.T) {
	p := NewPairingState()
	out, err := json.Marshal(p.Snapshot())
	require.NoError(t, err)
	assert.NotContains(t, string(out), "code_at")
	assert.NotContains(t, string(out), "connected_at")

	p.SetCode("2@abc")
	out, err = json.Marshal(p.Snapshot())
	require.NoError(t, err)
	assert.Contains(t, string(out), `"code_at":`)
	assert.NotContains(t, string(out), "2@abc")
}

func TestPairingAuthFailure(t *testing.T) {
	p := NewPairingState()
	p.SetCode("2@abc")
	p.MarkAuthFailure("logged out")

	snap := p.Snapshot()
	assert.Equal(t, "logged out", snap.AuthFailure)
	assert.Empty(t, snap.Code)

	p.MarkConnected()
	assert.Empty(t, p.Snapshot().AuthFailure)
}

func TestPairingConcurrentAccess(t *testing.T) {
	p := NewPairingState()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			p.SetCode("code")
		}()
		go func() {
			defer wg.Done()
			_ = p.Snapshot()
		}()
	}
	wg.Wait()
	assert.Equal(t, "code", p.Code())
}
