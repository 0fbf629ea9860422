package services

import (
	"sync"
	"time"
)

// PairingStatus is a point-in-time view of the WhatsApp pairing state
type PairingStatus struct {
	Code        string     `json:"-"`
	HasCode     bool       `json:"has_code"`
	CodeAt      *time.Time `json:"code_at,omitempty"`
	Connected   bool       `json:"connected"`
	ConnectedAt *time.Time `json:"connected_at,omitempty"`
	AuthFailure string     `json:"auth_failure,omitempty"`
}

// PairingState holds the latest QR pairing code until the client connects
type PairingState struct {
	mu     sync.RWMutex
	status PairingStatus
}

// NewPairingState creates an empty pairing state
func NewPairingState() *PairingState {
	return &PairingState{}
}

// SetCode stores a fresh pairing code
func (p *PairingState) SetCode(code string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.status.Code = code
	p.status.HasCode = code != ""
	now := time.Now()
	p.status.CodeAt = &now
	p.status.Connected = false
}

// Code returns the current pairing code, empty if none
func (p *PairingState) Code() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.status.Code
}

// MarkConnected clears the pairing code and any previous failure
func (p *PairingState) MarkConnected() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.status.Code = ""
	p.status.HasCode = false
	p.status.Connected = true
	now := time.Now()
	p.status.ConnectedAt = &now
	p.status.AuthFailure = ""
}

// MarkDisconnected records a lost connection. The code stays cleared.
func (p *PairingState) MarkDisconnected() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.status.Connected = false
}

// MarkAuthFailure records why authentication failed
func (p *PairingState) MarkAuthFailure(reason string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.status.Connected = false
	p.status.Code = ""
	p.status.HasCode = false
	p.status.AuthFailure = reason
}

// Snapshot returns a copy of the current state
func (p *PairingState) Snapshot() PairingStatus {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.status
}
