package models

import "gorm.io/gorm"

// Channels a chat message can arrive on
const (
	ChannelWhatsmeow = "whatsmeow"
	ChannelTwilio    = "twilio"
	ChannelTest      = "test"
)

// ChatLog records one answered chat message
type ChatLog struct {
	gorm.Model
	Channel  string `json:"channel" gorm:"index"`
	From     string `json:"from" gorm:"index"`
	Incoming string `json:"incoming"`
	Command  string `json:"command"`
	Reply    string `json:"reply"`
}
