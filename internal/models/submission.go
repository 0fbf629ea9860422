package models

import "time"

// DataSubmission is a JSON payload accepted by POST /api/data
type DataSubmission struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Payload   string    `json:"payload" gorm:"type:text"` // raw JSON object
	UserAgent string    `json:"user_agent"`
	CreatedAt time.Time `json:"created_at"`
}
