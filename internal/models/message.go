package models

import "time"

// MaxMessageLength bounds Message.Text.
const MaxMessageLength = 140

type Message struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	// SQLite ignores varchar sizes, so the length bound is also a CHECK.
	Text      string    `json:"text" gorm:"size:140;not null;check:chk_messages_text_bounds,text <> '' AND length(text) <= 140"`
	Timestamp time.Time `json:"timestamp" gorm:"not null;autoCreateTime;index"`
	UserID    uint      `json:"userId" gorm:"not null;index"`
	User      *User     `json:"user,omitempty" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}
