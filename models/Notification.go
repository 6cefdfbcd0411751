package models

import "gorm.io/gorm"

// Notification is the event row raised when a message or offer transition
// lands. Actual delivery (push/email/SMS) is handled by a separate worker.
type Notification struct {
	gorm.Model
	UserID uint   `json:"userID" gorm:"not null;index"`
	Type   string `json:"type" gorm:"size:32;index"` // message_received, offer_accepted, offer_rejected, offer_countered
	Title  string `json:"title"`
	Body   string `json:"body" gorm:"type:text"`
	Data   string `json:"data" gorm:"type:text"` // JSON payload for deep linking
	IsRead bool   `json:"isRead" gorm:"default:false;index"`
	IsSent bool   `json:"isSent" gorm:"default:false"`
}
