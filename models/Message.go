package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Message types
const (
	MessageText       = "text"
	MessageOffer      = "offer"
	MessageAttachment = "attachment"
)

type Message struct {
	gorm.Model
	ConversationID uint   `json:"conversationID" gorm:"not null;index"`
	SenderID       uint   `json:"senderID" gorm:"not null;index"`
	ReceiverID     uint   `json:"receiverID" gorm:"not null;index"`
	Sender         User   `json:"sender" gorm:"foreignKey:SenderID"`
	Content        string `json:"content" gorm:"type:text"`
	Type           string `json:"messageType" gorm:"size:16;index"` // text | offer | attachment

	// Present iff Type == offer
	Offer *Offer `json:"offer,omitempty" gorm:"embedded;embeddedPrefix:offer_"`
	// Non-empty iff Type == attachment; JSON array of {url, name, mimeType}
	Attachments datatypes.JSON `json:"attachments,omitempty"`
	// Set on counter-offers, points at the offer message being answered
	RespondsToID *uint `json:"respondsToID,omitempty" gorm:"index"`

	// Client-generated dedupe key so pollers can reconcile an aborted send
	ClientKey string `json:"clientKey,omitempty" gorm:"size:40;index"`

	// Delivery state: isRead implies isDelivered, never the reverse
	IsDelivered bool `json:"isDelivered"`
	IsRead      bool `json:"isRead"`
}

// AfterFind clears the embedded offer columns on non-offer rows so text and
// attachment messages never carry a zero-valued offer payload.
func (m *Message) AfterFind(tx *gorm.DB) error {
	if m.Type != MessageOffer {
		m.Offer = nil
	}
	return nil
}

// Attachment is one entry in a message's Attachments payload.
type Attachment struct {
	URL      string `json:"url"`
	Name     string `json:"name"`
	MimeType string `json:"mimeType"`
}
