package models

import (
	"gorm.io/gorm"
)

// Conversation is a two-party thread between a buyer and a seller, optionally
// anchored to one property. The participant pair is unordered for lookup:
// (A,B) and (B,A) resolve to the same row.
type Conversation struct {
	gorm.Model
	BuyerID  uint `json:"buyerID" gorm:"not null;index:idx_conversation_pair"`
	SellerID uint `json:"sellerID" gorm:"not null;index:idx_conversation_pair"`
	Buyer    User `json:"buyer" gorm:"foreignKey:BuyerID"`
	Seller   User `json:"seller" gorm:"foreignKey:SellerID"`

	PropertyID *uint     `json:"propertyID" gorm:"index"`
	Property   *Property `json:"property,omitempty"`

	LastMessageID *uint    `json:"lastMessageID"`
	LastMessage   *Message `json:"lastMessage,omitempty" gorm:"foreignKey:LastMessageID"`

	// Per-viewer unread, kept in the same transaction that appends a message
	BuyerUnread  int `json:"-" gorm:"not null;default:0"`
	SellerUnread int `json:"-" gorm:"not null;default:0"`

	// Independent flags; blocked additionally suppresses new sends
	IsPinned   bool `json:"isPinned"`
	IsArchived bool `json:"isArchived"`
	IsMuted    bool `json:"isMuted"`
	IsBlocked  bool `json:"isBlocked"`
}

func (c *Conversation) HasParticipant(userID uint) bool {
	return userID != 0 && (c.BuyerID == userID || c.SellerID == userID)
}

// OtherParticipant returns the peer of userID, 0 if userID is not a member.
func (c *Conversation) OtherParticipant(userID uint) uint {
	switch userID {
	case c.BuyerID:
		return c.SellerID
	case c.SellerID:
		return c.BuyerID
	}
	return 0
}

// UnreadFor reads the stored per-viewer counter.
func (c *Conversation) UnreadFor(userID uint) int {
	switch userID {
	case c.BuyerID:
		return c.BuyerUnread
	case c.SellerID:
		return c.SellerUnread
	}
	return 0
}
