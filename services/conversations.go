package services

import (
	"errors"

	"github.com/Mohamedabdulaziz1920/real-estate-sub000/models"
	"github.com/Mohamedabdulaziz1920/real-estate-sub000/storage"

	"gorm.io/gorm"
)

// Flag names accepted by SetConversationFlag.
const (
	FlagPinned   = "isPinned"
	FlagArchived = "isArchived"
	FlagMuted    = "isMuted"
	FlagBlocked  = "isBlocked"
)

// FindOrCreateConversation resolves the conversation for an unordered user
// pair plus optional property, creating it with default flags when missing.
func FindOrCreateConversation(userA, userB uint, propertyID *uint) (*models.Conversation, error) {
	if userA == 0 || userB == 0 || userA == userB {
		return nil, ErrInvalidMessage
	}

	query := storage.DB.
		Where("(buyer_id = ? AND seller_id = ?) OR (buyer_id = ? AND seller_id = ?)",
			userA, userB, userB, userA)
	if propertyID != nil {
		query = query.Where("property_id = ?", *propertyID)
	} else {
		query = query.Where("property_id IS NULL")
	}

	var conversation models.Conversation
	err := query.First(&conversation).Error
	if err == nil {
		return &conversation, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	conversation = models.Conversation{
		BuyerID:    userA,
		SellerID:   userB,
		PropertyID: propertyID,
	}
	if createErr := storage.DB.Create(&conversation).Error; createErr != nil {
		return nil, createErr
	}
	return &conversation, nil
}

// GetConversation loads one conversation with its display associations and
// enforces membership.
func GetConversation(conversationID, userID uint) (*models.Conversation, error) {
	var conversation models.Conversation
	err := storage.DB.
		Preload("Buyer").
		Preload("Seller").
		Preload("Property").
		Preload("LastMessage").
		First(&conversation, conversationID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrConversationNotFound
	}
	if err != nil {
		return nil, err
	}
	if !conversation.HasParticipant(userID) {
		return nil, ErrNotAuthorized
	}
	return &conversation, nil
}

// recordIncomingMessage runs inside the append transaction: bumps the
// denormalized last-message pointer and the receiver's unread counter.
// The sender's counter is never touched.
func recordIncomingMessage(tx *gorm.DB, conversation *models.Conversation, message *models.Message) error {
	updates := map[string]interface{}{
		"last_message_id": message.ID,
		"updated_at":      message.CreatedAt,
	}
	switch message.ReceiverID {
	case conversation.BuyerID:
		updates["buyer_unread"] = gorm.Expr("buyer_unread + 1")
	case conversation.SellerID:
		updates["seller_unread"] = gorm.Expr("seller_unread + 1")
	}
	return tx.Model(&models.Conversation{}).
		Where("id = ?", conversation.ID).
		Updates(updates).Error
}

// SetConversationFlag toggles one of the pin/archive/mute/block flags.
// Last write wins across a user's open sessions.
func SetConversationFlag(conversationID, userID uint, flag string, value bool) (*models.Conversation, error) {
	conversation, err := GetConversation(conversationID, userID)
	if err != nil {
		return nil, err
	}

	var column string
	switch flag {
	case FlagPinned:
		column = "is_pinned"
	case FlagArchived:
		column = "is_archived"
	case FlagMuted:
		column = "is_muted"
	case FlagBlocked:
		column = "is_blocked"
	default:
		return nil, ErrInvalidMessage
	}

	if err := storage.DB.Model(conversation).Update(column, value).Error; err != nil {
		return nil, err
	}
	return conversation, nil
}
