package services

import (
	"github.com/Mohamedabdulaziz1920/real-estate-sub000/models"
	"github.com/Mohamedabdulaziz1920/real-estate-sub000/storage"

	"gorm.io/gorm"
)

// CountUnread derives the viewer's unread count for one conversation straight
// from the log: inbound, not yet read, not soft-deleted. The stored
// per-viewer column must always agree with this number.
func CountUnread(conversationID, userID uint) (int64, error) {
	var count int64
	err := storage.DB.Model(&models.Message{}).
		Where("conversation_id = ? AND receiver_id = ? AND is_read = ?",
			conversationID, userID, false).
		Count(&count).Error
	return count, err
}

// AggregateUnread sums the viewer's unread messages across all their
// conversations, for the badge next to the conversations tab.
func AggregateUnread(userID uint) (int64, error) {
	var count int64
	err := storage.DB.Model(&models.Message{}).
		Where("receiver_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// ResetUnreadOnOpen marks every unread inbound message in the conversation
// read (and delivered) and zeroes the viewer's stored counter. Opening the
// conversation is the only path that decreases unread counts.
func ResetUnreadOnOpen(conversationID, userID uint) error {
	conversation, err := GetConversation(conversationID, userID)
	if err != nil {
		return err
	}

	return storage.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Message{}).
			Where("conversation_id = ? AND receiver_id = ? AND is_read = ?",
				conversationID, userID, false).
			Updates(map[string]interface{}{"is_read": true, "is_delivered": true}).Error; err != nil {
			return err
		}

		column := "buyer_unread"
		if userID == conversation.SellerID {
			column = "seller_unread"
		}
		return tx.Model(&models.Conversation{}).
			Where("id = ?", conversationID).
			UpdateColumn(column, 0).Error
	})
}

// syncUnreadCounter re-derives the stored counter for one viewer from the
// live log, inside the caller's transaction. Runs on every mark-read; if a
// delete path is ever added it must call this too, or a removed unread
// message would leave the stored column stale until the next mark-read.
func syncUnreadCounter(tx *gorm.DB, conversationID, userID uint) error {
	var conversation models.Conversation
	if err := tx.First(&conversation, conversationID).Error; err != nil {
		return err
	}
	if !conversation.HasParticipant(userID) {
		return nil
	}

	var count int64
	if err := tx.Model(&models.Message{}).
		Where("conversation_id = ? AND receiver_id = ? AND is_read = ?",
			conversationID, userID, false).
		Count(&count).Error; err != nil {
		return err
	}

	column := "buyer_unread"
	if userID == conversation.SellerID {
		column = "seller_unread"
	}
	return tx.Model(&models.Conversation{}).
		Where("id = ?", conversationID).
		UpdateColumn(column, count).Error
}
