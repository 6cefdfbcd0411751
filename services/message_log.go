package services

import (
	"encoding/json"

	"github.com/Mohamedabdulaziz1920/real-estate-sub000/models"
	"github.com/Mohamedabdulaziz1920/real-estate-sub000/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SendMessageInput is the validated payload for appending one message.
type SendMessageInput struct {
	ConversationID uint
	SenderID       uint
	ReceiverID     uint
	Content        string
	Type           string
	OfferAmount    *int64
	Attachments    []models.Attachment
	RespondsToID   *uint
	ClientKey      string
}

// SendMessage appends a message to the conversation log and updates the
// conversation's denormalized state in the same transaction. Validation
// happens up front; nothing is written on failure.
func SendMessage(input SendMessageInput) (*models.Message, error) {
	conversation, err := GetConversation(input.ConversationID, input.SenderID)
	if err != nil {
		return nil, err
	}
	if conversation.IsBlocked {
		return nil, ErrConversationBlocked
	}

	message, err := buildMessage(conversation, input)
	if err != nil {
		return nil, err
	}

	if input.ClientKey == "" {
		// Every persisted message carries a reconcile key so clients can match
		// their optimistic row; mint one when the client did not send any.
		message.ClientKey = uuid.NewString()
	} else {
		// Idempotent resend: an aborted send may already have landed server-side.
		// Scoped to the sender so a participant cannot replay the peer's key.
		var existing models.Message
		if storage.DB.Where("conversation_id = ? AND sender_id = ? AND client_key = ?",
			conversation.ID, input.SenderID, input.ClientKey).First(&existing).Error == nil {
			return &existing, nil
		}
	}

	txErr := storage.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(message).Error; err != nil {
			return err
		}
		return recordIncomingMessage(tx, conversation, message)
	})
	if txErr != nil {
		return nil, txErr
	}

	storage.DB.Preload("Sender").First(message, message.ID)
	return message, nil
}

// buildMessage enforces the message invariants: both parties are conversation
// participants, sender and receiver differ, content is present, and the typed
// payload matches the declared type.
func buildMessage(conversation *models.Conversation, input SendMessageInput) (*models.Message, error) {
	if input.SenderID == input.ReceiverID {
		return nil, ErrInvalidMessage
	}
	if !conversation.HasParticipant(input.SenderID) || !conversation.HasParticipant(input.ReceiverID) {
		return nil, ErrInvalidMessage
	}
	if input.Content == "" {
		return nil, ErrInvalidMessage
	}

	message := models.Message{
		ConversationID: conversation.ID,
		SenderID:       input.SenderID,
		ReceiverID:     input.ReceiverID,
		Content:        input.Content,
		Type:           input.Type,
		RespondsToID:   input.RespondsToID,
		ClientKey:      input.ClientKey,
		IsDelivered:    true, // persisted server-side means delivered to the log
	}

	switch input.Type {
	case models.MessageText:
		if input.OfferAmount != nil || len(input.Attachments) > 0 {
			return nil, ErrInvalidMessage
		}
	case models.MessageOffer:
		if input.OfferAmount == nil {
			return nil, ErrInvalidMessage
		}
		offer, err := NewOffer(*input.OfferAmount)
		if err != nil {
			return nil, err
		}
		message.Offer = offer
	case models.MessageAttachment:
		if len(input.Attachments) == 0 {
			return nil, ErrInvalidMessage
		}
		for _, attachment := range input.Attachments {
			if attachment.URL == "" || attachment.Name == "" || attachment.MimeType == "" {
				return nil, ErrInvalidMessage
			}
		}
		payload, err := json.Marshal(input.Attachments)
		if err != nil {
			return nil, ErrInvalidMessage
		}
		message.Attachments = payload
	default:
		return nil, ErrInvalidMessage
	}

	return &message, nil
}

// ListMessages returns the conversation log in stable chronological order:
// created_at ascending, insertion order breaking ties. Soft-deleted messages
// are excluded unless includeDeleted is set (audit mode).
func ListMessages(conversationID uint, includeDeleted bool) ([]models.Message, error) {
	query := storage.DB
	if includeDeleted {
		query = query.Unscoped()
	}
	var messages []models.Message
	err := query.
		Where("conversation_id = ?", conversationID).
		Preload("Sender").
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	return messages, err
}

// MarkMessagesRead flips isRead (and isDelivered) for the given ids. Only the
// receiver may mark a message read; one foreign id rejects the whole call.
// Already-read ids are a no-op.
func MarkMessagesRead(messageIDs []uint, readerID uint) error {
	if len(messageIDs) == 0 {
		return nil
	}

	var messages []models.Message
	if err := storage.DB.Where("id IN ?", messageIDs).Find(&messages).Error; err != nil {
		return err
	}
	if len(messages) != len(dedupeIDs(messageIDs)) {
		return ErrMessageNotFound
	}
	for _, message := range messages {
		if message.ReceiverID != readerID {
			return ErrNotAuthorized
		}
	}

	return storage.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Message{}).
			Where("id IN ? AND is_read = ?", messageIDs, false).
			Updates(map[string]interface{}{"is_read": true, "is_delivered": true}).Error; err != nil {
			return err
		}

		// Re-derive the stored per-viewer counters for every touched conversation.
		seen := map[uint]bool{}
		for _, message := range messages {
			if !seen[message.ConversationID] {
				seen[message.ConversationID] = true
				if err := syncUnreadCounter(tx, message.ConversationID, readerID); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func dedupeIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// DateGroup is one calendar-day bucket of a conversation's log.
type DateGroup struct {
	Date     string           `json:"date"` // local calendar date, YYYY-MM-DD
	Messages []models.Message `json:"messages"`
}

// GroupMessagesByDate buckets an already-ordered log by the local calendar
// date of each message. Pure projection; bucket order follows the log.
func GroupMessagesByDate(messages []models.Message) []DateGroup {
	var groups []DateGroup
	for _, message := range messages {
		date := message.CreatedAt.Local().Format("2006-01-02")
		if len(groups) == 0 || groups[len(groups)-1].Date != date {
			groups = append(groups, DateGroup{Date: date})
		}
		groups[len(groups)-1].Messages = append(groups[len(groups)-1].Messages, message)
	}
	return groups
}

// FetchMessages is the poll read path: it enforces membership, returns the
// ordered log, and acknowledges delivery of the viewer's inbound messages.
// Audit mode (includeDeleted) skips the delivery ack.
func FetchMessages(conversationID, viewerID uint, includeDeleted bool) ([]models.Message, error) {
	if _, err := GetConversation(conversationID, viewerID); err != nil {
		return nil, err
	}
	if !includeDeleted {
		touchDelivered(conversationID, viewerID)
	}
	return ListMessages(conversationID, includeDeleted)
}

// touchDelivered marks undelivered inbound messages delivered once the
// receiver's client has fetched them.
func touchDelivered(conversationID, receiverID uint) {
	storage.DB.Model(&models.Message{}).
		Where("conversation_id = ? AND receiver_id = ? AND is_delivered = ?",
			conversationID, receiverID, false).
		Update("is_delivered", true)
}
