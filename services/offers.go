package services

import (
	"errors"

	"github.com/Mohamedabdulaziz1920/real-estate-sub000/models"
	"github.com/Mohamedabdulaziz1920/real-estate-sub000/storage"

	"gorm.io/gorm"
)

// Offer response actions.
const (
	OfferActionAccept  = "accept"
	OfferActionReject  = "reject"
	OfferActionCounter = "counter"
)

// OfferResponse is the outcome of responding to an offer message: the updated
// original, plus the new counter message when the action was a counter.
type OfferResponse struct {
	Original *models.Message
	Counter  *models.Message
}

// RespondToOffer applies accept/reject/counter to a stored offer message.
// Only the receiver of the offer may respond. A counter closes the original
// as countered and appends a new pending offer message back to the sender,
// atomically.
func RespondToOffer(messageID, responderID uint, action string, counterAmount int64, counterContent string) (*OfferResponse, error) {
	var original models.Message
	if err := storage.DB.First(&original, messageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}
	if original.Type != models.MessageOffer || original.Offer == nil {
		return nil, ErrInvalidMessage
	}
	if original.ReceiverID != responderID {
		return nil, ErrNotAuthorized
	}

	conversation, err := GetConversation(original.ConversationID, responderID)
	if err != nil {
		return nil, err
	}

	switch action {
	case OfferActionAccept:
		if err := AcceptOffer(original.Offer); err != nil {
			return nil, err
		}
		if err := storage.DB.Model(&original).
			Update("offer_status", original.Offer.Status).Error; err != nil {
			return nil, err
		}
		return &OfferResponse{Original: &original}, nil

	case OfferActionReject:
		if err := RejectOffer(original.Offer); err != nil {
			return nil, err
		}
		if err := storage.DB.Model(&original).
			Update("offer_status", original.Offer.Status).Error; err != nil {
			return nil, err
		}
		return &OfferResponse{Original: &original}, nil

	case OfferActionCounter:
		// A counter is a new send, so the block flag applies here.
		if conversation.IsBlocked {
			return nil, ErrConversationBlocked
		}

		counterOffer, err := CounterOffer(original.Offer, counterAmount)
		if err != nil {
			return nil, err
		}

		counter, err := buildMessage(conversation, SendMessageInput{
			ConversationID: conversation.ID,
			SenderID:       responderID,
			ReceiverID:     original.SenderID,
			Content:        counterContent,
			Type:           models.MessageOffer,
			OfferAmount:    &counterOffer.Amount,
			RespondsToID:   &original.ID,
		})
		if err != nil {
			return nil, err
		}

		txErr := storage.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&original).
				Update("offer_status", original.Offer.Status).Error; err != nil {
				return err
			}
			if err := tx.Create(counter).Error; err != nil {
				return err
			}
			return recordIncomingMessage(tx, conversation, counter)
		})
		if txErr != nil {
			return nil, txErr
		}

		storage.DB.Preload("Sender").First(counter, counter.ID)
		return &OfferResponse{Original: &original, Counter: counter}, nil
	}

	return nil, ErrInvalidMessage
}
