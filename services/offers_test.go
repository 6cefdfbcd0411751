package services

import (
	"errors"
	"testing"

	"github.com/Mohamedabdulaziz1920/real-estate-sub000/models"
)

func sendOffer(t *testing.T, conversationID, senderID, receiverID uint, amount int64) *models.Message {
	t.Helper()
	return mustSend(t, SendMessageInput{
		ConversationID: conversationID,
		SenderID:       senderID,
		ReceiverID:     receiverID,
		Content:        "عرض سعر",
		Type:           models.MessageOffer,
		OfferAmount:    &amount,
	})
}

func TestRespondToOfferAccept(t *testing.T) {
	db := setupTestDB(t)
	buyer, seller, property := seedUsers(t, db)
	conversation := seedConversation(t, db, buyer, seller, &property.ID)

	offer := sendOffer(t, conversation.ID, buyer.ID, seller.ID, 2000000)

	response, err := RespondToOffer(offer.ID, seller.ID, OfferActionAccept, 0, "")
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if response.Original.Offer.Status != models.OfferAccepted {
		t.Fatalf("status = %q, want accepted", response.Original.Offer.Status)
	}
	if response.Counter != nil {
		t.Fatal("accept must not create a counter message")
	}

	var stored models.Message
	db.First(&stored, offer.ID)
	if stored.Offer == nil || stored.Offer.Status != models.OfferAccepted {
		t.Fatal("accepted status not persisted")
	}
}

// Scenario: the buyer posts 2,000,000, the seller rejects, and a later accept
// on the same offer must fail.
func TestRespondToOfferRejectThenAccept(t *testing.T) {
	db := setupTestDB(t)
	buyer, seller, _ := seedUsers(t, db)
	conversation := seedConversation(t, db, buyer, seller, nil)

	offer := sendOffer(t, conversation.ID, buyer.ID, seller.ID, 2000000)

	if _, err := RespondToOffer(offer.ID, seller.ID, OfferActionReject, 0, ""); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if _, err := RespondToOffer(offer.ID, seller.ID, OfferActionAccept, 0, ""); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("accept after reject: expected ErrIllegalTransition, got %v", err)
	}
}

func TestRespondToOfferCounter(t *testing.T) {
	db := setupTestDB(t)
	buyer, seller, property := seedUsers(t, db)
	conversation := seedConversation(t, db, buyer, seller, &property.ID)

	offer := sendOffer(t, conversation.ID, buyer.ID, seller.ID, 2000000)

	response, err := RespondToOffer(offer.ID, seller.ID, OfferActionCounter, 2300000, "أقل سعر ممكن")
	if err != nil {
		t.Fatalf("counter: %v", err)
	}

	if response.Original.Offer.Status != models.OfferCountered {
		t.Fatalf("original status = %q, want countered", response.Original.Offer.Status)
	}
	counter := response.Counter
	if counter == nil {
		t.Fatal("counter message missing")
	}
	if counter.SenderID != seller.ID || counter.ReceiverID != buyer.ID {
		t.Fatal("counter must flow from the responder back to the original sender")
	}
	if counter.Offer == nil || counter.Offer.Status != models.OfferPending || counter.Offer.Amount != 2300000 {
		t.Fatal("counter offer must be a fresh pending offer with the new amount")
	}
	if counter.RespondsToID == nil || *counter.RespondsToID != offer.ID {
		t.Fatal("counter must reference the original offer message")
	}

	// The counter message lands at the tail of the log and counts as unread
	// for the original sender.
	messages, _ := ListMessages(conversation.ID, false)
	if messages[len(messages)-1].ID != counter.ID {
		t.Fatal("counter message must be the newest log entry")
	}
	count, _ := CountUnread(conversation.ID, buyer.ID)
	if count != 1 {
		t.Fatalf("buyer unread = %d, want 1", count)
	}

	// The countered original is closed for good.
	if _, err := RespondToOffer(offer.ID, seller.ID, OfferActionAccept, 0, ""); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("accept after counter: expected ErrIllegalTransition, got %v", err)
	}

	// The new offer is negotiable in its own right, by the other party.
	if _, err := RespondToOffer(counter.ID, buyer.ID, OfferActionAccept, 0, ""); err != nil {
		t.Fatalf("accept counter offer: %v", err)
	}
}

func TestRespondToOfferAuthorization(t *testing.T) {
	db := setupTestDB(t)
	buyer, seller, _ := seedUsers(t, db)
	conversation := seedConversation(t, db, buyer, seller, nil)

	offer := sendOffer(t, conversation.ID, buyer.ID, seller.ID, 900000)

	// The offer's sender cannot respond to their own offer.
	if _, err := RespondToOffer(offer.ID, buyer.ID, OfferActionAccept, 0, ""); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("self-accept: expected ErrNotAuthorized, got %v", err)
	}

	// A text message is not an offer.
	text := mustSend(t, textInput(conversation.ID, buyer.ID, seller.ID, "مرحبا"))
	if _, err := RespondToOffer(text.ID, seller.ID, OfferActionAccept, 0, ""); !errors.Is(err, ErrInvalidMessage) {
		t.Fatalf("respond to text: expected ErrInvalidMessage, got %v", err)
	}

	if _, err := RespondToOffer(99999, seller.ID, OfferActionAccept, 0, ""); !errors.Is(err, ErrMessageNotFound) {
		t.Fatalf("missing message: expected ErrMessageNotFound, got %v", err)
	}
}

func TestCounterBlockedConversation(t *testing.T) {
	db := setupTestDB(t)
	buyer, seller, _ := seedUsers(t, db)
	conversation := seedConversation(t, db, buyer, seller, nil)

	offer := sendOffer(t, conversation.ID, buyer.ID, seller.ID, 750000)

	if _, err := SetConversationFlag(conversation.ID, seller.ID, FlagBlocked, true); err != nil {
		t.Fatalf("block: %v", err)
	}

	// Countering is a new send, so the block applies; the original offer must
	// stay pending.
	if _, err := RespondToOffer(offer.ID, seller.ID, OfferActionCounter, 700000, "عرض مضاد"); !errors.Is(err, ErrConversationBlocked) {
		t.Fatalf("expected ErrConversationBlocked, got %v", err)
	}

	var stored models.Message
	db.First(&stored, offer.ID)
	if stored.Offer == nil || stored.Offer.Status != models.OfferPending {
		t.Fatal("blocked counter must leave the original offer pending")
	}

	// Accept and reject are state transitions, not sends; they still work.
	if _, err := RespondToOffer(offer.ID, seller.ID, OfferActionReject, 0, ""); err != nil {
		t.Fatalf("reject on blocked conversation: %v", err)
	}
}
