package services

import (
	"github.com/Mohamedabdulaziz1920/real-estate-sub000/models"
)

// Offer negotiation state machine. An offer starts pending and moves exactly
// once into accepted, rejected or countered. Countering never mutates the
// original amount; it returns a fresh pending offer that the other party
// wraps in a new message.

func NewOffer(amount int64) (*models.Offer, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	return &models.Offer{Amount: amount, Status: models.OfferPending}, nil
}

func AcceptOffer(offer *models.Offer) error {
	if offer == nil || !offer.IsPending() {
		return ErrIllegalTransition
	}
	offer.Status = models.OfferAccepted
	return nil
}

func RejectOffer(offer *models.Offer) error {
	if offer == nil || !offer.IsPending() {
		return ErrIllegalTransition
	}
	offer.Status = models.OfferRejected
	return nil
}

// CounterOffer closes the original offer as countered and returns the new
// pending offer for the counter message.
func CounterOffer(offer *models.Offer, newAmount int64) (*models.Offer, error) {
	if offer == nil || !offer.IsPending() {
		return nil, ErrIllegalTransition
	}
	counter, err := NewOffer(newAmount)
	if err != nil {
		return nil, err
	}
	offer.Status = models.OfferCountered
	return counter, nil
}
