package services

import (
	"errors"
	"testing"

	"github.com/Mohamedabdulaziz1920/real-estate-sub000/models"
)

func TestNewOfferRejectsNonPositiveAmounts(t *testing.T) {
	for _, amount := range []int64{0, -1, -2000000} {
		if _, err := NewOffer(amount); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("amount %d: expected ErrInvalidAmount, got %v", amount, err)
		}
	}

	offer, err := NewOffer(2000000)
	if err != nil {
		t.Fatalf("valid amount: %v", err)
	}
	if offer.Status != models.OfferPending {
		t.Fatalf("new offer status = %q, want pending", offer.Status)
	}
	if offer.Amount != 2000000 {
		t.Fatalf("new offer amount = %d, want 2000000", offer.Amount)
	}
}

func TestAcceptOnlyFromPending(t *testing.T) {
	offer, _ := NewOffer(100)
	if err := AcceptOffer(offer); err != nil {
		t.Fatalf("accept pending: %v", err)
	}
	if offer.Status != models.OfferAccepted {
		t.Fatalf("status = %q, want accepted", offer.Status)
	}

	// Terminal states never transition again.
	if err := AcceptOffer(offer); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("accept accepted: expected ErrIllegalTransition, got %v", err)
	}
	if err := RejectOffer(offer); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("reject accepted: expected ErrIllegalTransition, got %v", err)
	}
	if _, err := CounterOffer(offer, 90); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("counter accepted: expected ErrIllegalTransition, got %v", err)
	}
}

func TestRejectThenAcceptFails(t *testing.T) {
	offer, _ := NewOffer(2000000)
	if err := RejectOffer(offer); err != nil {
		t.Fatalf("reject pending: %v", err)
	}
	if offer.Status != models.OfferRejected {
		t.Fatalf("status = %q, want rejected", offer.Status)
	}
	if err := AcceptOffer(offer); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("accept after reject: expected ErrIllegalTransition, got %v", err)
	}
}

func TestCounterClosesOriginalAndOpensNewOffer(t *testing.T) {
	original, _ := NewOffer(500000)

	counter, err := CounterOffer(original, 450000)
	if err != nil {
		t.Fatalf("counter pending: %v", err)
	}

	if original.Status != models.OfferCountered {
		t.Fatalf("original status = %q, want countered", original.Status)
	}
	if original.Amount != 500000 {
		t.Fatalf("original amount mutated to %d", original.Amount)
	}
	if counter.Status != models.OfferPending {
		t.Fatalf("counter status = %q, want pending", counter.Status)
	}
	if counter.Amount != 450000 {
		t.Fatalf("counter amount = %d, want 450000", counter.Amount)
	}
}

func TestCounterWithBadAmountLeavesOriginalPending(t *testing.T) {
	original, _ := NewOffer(500000)

	if _, err := CounterOffer(original, 0); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if original.Status != models.OfferPending {
		t.Fatalf("failed counter must not touch the original, status = %q", original.Status)
	}
}
