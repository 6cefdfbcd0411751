package models

// Offer statuses. An offer leaves pending exactly once; countered offers are
// answered by a brand-new pending offer in a new message, never mutated back.
const (
	OfferPending   = "pending"
	OfferAccepted  = "accepted"
	OfferRejected  = "rejected"
	OfferCountered = "countered"
)

// Offer is a price proposal embedded in an offer-typed message. It has no
// identity of its own; it lives and dies with its message row.
type Offer struct {
	Amount int64  `json:"amount"`
	Status string `json:"status" gorm:"size:16"`
}

func (o *Offer) IsPending() bool {
	return o.Status == OfferPending
}
