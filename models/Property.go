package models

import (
	"encoding/json"

	"gorm.io/gorm"
)

// Property is the listing a conversation can be anchored to. Listing CRUD and
// search live in the main marketplace service; messaging only reads these rows.
type Property struct {
	gorm.Model
	OwnerID     uint    `json:"ownerID" gorm:"not null;index"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       int64   `json:"price"` // integer units, currency-agnostic
	Currency    string  `json:"currency"`
	City        string  `json:"city"`
	District    string  `json:"district"`
	ListingType string  `json:"listingType" gorm:"size:16;index"` // sale, rent
	Lat         float32 `json:"lat"`
	Lng         float32 `json:"lng"`
	Images      string  `json:"images"` // JSON array of URLs
	Owner       User    `json:"owner" gorm:"foreignKey:OwnerID;references:ID"`
}

// Custom JSON marshaling to convert the Images string to an array
func (p *Property) MarshalJSON() ([]byte, error) {
	type Alias Property
	aux := &struct {
		Images []string `json:"images"`
		Owner  *User    `json:"owner,omitempty"`
		*Alias
	}{
		Images: []string{},
		Owner:  nil,
		Alias:  (*Alias)(p),
	}

	if p.Images != "" {
		var images []string
		if err := json.Unmarshal([]byte(p.Images), &images); err == nil {
			aux.Images = images
		}
	}

	if p.Owner.ID != 0 {
		aux.Owner = &p.Owner
	}

	return json.Marshal(aux)
}
