package domain

import (
	"encoding/json"
	"time"
)

type Garage struct {
	ID           string          `json:"_id"`
	Owner        Ref[User]       `json:"userId"`
	Name         string          `json:"name,omitempty"`
	Email        string          `json:"email,omitempty"`
	Phone        string          `json:"phone,omitempty"`
	Address      string          `json:"address"`
	Skills       []string        `json:"skills"`
	Note         float64         `json:"note"`
	OpeningHours json.RawMessage `json:"openingHours,omitempty"`
	Comments     []Comment       `json:"comments"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

func (g Garage) EntityID() string { return g.ID }

// DisplayName prefers the owner's name, as the admin lists do.
func (g Garage) DisplayName() string {
	if g.Owner.Value != nil && g.Owner.Value.Name != "" {
		return g.Owner.Value.Name
	}

	return g.Name
}

type Comment struct {
	ID          string    `json:"_id"`
	User        Ref[User] `json:"user"`
	Note        int       `json:"note"`
	Commentaire string    `json:"commentaire"`
	CreatedAt   time.Time `json:"createdAt"`
}
