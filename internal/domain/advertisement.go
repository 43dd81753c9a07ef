package domain

import "time"

type Advertisement struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Link        string    `json:"link,omitempty"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (a Advertisement) EntityID() string { return a.ID }

// AdvertisementInput is the editable part of an advertisement. Image is
// optional; without it the advertisement is submitted without a file.
type AdvertisementInput struct {
	Title       string
	Description string
	Link        string
	IsActive    bool
	Image       *Upload
}

type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}
