package domain

import "time"

type Role string

const (
	RoleClient Role = "client"
	RoleGarage Role = "garage"
	RoleAdmin  Role = "admin"
)

type User struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone,omitempty"`
	Role        Role      `json:"role"`
	IsActive    bool      `json:"isActive"`
	DeviceToken string    `json:"deviceToken,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (u User) EntityID() string { return u.ID }

func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

// Session is what the gateway keeps for a signed-in operator: the opaque
// MecaLink token and the profile returned at login.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

func (s Session) Empty() bool { return s.Token == "" }
