package domain

import "time"

type ServiceRequestStatus string

const (
	StatusPending   ServiceRequestStatus = "pending"
	StatusAccepted  ServiceRequestStatus = "accepted"
	StatusCompleted ServiceRequestStatus = "completed"
)

// Label is the French label shown next to a service request.
func (s ServiceRequestStatus) Label() string {
	switch s {
	case StatusPending:
		return "En attente"
	case StatusAccepted:
		return "Accepté"
	default:
		return "Terminé"
	}
}

type Location struct {
	Address     string    `json:"address"`
	Coordinates []float64 `json:"coordinates,omitempty"`
}

type ServiceRequest struct {
	ID          string               `json:"_id"`
	Client      Ref[User]            `json:"clientId"`
	Garage      Ref[Garage]          `json:"garageId"`
	ClientName  string               `json:"clientName,omitempty"`
	ClientEmail string               `json:"clientEmail,omitempty"`
	ClientPhone string               `json:"clientPhone,omitempty"`
	GarageName  string               `json:"garageName,omitempty"`
	Description string               `json:"description"`
	Status      ServiceRequestStatus `json:"status"`
	StatusLabel string               `json:"statusLabel,omitempty"`
	Location    Location             `json:"location"`
	CreatedAt   time.Time            `json:"createdAt"`
}

func (r ServiceRequest) EntityID() string { return r.ID }

// WithLabel fills StatusLabel from Status.
func (r ServiceRequest) WithLabel() ServiceRequest {
	r.StatusLabel = r.Status.Label()
	return r
}
