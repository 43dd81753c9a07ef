package domain

import "encoding/json"

type NotificationTarget string

const (
	TargetAll     NotificationTarget = "all"
	TargetClients NotificationTarget = "clients"
	TargetGarages NotificationTarget = "garages"
	TargetDevice  NotificationTarget = "device"
)

type Notification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Data  string `json:"data"`
}

// ClientPromotion is only sent with notifications targeting clients.
type ClientPromotion struct {
	PromoCode  string `json:"promoCode"`
	ExpiryDate string `json:"expiryDate"`
}

type SendResult struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

type DiagnosticRequest struct {
	Marque      string `json:"marque"`
	Kilometrage int    `json:"kilometrage"`
	Km          int    `json:"km"`
}

type Diagnostic struct {
	Diagnostic string `json:"diagnostic"`
}
