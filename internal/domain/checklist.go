package domain

import "time"

type Checklist struct {
	ID               string            `json:"_id"`
	User             Ref[User]         `json:"user"`
	Date             time.Time         `json:"date"`
	Time             string            `json:"time"`
	Registration     string            `json:"registration"`
	Brand            string            `json:"marque,omitempty"`
	Mileage          int               `json:"mileage"`
	ExteriorChecks   map[string]string `json:"exteriorChecks"`
	MechanicalChecks map[string]string `json:"mechanicalChecks"`
	InteriorChecks   map[string]string `json:"interiorChecks"`
	Observations     string            `json:"observations"`
}

func (c Checklist) EntityID() string { return c.ID }

// UserID is empty when the checklist is not attached to a user.
func (c Checklist) UserID() string { return c.User.ID }

// Before orders checklists by date, then by the free-form time of day.
func (c Checklist) Before(other Checklist) bool {
	if !c.Date.Equal(other.Date) {
		return c.Date.Before(other.Date)
	}

	return c.Time < other.Time
}

const (
	placeholderUnknown      = "Non renseigné"
	placeholderObservations = "Aucune observation"
)

var checkKeyLabels = map[string]string{
	"tires":        "Pneus",
	"wheelNuts":    "Écrous de roue",
	"body":         "Carrosserie",
	"spareTire":    "Roue de secours",
	"windshield":   "Pare-brise",
	"wipers":       "Essuie-glaces",
	"lights":       "Feux",
	"indicators":   "Clignotants",
	"oilLevel":     "Niveau d'huile",
	"coolant":      "Liquide de refroidissement",
	"battery":      "Batterie",
	"belt":         "Courroie",
	"seatsBelts":   "Ceintures de sécurité",
	"brakes":       "Freins",
	"ac":           "Climatisation",
	"fourByFour":   "Transmission 4x4",
	"extinguisher": "Extincteur",
	"firstAid":     "Trousse de secours",
	"triangle":     "Triangle",
	"jackTools":    "Cric et outils",
}

var checkValueLabels = map[string]string{
	"Bon":        "Bon",
	"Oui":        "Oui",
	"Rayures":    "Rayures",
	"À revoir":   "À revoir",
	"Fissuré":    "Fissuré",
	"OK":         "OK",
	"Aucun":      "Aucun",
	"Faible":     "Faible",
	"Problème":   "Problème",
	"Incomplète": "Incomplète",
	"Présent":    "Présent",
	"Incomplets": "Incomplets",
}

// CheckLabel returns the display label of a check code, or the code itself.
func CheckLabel(code string) string {
	if l, ok := checkKeyLabels[code]; ok {
		return l
	}
	return code
}

// CheckValueLabel returns the display label of a check result, or the value itself.
func CheckValueLabel(value string) string {
	if l, ok := checkValueLabels[value]; ok {
		return l
	}
	return value
}

func translateChecks(checks map[string]string) map[string]string {
	out := make(map[string]string, len(checks))
	for k, v := range checks {
		out[CheckLabel(k)] = CheckValueLabel(v)
	}
	return out
}

// ChecklistView is a checklist ready for display.
type ChecklistView struct {
	ID               string            `json:"_id"`
	User             User              `json:"user"`
	Date             string            `json:"date"`
	Time             string            `json:"time"`
	Registration     string            `json:"registration"`
	Brand            string            `json:"marque,omitempty"`
	Mileage          int               `json:"mileage"`
	ExteriorChecks   map[string]string `json:"exteriorChecks"`
	MechanicalChecks map[string]string `json:"mechanicalChecks"`
	InteriorChecks   map[string]string `json:"interiorChecks"`
	Observations     string            `json:"observations"`
}

func (c Checklist) View() ChecklistView {
	user := User{Name: placeholderUnknown, Email: placeholderUnknown, Phone: placeholderUnknown}
	if c.User.Value != nil {
		user = *c.User.Value
	}

	observations := c.Observations
	if observations == "" {
		observations = placeholderObservations
	}

	date := placeholderUnknown
	if !c.Date.IsZero() {
		date = c.Date.Format("02/01/2006")
	}

	return ChecklistView{
		ID:               c.ID,
		User:             user,
		Date:             date,
		Time:             c.Time,
		Registration:     c.Registration,
		Brand:            c.Brand,
		Mileage:          c.Mileage,
		ExteriorChecks:   translateChecks(c.ExteriorChecks),
		MechanicalChecks: translateChecks(c.MechanicalChecks),
		InteriorChecks:   translateChecks(c.InteriorChecks),
		Observations:     observations,
	}
}
