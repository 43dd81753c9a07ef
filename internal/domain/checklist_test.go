package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestChecklist_View(t *testing.T) {
	c := Checklist{
		ID:   "c1",
		Date: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		Time: "08:30",
		ExteriorChecks: map[string]string{
			"tires":      "Bon",
			"customPart": "Rayures",
		},
		MechanicalChecks: map[string]string{"oilLevel": "Faible"},
		InteriorChecks:   map[string]string{"ac": "code-42"},
	}

	v := c.View()

	assert.Equal(t, "05/03/2024", v.Date)
	assert.Equal(t, "Non renseigné", v.User.Name)
	assert.Equal(t, "Aucune observation", v.Observations)
	assert.Equal(t, map[string]string{"Pneus": "Bon", "customPart": "Rayures"}, v.ExteriorChecks)
	assert.Equal(t, map[string]string{"Niveau d'huile": "Faible"}, v.MechanicalChecks)
	assert.Equal(t, map[string]string{"Climatisation": "code-42"}, v.InteriorChecks)
}

func TestChecklist_Before(t *testing.T) {
	day := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	a := Checklist{Date: day, Time: "08:00"}
	b := Checklist{Date: day, Time: "09:00"}
	c := Checklist{Date: day.AddDate(0, 0, 1)}

	assert.True(t, a.Before(b))
	assert.False(t, b.Before(a))
	assert.True(t, b.Before(c))
}

func TestServiceRequestStatus_Label(t *testing.T) {
	assert.Equal(t, "En attente", StatusPending.Label())
	assert.Equal(t, "Accepté", StatusAccepted.Label())
	assert.Equal(t, "Terminé", StatusCompleted.Label())
}
