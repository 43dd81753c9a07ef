package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRef_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantID    string
		populated bool
	}{
		{name: "bare id", input: `{"clientId":"u1"}`, wantID: "u1"},
		{name: "populated", input: `{"clientId":{"_id":"u2","name":"Awa"}}`, wantID: "u2", populated: true},
		{name: "null", input: `{"clientId":null}`},
		{name: "missing", input: `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req ServiceRequest
			require.NoError(t, json.Unmarshal([]byte(tt.input), &req))
			assert.Equal(t, tt.wantID, req.Client.ID)
			assert.Equal(t, tt.populated, req.Client.Populated())
		})
	}
}

func TestRef_MarshalJSON(t *testing.T) {
	out, err := json.Marshal(Ref[User]{ID: "u1"})
	require.NoError(t, err)
	assert.JSONEq(t, `"u1"`, string(out))

	out, err = json.Marshal(Ref[User]{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))

	out, err = json.Marshal(Ref[User]{ID: "u1", Value: &User{ID: "u1", Name: "Awa"}})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"name":"Awa"`)
}

func TestGarage_DisplayName(t *testing.T) {
	g := Garage{Name: "Garage Central"}
	assert.Equal(t, "Garage Central", g.DisplayName())

	g.Owner = Ref[User]{ID: "u1", Value: &User{ID: "u1", Name: "Moussa"}}
	assert.Equal(t, "Moussa", g.DisplayName())
}
