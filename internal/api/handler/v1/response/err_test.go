package response

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mecalink/admin-gateway/internal/mecalink"
)

func TestErrUpstream(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{
			name:   "rejected token",
			err:    &mecalink.RequestError{Kind: mecalink.KindValidation, Status: http.StatusUnauthorized, Message: "Token invalide"},
			status: http.StatusUnauthorized,
			msg:    "Token invalide",
		},
		{
			name:   "not found passes through",
			err:    &mecalink.RequestError{Kind: mecalink.KindValidation, Status: http.StatusNotFound, Message: "Ressource introuvable"},
			status: http.StatusNotFound,
			msg:    "Ressource introuvable",
		},
		{
			name:   "success false",
			err:    &mecalink.RequestError{Kind: mecalink.KindValidation, Message: "Refusé"},
			status: http.StatusBadRequest,
			msg:    "Refusé",
		},
		{
			name:   "server error",
			err:    &mecalink.RequestError{Kind: mecalink.KindServer, Status: http.StatusInternalServerError, Message: "boom"},
			status: http.StatusBadGateway,
			msg:    "boom",
		},
		{
			name:   "transport",
			err:    &mecalink.RequestError{Kind: mecalink.KindTransport, Message: "Impossible de joindre le serveur"},
			status: http.StatusBadGateway,
			msg:    "Impossible de joindre le serveur",
		},
		{
			name:   "request not built",
			err:    fmt.Errorf("wrapped -> %w", &mecalink.RequestError{Kind: mecalink.KindRequest, Message: "La requête n'a pas pu être préparée"}),
			status: http.StatusInternalServerError,
			msg:    "La requête n'a pas pu être préparée",
		},
		{
			name:   "not an upstream error",
			err:    errors.New("nil pointer"),
			status: http.StatusInternalServerError,
			msg:    "Une erreur interne s'est produite",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := ErrUpstream(tt.err)

			assert.Equal(t, tt.status, e.StatusCode)
			assert.Equal(t, tt.msg, e.ErrorMsg)
		})
	}
}
