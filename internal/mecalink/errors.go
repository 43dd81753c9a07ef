package mecalink

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failed call.
type Kind int

const (
	// KindTransport is a network failure: nothing came back from the server.
	KindTransport Kind = iota + 1
	// KindValidation is a 4xx answer, usually a business or validation error.
	KindValidation
	// KindServer is a 5xx answer.
	KindServer
	// KindNoSession means a protected call was attempted without a token.
	KindNoSession
	// KindDecode means the answer did not match the expected schema.
	KindDecode
	// KindRequest means the request could not be built; nothing was sent.
	KindRequest
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindValidation:
		return "validation"
	case KindServer:
		return "server"
	case KindNoSession:
		return "no_session"
	case KindDecode:
		return "decode"
	case KindRequest:
		return "request"
	default:
		return "unknown"
	}
}

var fallbackMessages = map[Kind]string{
	KindTransport:  "Impossible de joindre le serveur",
	KindValidation: "Requête refusée par le serveur",
	KindServer:     "Une erreur s'est produite sur le serveur",
	KindNoSession:  "Session expirée, veuillez vous reconnecter",
	KindDecode:     "Réponse inattendue du serveur",
	KindRequest:    "La requête n'a pas pu être préparée",
}

var ErrNoSession = errors.New("no session token")

// RequestError is returned by every failed call. Message is the message sent
// by the server when there is one, a generic French message otherwise.
type RequestError struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *RequestError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("mecalink %s error (%d): %s", e.Kind, e.Status, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("mecalink %s error: %s: %v", e.Kind, e.Message, e.Err)
	}

	return fmt.Sprintf("mecalink %s error: %s", e.Kind, e.Message)
}

func (e *RequestError) Unwrap() error { return e.Err }

// Unauthorized reports whether the server rejected the session token.
func (e *RequestError) Unauthorized() bool {
	return e.Kind == KindNoSession || e.Status == http.StatusUnauthorized
}

func newRequestError(kind Kind, status int, message string, err error) *RequestError {
	if message == "" {
		message = fallbackMessages[kind]
	}

	return &RequestError{
		Kind:    kind,
		Status:  status,
		Message: message,
		Err:     err,
	}
}

// AsRequestError unwraps err into a *RequestError.
func AsRequestError(err error) (*RequestError, bool) {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr, true
	}

	return nil, false
}

// UserMessage returns the message to show for err: the server message for
// request errors, the fallback otherwise.
func UserMessage(err error, fallback string) string {
	if reqErr, ok := AsRequestError(err); ok && reqErr.Message != "" {
		return reqErr.Message
	}

	return fallback
}
