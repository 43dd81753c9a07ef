package response

import (
	"fmt"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mecalink/admin-gateway/internal/mecalink"
)

type Err struct {
	Err        error  `json:"-"`
	StatusCode int    `json:"status_code"`
	StatusText string `json:"status_text"`
	ErrorMsg   string `json:"error_msg"`
}

func (e *Err) Error() string {
	if e.Err == nil {
		return e.ErrorMsg
	}
	return e.Err.Error()
}

func newErr(status int, msg string, err error) *Err {
	return &Err{
		Err:        err,
		StatusCode: status,
		StatusText: http.StatusText(status),
		ErrorMsg:   msg,
	}
}

// RenderErr logs e with the request id and writes it as the response.
func RenderErr(ctx *gin.Context, e *Err) {
	fields := []zap.Field{
		zap.String("request_id", requestid.Get(ctx)),
		zap.String("method", ctx.Request.Method),
		zap.String("path", ctx.FullPath()),
		zap.Int("status", e.StatusCode),
		zap.Error(e),
	}
	if e.StatusCode >= http.StatusInternalServerError {
		zap.L().Error("request failed", fields...)
	} else {
		zap.L().Info("request rejected", fields...)
	}

	ctx.AbortWithStatusJSON(e.StatusCode, e)
}

func ErrBadRequest(err error) *Err {
	return newErr(http.StatusBadRequest, err.Error(), err)
}

func ErrUnauthorized(err error) *Err {
	return newErr(http.StatusUnauthorized, "Session expirée, veuillez vous reconnecter", err)
}

func ErrWrongCredentials(err error) *Err {
	return newErr(http.StatusUnauthorized, mecalink.UserMessage(err, "Identifiants invalides"), err)
}

func ErrPermissionDenied(err error) *Err {
	return newErr(http.StatusForbidden, "Accès réservé aux administrateurs", err)
}

func ErrNotFound(resource, key string, value any) *Err {
	err := fmt.Errorf("%s with %s=%v not found", resource, key, value)
	return newErr(http.StatusNotFound, err.Error(), err)
}

func ErrInternalServerError(err error) *Err {
	return newErr(http.StatusInternalServerError, "Une erreur interne s'est produite", err)
}

// ErrUpstream maps a failed MecaLink call to the gateway answer: 4xx pass
// through with the server message, 5xx and transport or decode failures
// become 502, a missing or rejected session 401. A request that could not be
// built is the gateway's own failure: 500.
func ErrUpstream(err error) *Err {
	reqErr, ok := mecalink.AsRequestError(err)
	if !ok {
		return ErrInternalServerError(err)
	}

	switch {
	case reqErr.Unauthorized():
		return newErr(http.StatusUnauthorized, reqErr.Message, err)
	case reqErr.Kind == mecalink.KindValidation && reqErr.Status >= 400 && reqErr.Status < 500:
		return newErr(reqErr.Status, reqErr.Message, err)
	case reqErr.Kind == mecalink.KindValidation:
		return newErr(http.StatusBadRequest, reqErr.Message, err)
	case reqErr.Kind == mecalink.KindRequest:
		return newErr(http.StatusInternalServerError, reqErr.Message, err)
	default:
		return newErr(http.StatusBadGateway, reqErr.Message, err)
	}
}
