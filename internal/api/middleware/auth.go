package middleware

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mecalink/admin-gateway/internal/api/handler/v1/response"
	"github.com/mecalink/admin-gateway/internal/pkg/jwthelper"
	"github.com/mecalink/admin-gateway/internal/service"
)

const (
	sessionIDKey = "sid"
	callerKey    = "caller"
)

var (
	errMissingToken      = errors.New("missing bearer token")
	errUserAgentMismatch = errors.New("token issued to another user agent")
)

type Authenticator struct {
	key []byte
}

func NewAuthenticator(key string) *Authenticator {
	return &Authenticator{key: []byte(key)}
}

// VerifyJWT checks the gateway token and stores its session id. Browsers
// cannot set headers on websocket handshakes, so the token is also read
// from the access_token query parameter.
func (a *Authenticator) VerifyJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token := strings.TrimPrefix(ctx.GetHeader("Authorization"), "Bearer ")
		if token == "" {
			token = ctx.Query("access_token")
		}
		if token == "" {
			response.RenderErr(ctx, response.ErrUnauthorized(errMissingToken))
			return
		}

		claims, err := jwthelper.ParseToken(a.key, token)
		if err != nil {
			response.RenderErr(ctx, response.ErrUnauthorized(err))
			return
		}
		if claims.UserAgent != ctx.Request.UserAgent() {
			response.RenderErr(ctx, response.ErrUnauthorized(errUserAgentMismatch))
			return
		}

		ctx.Set(sessionIDKey, claims.SessionID)
		ctx.Next()
	}
}

type SessionResolver interface {
	Resolve(ctx context.Context, sid string) (service.Caller, error)
}

// RequireSession loads the session named by the token. A session that was
// cleared or never existed answers 401 so the front end goes back to login.
func RequireSession(resolver SessionResolver) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		caller, err := resolver.Resolve(ctx.Request.Context(), ctx.GetString(sessionIDKey))
		if err != nil {
			if errors.Is(err, service.ErrNoSession) {
				response.RenderErr(ctx, response.ErrUnauthorized(err))
				return
			}
			response.RenderErr(ctx, response.ErrInternalServerError(fmt.Errorf("resolver.Resolve -> %w", err)))
			return
		}

		ctx.Set(callerKey, caller)
		ctx.Next()
	}
}

// RequireAdmin lets only admins through. It runs after RequireSession.
func RequireAdmin() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		caller, ok := CallerFrom(ctx)
		if !ok {
			response.RenderErr(ctx, response.ErrUnauthorized(service.ErrNoSession))
			return
		}
		if !caller.User().IsAdmin() {
			response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %s: %w", caller.User().ID, service.ErrNotAdmin)))
			return
		}

		ctx.Next()
	}
}

func CallerFrom(ctx *gin.Context) (service.Caller, bool) {
	v, ok := ctx.Get(callerKey)
	if !ok {
		return service.Caller{}, false
	}
	caller, ok := v.(service.Caller)

	return caller, ok
}
