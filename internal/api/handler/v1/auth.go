package v1

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mecalink/admin-gateway/internal/api/handler/v1/request"
	"github.com/mecalink/admin-gateway/internal/api/handler/v1/response"
	"github.com/mecalink/admin-gateway/internal/config"
	"github.com/mecalink/admin-gateway/internal/mecalink"
	"github.com/mecalink/admin-gateway/internal/pkg/jwthelper"
	"github.com/mecalink/admin-gateway/internal/service"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (service.LoginResult, error)
	Logout(ctx context.Context, caller service.Caller) error
}

type AuthHandler struct {
	conf *config.APIConfig
	ttl  time.Duration
	svc  AuthService
}

func NewAuthHandler(conf *config.APIConfig, sessionConf *config.SessionConfig, svc AuthService) *AuthHandler {
	return &AuthHandler{
		conf: conf,
		ttl:  sessionConf.TTL,
		svc:  svc,
	}
}

// HandleLogin godoc
// @Summary      Login an operator
// @Description  Authenticates against MecaLink and opens a gateway session. Admins land on /dashboard, other roles on /.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request   body      request.LoginRequest true "request body"
// @Success      200      {object}   response.LoginResponse
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      502      {object}   response.Err
// @Router       /auth/login [post]
func (h *AuthHandler) HandleLogin(ctx *gin.Context) {
	req := request.LoginRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	res, err := h.svc.Login(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		if reqErr, ok := mecalink.AsRequestError(err); ok && reqErr.Kind == mecalink.KindValidation {
			response.RenderErr(ctx, response.ErrWrongCredentials(err))

			return
		}

		renderServiceErr(ctx, "v1.HandleLogin -> h.svc.Login", err)

		return
	}

	token, err := jwthelper.GenerateToken([]byte(h.conf.JWTSigningKey), res.SID, ctx.Request.UserAgent(), h.ttl)
	if err != nil {
		err = fmt.Errorf("v1.HandleLogin -> jwthelper.GenerateToken -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, response.LoginResponse{
		Token:   token,
		User:    res.User,
		Landing: res.Landing,
	})
}

// HandleLogout godoc
// @Summary      Logout
// @Description  Clears the gateway session. The token stops working immediately.
// @Tags         auth
// @Success      204
// @Failure      401      {object}   response.Err
// @Router       /auth/logout [post]
// @Security     BearerAuth
func (h *AuthHandler) HandleLogout(ctx *gin.Context) {
	caller, ok := callerOf(ctx)
	if !ok {
		return
	}

	if err := h.svc.Logout(ctx.Request.Context(), caller); err != nil {
		err = fmt.Errorf("v1.HandleLogout -> h.svc.Logout -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.Status(http.StatusNoContent)
}
