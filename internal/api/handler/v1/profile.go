package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mecalink/admin-gateway/internal/api/handler/v1/request"
	"github.com/mecalink/admin-gateway/internal/api/handler/v1/response"
	"github.com/mecalink/admin-gateway/internal/domain"
	"github.com/mecalink/admin-gateway/internal/mecalink"
	"github.com/mecalink/admin-gateway/internal/service"
)

type ProfileService interface {
	Me(ctx context.Context, caller service.Caller) (domain.User, error)
	UpdateProfile(ctx context.Context, caller service.Caller, update mecalink.ProfileUpdate) (domain.User, string, error)
}

type ProfileHandler struct {
	svc ProfileService
}

func NewProfileHandler(svc ProfileService) *ProfileHandler {
	return &ProfileHandler{
		svc: svc,
	}
}

// HandleGetMe godoc
// @Summary      Get the signed-in admin
// @Tags         profile
// @Produce      json
// @Success      200      {object}   domain.User
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      502      {object}   response.Err
// @Router       /auth/me [get]
// @Security     BearerAuth
func (h *ProfileHandler) HandleGetMe(ctx *gin.Context) {
	caller, ok := callerOf(ctx)
	if !ok {
		return
	}

	user, err := h.svc.Me(ctx.Request.Context(), caller)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleGetMe -> h.svc.Me", err)
		return
	}

	ctx.JSON(http.StatusOK, user)
}

// HandleUpdateProfile godoc
// @Summary      Update the admin profile
// @Description  The password is only changed when given, and must then match confirm_password.
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        request   body      request.ProfileRequest true "request body"
// @Success      200      {object}   response.ProfileResponse
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      502      {object}   response.Err
// @Router       /profile [put]
// @Security     BearerAuth
func (h *ProfileHandler) HandleUpdateProfile(ctx *gin.Context) {
	caller, ok := callerOf(ctx)
	if !ok {
		return
	}

	var req request.ProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	user, msg, err := h.svc.UpdateProfile(ctx.Request.Context(), caller, mecalink.ProfileUpdate{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		renderServiceErr(ctx, "v1.HandleUpdateProfile -> h.svc.UpdateProfile", err)
		return
	}

	ctx.JSON(http.StatusOK, response.ProfileResponse{
		Message: msg,
		User:    user,
	})
}
