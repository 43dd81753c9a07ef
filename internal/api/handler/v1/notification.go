package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mecalink/admin-gateway/internal/api/handler/v1/request"
	"github.com/mecalink/admin-gateway/internal/api/handler/v1/response"
	"github.com/mecalink/admin-gateway/internal/domain"
	"github.com/mecalink/admin-gateway/internal/service"
)

type NotificationService interface {
	Send(ctx context.Context, caller service.Caller, c service.Composition) (domain.SendResult, error)
}

type NotificationHandler struct {
	svc NotificationService
}

func NewNotificationHandler(svc NotificationService) *NotificationHandler {
	return &NotificationHandler{
		svc: svc,
	}
}

// HandleSendNotification godoc
// @Summary      Send a push notification
// @Description  target is all, clients, garages or device. Clients may get a promo code with its expiry date.
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Param        request   body      request.NotificationRequest true "request body"
// @Success      200      {object}   domain.SendResult
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      502      {object}   response.Err
// @Router       /notifications [post]
// @Security     BearerAuth
func (h *NotificationHandler) HandleSendNotification(ctx *gin.Context) {
	caller, ok := callerOf(ctx)
	if !ok {
		return
	}

	var req request.NotificationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	res, err := h.svc.Send(ctx.Request.Context(), caller, service.Composition{
		Target:       domain.NotificationTarget(req.Target),
		Notification: req.Notification(),
		Promotion: domain.ClientPromotion{
			PromoCode:  req.PromoCode,
			ExpiryDate: req.ExpiryDate,
		},
		DeviceToken:  req.DeviceToken,
		DeviceTokens: req.DeviceTokens,
	})
	if err != nil {
		renderServiceErr(ctx, "v1.HandleSendNotification -> h.svc.Send", err)
		return
	}

	ctx.JSON(http.StatusOK, res)
}
