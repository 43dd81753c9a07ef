package v1

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mecalink/admin-gateway/internal/api/handler/v1/response"
	"github.com/mecalink/admin-gateway/internal/api/middleware"
	"github.com/mecalink/admin-gateway/internal/resource"
	"github.com/mecalink/admin-gateway/internal/service"
)

// Service errors answered with 400 and the error itself as message.
var badRequestErrs = []error{
	resource.ErrPageOutOfRange,
	resource.ErrInvalidPageSize,
	service.ErrInvalidPeriod,
	service.ErrUnknownTarget,
	service.ErrNoDeviceTokens,
}

func callerOf(ctx *gin.Context) (service.Caller, bool) {
	caller, ok := middleware.CallerFrom(ctx)
	if !ok {
		response.RenderErr(ctx, response.ErrUnauthorized(service.ErrNoSession))
	}

	return caller, ok
}

func renderServiceErr(ctx *gin.Context, op string, err error) {
	for _, target := range badRequestErrs {
		if errors.Is(err, target) {
			response.RenderErr(ctx, response.ErrBadRequest(target))
			return
		}
	}

	switch {
	case errors.Is(err, service.ErrNoSession):
		response.RenderErr(ctx, response.ErrUnauthorized(err))
	case errors.Is(err, service.ErrRunNotFound):
		response.RenderErr(ctx, response.ErrNotFound("broadcast", "id", ctx.Param("id")))
	default:
		response.RenderErr(ctx, response.ErrUpstream(fmt.Errorf("%s -> %w", op, err)))
	}
}

// HandleHealthcheck godoc
// @Summary      Healthcheck
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       / [get]
func HandleHealthcheck(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}
