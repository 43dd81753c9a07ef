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

type StatsService interface {
	Dashboard(ctx context.Context, caller service.Caller) (domain.Stats, error)
	Period(ctx context.Context, caller service.Caller, q service.PeriodQuery) (service.PeriodStats, error)
}

type StatsHandler struct {
	svc StatsService
}

func NewStatsHandler(svc StatsService) *StatsHandler {
	return &StatsHandler{
		svc: svc,
	}
}

// HandleGetStats godoc
// @Summary      Dashboard counters
// @Tags         stats
// @Produce      json
// @Success      200      {object}   domain.Stats
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      502      {object}   response.Err
// @Router       /stats [get]
// @Security     BearerAuth
func (h *StatsHandler) HandleGetStats(ctx *gin.Context) {
	caller, ok := callerOf(ctx)
	if !ok {
		return
	}

	stats, err := h.svc.Dashboard(ctx.Request.Context(), caller)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleGetStats -> h.svc.Dashboard", err)
		return
	}

	ctx.JSON(http.StatusOK, stats)
}

// HandleGetPeriodStats godoc
// @Summary      Statistics over a period
// @Description  Defaults to the last month grouped by day.
// @Tags         stats
// @Produce      json
// @Param        startDate  query  string  false  "YYYY-MM-DD"
// @Param        endDate    query  string  false  "YYYY-MM-DD"
// @Param        groupBy    query  string  false  "day, week or month"
// @Success      200      {object}   service.PeriodStats
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      502      {object}   response.Err
// @Router       /stats/period [get]
// @Security     BearerAuth
func (h *StatsHandler) HandleGetPeriodStats(ctx *gin.Context) {
	caller, ok := callerOf(ctx)
	if !ok {
		return
	}

	var req request.PeriodRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	start, end := req.Range()
	stats, err := h.svc.Period(ctx.Request.Context(), caller, service.PeriodQuery{
		Start:   start,
		End:     end,
		GroupBy: domain.GroupBy(req.GroupBy),
	})
	if err != nil {
		renderServiceErr(ctx, "v1.HandleGetPeriodStats -> h.svc.Period", err)
		return
	}

	ctx.JSON(http.StatusOK, stats)
}
