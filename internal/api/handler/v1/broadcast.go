package v1

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/mecalink/admin-gateway/internal/api/handler/v1/request"
	"github.com/mecalink/admin-gateway/internal/api/handler/v1/response"
	"github.com/mecalink/admin-gateway/internal/domain"
	"github.com/mecalink/admin-gateway/internal/service"
)

const writeWait = 10 * time.Second

type BroadcastService interface {
	StartDiagnostic(ctx context.Context, caller service.Caller) (service.Run, error)
	StartDevices(ctx context.Context, caller service.Caller, tokens []string, n domain.Notification) (service.Run, error)
	Get(caller service.Caller, id string) (service.Run, error)
	Subscribe(caller service.Caller, id string) (service.Run, <-chan service.Run, func(), error)
}

type BroadcastHandler struct {
	svc      BroadcastService
	upgrader websocket.Upgrader
}

// NewBroadcastHandler accepts websocket handshakes from the given origins,
// or from any origin when none is given.
func NewBroadcastHandler(svc BroadcastService, allowedOrigins []string) *BroadcastHandler {
	return &BroadcastHandler{
		svc: svc,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin(allowedOrigins),
		},
	}
}

func checkOrigin(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		if len(allowed) == 0 {
			return true
		}

		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		for _, a := range allowed {
			if a == origin || a == u.Scheme+"://"+u.Host {
				return true
			}
		}

		return false
	}
}

// HandleStartDiagnostic godoc
// @Summary      Start a diagnostic broadcast
// @Description  Sends each user a diagnostic of their latest checklist, one user at a time. Returns at once; follow the run with GET /broadcasts/{id} or its websocket.
// @Tags         broadcasts
// @Produce      json
// @Success      202      {object}   service.Run
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      502      {object}   response.Err
// @Router       /broadcasts/diagnostic [post]
// @Security     BearerAuth
func (h *BroadcastHandler) HandleStartDiagnostic(ctx *gin.Context) {
	caller, ok := callerOf(ctx)
	if !ok {
		return
	}

	run, err := h.svc.StartDiagnostic(ctx.Request.Context(), caller)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleStartDiagnostic -> h.svc.StartDiagnostic", err)
		return
	}

	ctx.JSON(http.StatusAccepted, run)
}

// HandleStartDevices godoc
// @Summary      Start a targeted broadcast
// @Description  Sends the notification to each device token in order.
// @Tags         broadcasts
// @Accept       json
// @Produce      json
// @Param        request   body      request.DeviceBroadcastRequest true "request body"
// @Success      202      {object}   service.Run
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Router       /broadcasts/devices [post]
// @Security     BearerAuth
func (h *BroadcastHandler) HandleStartDevices(ctx *gin.Context) {
	caller, ok := callerOf(ctx)
	if !ok {
		return
	}

	var req request.DeviceBroadcastRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	run, err := h.svc.StartDevices(ctx.Request.Context(), caller, req.DeviceTokens, req.Notification())
	if err != nil {
		renderServiceErr(ctx, "v1.HandleStartDevices -> h.svc.StartDevices", err)
		return
	}

	ctx.JSON(http.StatusAccepted, run)
}

// HandleGetBroadcast godoc
// @Summary      Get a broadcast
// @Tags         broadcasts
// @Produce      json
// @Param        id   path      string  true  "run id"
// @Success      200      {object}   service.Run
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Router       /broadcasts/{id} [get]
// @Security     BearerAuth
func (h *BroadcastHandler) HandleGetBroadcast(ctx *gin.Context) {
	caller, ok := callerOf(ctx)
	if !ok {
		return
	}

	run, err := h.svc.Get(caller, ctx.Param("id"))
	if err != nil {
		renderServiceErr(ctx, "v1.HandleGetBroadcast -> h.svc.Get", err)
		return
	}

	ctx.JSON(http.StatusOK, run)
}

// HandleBroadcastWebSocket godoc
// @Summary      Follow a broadcast
// @Description  Streams run snapshots as JSON text messages, the current one first, until the run is done. Pass the token as access_token.
// @Tags         broadcasts
// @Param        id            path   string  true  "run id"
// @Param        access_token  query  string  true  "gateway token"
// @Success      101 {string} string "Switching Protocols to WebSocket"
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Router       /broadcasts/{id}/ws [get]
func (h *BroadcastHandler) HandleBroadcastWebSocket(ctx *gin.Context) {
	caller, ok := callerOf(ctx)
	if !ok {
		return
	}

	first, updates, cancel, err := h.svc.Subscribe(caller, ctx.Param("id"))
	if err != nil {
		renderServiceErr(ctx, "v1.HandleBroadcastWebSocket -> h.svc.Subscribe", err)
		return
	}
	defer cancel()

	conn, err := h.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		zap.L().Info("websocket upgrade failed", zap.String("run", first.ID), zap.Error(err))
		return
	}
	defer conn.Close()

	closed := make(chan struct{})
	go readPump(conn, closed)

	if err = writeRun(conn, first); err != nil {
		return
	}

	for {
		select {
		case run, ok := <-updates:
			if !ok {
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "broadcast done"))
				return
			}
			if err = writeRun(conn, run); err != nil {
				return
			}
		case <-closed:
			return
		}
	}
}

func writeRun(conn *websocket.Conn, run service.Run) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(run)
}

// readPump drains client frames so close and ping frames are handled.
func readPump(conn *websocket.Conn, closed chan<- struct{}) {
	defer close(closed)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				zap.L().Info("websocket closed", zap.Error(err))
			}
			return
		}
	}
}
