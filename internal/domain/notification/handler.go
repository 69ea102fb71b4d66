package notification

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"drycleaning/internal/pkg/jwt"
	"drycleaning/internal/pkg/response"
)

type Handler struct {
	service *Service
	hub     *Hub
	jwt     *jwt.Service
	log     *zap.Logger
}

func NewHandler(service *Service, hub *Hub, jwtService *jwt.Service, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{service: service, hub: hub, jwt: jwtService, log: log}
}

func (h *Handler) List(c *gin.Context) {
	f := Filter{}
	f.ClientID, _ = strconv.ParseInt(c.Query("client_id"), 10, 64)
	f.OrderID, _ = strconv.ParseInt(c.Query("order_id"), 10, 64)
	f.Limit, _ = strconv.Atoi(c.Query("limit"))

	list, err := h.service.List(c.Request.Context(), f)
	if err != nil {
		response.Internal(c, "Failed to load notifications")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"notifications": list})
}

// OrderBoard upgrades to a websocket streaming order events.
// Browsers cannot set headers on websocket requests, so the token comes in ?token=.
func (h *Handler) OrderBoard(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Token is required")
		return
	}
	claims, err := h.jwt.ValidateToken(token)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	h.hub.ServeWS(conn, claims.OperatorID)
}
