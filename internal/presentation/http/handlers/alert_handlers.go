package handlers

import (
	"net/http"

	"github.com/AtRiskMedia/crosstrace-go/internal/infrastructure/messaging"
	"github.com/AtRiskMedia/crosstrace-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/crosstrace-go/pkg/config"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var alertUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// CORS middleware owns origin policy for the REST surface; the
		// websocket endpoint is service-to-service.
		return true
	},
}

// AlertHandlers contains the high-risk alert subscription handlers
type AlertHandlers struct {
	broadcaster *messaging.AlertBroadcaster
	logger      *logging.ChanneledLogger
}

// NewAlertHandlers creates alert handlers with injected dependencies
func NewAlertHandlers(broadcaster *messaging.AlertBroadcaster, logger *logging.ChanneledLogger) *AlertHandlers {
	return &AlertHandlers{
		broadcaster: broadcaster,
		logger:      logger,
	}
}

// Subscribe handles GET /api/v1/alerts/ws and upgrades the connection to a
// websocket stream of high-risk alerts.
func (h *AlertHandlers) Subscribe(c *gin.Context) {
	if h.broadcaster == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "alert broadcasting is disabled"})
		return
	}

	conn, err := alertUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Alert().Error("Websocket upgrade failed", "error", err.Error())
		return
	}

	client := &messaging.AlertClient{
		Conn: conn,
		Send: make(chan []byte, config.AlertBufferPerConn),
	}
	h.broadcaster.Register(client)

	go h.writePump(client)
	go h.readPump(client)
}

// writePump drains the client's send queue onto the wire.
func (h *AlertHandlers) writePump(client *messaging.AlertClient) {
	defer client.Conn.Close()
	for message := range client.Send {
		if err := client.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
}

// readPump discards inbound frames and unregisters on disconnect.
func (h *AlertHandlers) readPump(client *messaging.AlertClient) {
	defer func() {
		h.broadcaster.Unregister(client)
		client.Conn.Close()
	}()
	for {
		if _, _, err := client.Conn.ReadMessage(); err != nil {
			return
		}
	}
}
