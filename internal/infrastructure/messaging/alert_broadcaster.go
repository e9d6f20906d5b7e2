// Package messaging pushes high-risk verdicts to subscribed downstream
// consumers over websocket connections.
package messaging

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/AtRiskMedia/crosstrace-go/internal/domain/insights"
	"github.com/AtRiskMedia/crosstrace-go/internal/infrastructure/observability/logging"
	"github.com/gorilla/websocket"
)

// AlertClient represents a single connected alert consumer.
type AlertClient struct {
	Conn *websocket.Conn
	Send chan []byte
}

// AlertBroadcaster manages connected consumers and fans high-risk alerts
// out to them. Delivery is best effort; a slow consumer drops messages
// rather than blocking the engine.
type AlertBroadcaster struct {
	clients    map[*AlertClient]bool
	register   chan *AlertClient
	unregister chan *AlertClient
	alerts     chan insights.RiskAlert
	logger     *logging.ChanneledLogger
	mu         sync.RWMutex
}

// NewAlertBroadcaster creates a new broadcaster instance.
func NewAlertBroadcaster(logger *logging.ChanneledLogger) *AlertBroadcaster {
	return &AlertBroadcaster{
		clients:    make(map[*AlertClient]bool),
		register:   make(chan *AlertClient),
		unregister: make(chan *AlertClient),
		alerts:     make(chan insights.RiskAlert, 64),
		logger:     logger,
	}
}

// Run starts the broadcaster's main loop. This should be run as a goroutine.
func (b *AlertBroadcaster) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			b.closeAll()
			return

		case client := <-b.register:
			b.mu.Lock()
			b.clients[client] = true
			b.mu.Unlock()
			b.logger.Alert().Info("Alert consumer registered", "consumers", b.consumerCount())

		case client := <-b.unregister:
			b.mu.Lock()
			if _, ok := b.clients[client]; ok {
				delete(b.clients, client)
				close(client.Send)
			}
			b.mu.Unlock()
			b.logger.Alert().Info("Alert consumer unregistered", "consumers", b.consumerCount())

		case alert := <-b.alerts:
			b.broadcast(alert)
		}
	}
}

// Register queues a client for registration.
func (b *AlertBroadcaster) Register(client *AlertClient) {
	b.register <- client
}

// Unregister queues a client for unregistration.
func (b *AlertBroadcaster) Unregister(client *AlertClient) {
	b.unregister <- client
}

// PublishHighRisk queues one alert for broadcast. Never blocks; when the
// queue is full the alert is dropped and logged.
func (b *AlertBroadcaster) PublishHighRisk(alert insights.RiskAlert) {
	select {
	case b.alerts <- alert:
	default:
		b.logger.Alert().Warn("Alert queue full - dropping alert", "alertId", alert.AlertID, "fingerprintId", alert.FingerprintID)
	}
}

// broadcast fans one alert out to every connected consumer.
func (b *AlertBroadcaster) broadcast(alert insights.RiskAlert) {
	start := time.Now()

	message, err := json.Marshal(alert)
	if err != nil {
		b.logger.Alert().Error("Failed to marshal alert", "alertId", alert.AlertID, "error", err.Error())
		return
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	var delivered int
	for client := range b.clients {
		select {
		case client.Send <- message:
			delivered++
		default:
			// Slow consumer; skip rather than block the loop.
		}
	}

	b.logger.Alert().Info("High-risk alert broadcast",
		"alertId", alert.AlertID, "fingerprintId", alert.FingerprintID,
		"delivered", delivered, "duration", time.Since(start))
}

func (b *AlertBroadcaster) consumerCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}

func (b *AlertBroadcaster) closeAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for client := range b.clients {
		close(client.Send)
		delete(b.clients, client)
	}
	b.logger.Alert().Info("Alert broadcaster stopped")
}
