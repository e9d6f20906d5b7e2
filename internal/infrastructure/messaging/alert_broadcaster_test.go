package messaging

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/AtRiskMedia/crosstrace-go/internal/domain/insights"
	"github.com/AtRiskMedia/crosstrace-go/internal/infrastructure/observability/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(t *testing.T) *logging.ChanneledLogger {
	t.Helper()
	logger, err := logging.NewChanneledLogger(&logging.LoggerConfig{
		OutputToFile:    false,
		OutputToConsole: false,
		DefaultLevel:    slog.Level(12),
		ChannelLevels:   make(map[logging.Channel]slog.Level),
	})
	require.NoError(t, err)
	return logger
}

func receiveAlert(t *testing.T, client *AlertClient) insights.RiskAlert {
	t.Helper()
	select {
	case message := <-client.Send:
		var alert insights.RiskAlert
		require.NoError(t, json.Unmarshal(message, &alert))
		return alert
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for alert")
		return insights.RiskAlert{}
	}
}

func TestBroadcasterDeliversToSubscribers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := NewAlertBroadcaster(newTestLogger(t))
	go b.Run(ctx)

	first := &AlertClient{Send: make(chan []byte, 4)}
	second := &AlertClient{Send: make(chan []byte, 4)}
	b.Register(first)
	b.Register(second)

	published := insights.RiskAlert{
		AlertID:       "alert-1",
		FingerprintID: "fp-risky",
		OverallRisk:   insights.RiskHigh,
		FraudRisk:     0.7,
		ComputedAt:    time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	b.PublishHighRisk(published)

	assert.Equal(t, published, receiveAlert(t, first))
	assert.Equal(t, published, receiveAlert(t, second))
}

func TestBroadcasterSkipsUnregisteredClient(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := NewAlertBroadcaster(newTestLogger(t))
	go b.Run(ctx)

	staying := &AlertClient{Send: make(chan []byte, 4)}
	leaving := &AlertClient{Send: make(chan []byte, 4)}
	b.Register(staying)
	b.Register(leaving)
	b.Unregister(leaving)

	b.PublishHighRisk(insights.RiskAlert{AlertID: "alert-1", FingerprintID: "fp-1"})
	receiveAlert(t, staying)

	// The unregistered client's channel was closed without a delivery.
	message, open := <-leaving.Send
	assert.False(t, open)
	assert.Nil(t, message)
}

func TestBroadcasterShutdownClosesClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	b := NewAlertBroadcaster(newTestLogger(t))
	done := make(chan struct{})
	go func() {
		b.Run(ctx)
		close(done)
	}()

	client := &AlertClient{Send: make(chan []byte, 4)}
	b.Register(client)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("broadcaster did not stop")
	}

	_, open := <-client.Send
	assert.False(t, open)
}

func TestPublishHighRiskNeverBlocks(t *testing.T) {
	// No Run loop draining the queue; publishing past the buffer must drop
	// instead of hanging.
	b := NewAlertBroadcaster(newTestLogger(t))

	finished := make(chan struct{})
	go func() {
		for i := 0; i < 200; i++ {
			b.PublishHighRisk(insights.RiskAlert{AlertID: "alert", FingerprintID: "fp-1"})
		}
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("PublishHighRisk blocked")
	}
}
