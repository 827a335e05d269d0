package ws

import (
	"context"

	"energy_forecaster/internal/forecast"
	"energy_forecaster/internal/session"
	"energy_forecaster/pkg/logger"
)

// Bridge implements session.Callback and forwards events to one client.
type Bridge struct {
	client *Client
	id     string
}

func NewBridge(c *Client) *Bridge {
	return &Bridge{client: c}
}

func (b *Bridge) OnState(s session.Snapshot) {
	b.emit(TypeSessionState, SessionStateFromSnapshot(b.id, s))
}

func (b *Bridge) OnResult(bundle forecast.DisplayBundle) {
	b.emit(TypePredictionResult, bundle)
}

func (b *Bridge) OnError(err error) {
	b.emit(TypePredictionError, PredictionErrorPayload{Error: err.Error()})
}

func (b *Bridge) emit(msgType string, payload any) {
	msg, err := NewEnvelope(msgType, payload)
	if err != nil {
		b.client.log.Error(context.Background(), "marshal message",
			logger.String("type", msgType), logger.Error(err))
		return
	}
	b.client.Send(msg)
}
