package ws

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"energy_forecaster/internal/forecast"
	"energy_forecaster/internal/model"
	"energy_forecaster/pkg/logger"
)

func TestNewEnvelope(t *testing.T) {
	payload := InputSetPayload{Field: "hour", Value: 7.0}

	msg, err := NewEnvelope(TypeInputSet, payload)
	require.NoError(t, err)

	var env Envelope
	err = json.Unmarshal(msg, &env)
	require.NoError(t, err)

	assert.Equal(t, TypeInputSet, env.Type)

	var parsed InputSetPayload
	err = json.Unmarshal(env.Payload, &parsed)
	require.NoError(t, err)

	assert.Equal(t, "hour", parsed.Field)
	assert.Equal(t, 7.0, parsed.Value)
}

func TestNewEnvelope_NoPayload(t *testing.T) {
	msg, err := NewEnvelope(TypePredictRun, nil)
	require.NoError(t, err)

	var env Envelope
	err = json.Unmarshal(msg, &env)
	require.NoError(t, err)

	assert.Equal(t, TypePredictRun, env.Type)
	assert.Nil(t, env.Payload)
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub := NewHub()

	c := &Client{
		hub:  hub,
		send: make(chan []byte, 16),
	}

	hub.Register(c)
	assert.Equal(t, 1, hub.ClientCount())

	hub.Unregister(c)
	assert.Equal(t, 0, hub.ClientCount())

	_, open := <-c.send
	assert.False(t, open, "unregister closes the send queue")

	assert.NotPanics(t, func() { hub.Unregister(c) }, "second unregister is a no-op")
}

func TestClient_SendDropsWhenFull(t *testing.T) {
	c := &Client{send: make(chan []byte, 1), log: logger.Nop()}

	c.Send([]byte("a"))
	c.Send([]byte("b"))

	assert.Equal(t, []byte("a"), <-c.send)
	assert.Empty(t, c.send)
}

func TestFormSchema(t *testing.T) {
	s := FormSchema()

	require.Len(t, s.Appliances, len(model.Appliances))
	assert.Equal(t, "Fridge", s.Appliances[0])
	assert.Contains(t, s.Appliances, "Air Conditioning")
	assert.Contains(t, s.Appliances, "Washing Machine")
	assert.Equal(t, []string{"Spring", "Summer", "Fall", "Winter"}, s.Seasons)
	assert.Equal(t, []string{"appliance", "season", "temperature_c", "household_size", "hour", "month"}, s.Fields)

	assert.Equal(t, NumericControl{Min: -10, Max: 50, Step: 0.1, Default: -10}, s.Temperature)
	assert.Equal(t, NumericControl{Min: 1, Max: 10, Step: 1, Default: 4}, s.HouseholdSize)
	assert.Equal(t, NumericControl{Min: 0, Max: 23, Step: 1, Default: 12}, s.Hour)
	assert.Equal(t, NumericControl{Min: 1, Max: 12, Step: 1, Default: 6}, s.Month)

	assert.Equal(t, 0.0, s.GaugeMin)
	assert.Equal(t, 10.0, s.GaugeMax)
	assert.Equal(t, forecast.Bands, s.Bands)
	s.Bands[0].Color = "#000000"
	assert.NotEqual(t, "#000000", forecast.Bands[0].Color)
}

func TestMessageTypes(t *testing.T) {
	assert.Equal(t, "input:set", TypeInputSet)
	assert.Equal(t, "predict:run", TypePredictRun)
	assert.Equal(t, "form:schema", TypeFormSchema)
	assert.Equal(t, "session:state", TypeSessionState)
	assert.Equal(t, "input:rejected", TypeInputRejected)
	assert.Equal(t, "prediction:result", TypePredictionResult)
	assert.Equal(t, "prediction:error", TypePredictionError)
}
