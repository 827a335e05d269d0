package ws

import (
	"encoding/json"

	"energy_forecaster/internal/forecast"
	"energy_forecaster/internal/model"
	"energy_forecaster/internal/session"
)

// Envelope wraps all WebSocket messages with a type discriminator.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Message type constants
const (
	// Client -> Server
	TypeInputSet   = "input:set"
	TypePredictRun = "predict:run"

	// Server -> Client
	TypeFormSchema       = "form:schema"
	TypeSessionState     = "session:state"
	TypeInputRejected    = "input:rejected"
	TypePredictionResult = "prediction:result"
	TypePredictionError  = "prediction:error"
)

// Client -> Server messages

type InputSetPayload struct {
	Field string `json:"field"`
	Value any    `json:"value"`
}

// Server -> Client messages

type NumericControl struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Step    float64 `json:"step"`
	Default float64 `json:"default"`
}

type FormSchemaPayload struct {
	Fields        []string        `json:"fields"`
	Appliances    []string        `json:"appliances"`
	Seasons       []string        `json:"seasons"`
	Temperature   NumericControl  `json:"temperature_c"`
	HouseholdSize NumericControl  `json:"household_size"`
	Hour          NumericControl  `json:"hour"`
	Month         NumericControl  `json:"month"`
	GaugeMin      float64         `json:"gauge_min"`
	GaugeMax      float64         `json:"gauge_max"`
	Bands         []forecast.Band `json:"bands"`
}

type SessionStatePayload struct {
	SessionID string       `json:"session_id"`
	State     string       `json:"state"`
	Inputs    model.Inputs `json:"inputs"`
}

type InputRejectedPayload struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

type PredictionErrorPayload struct {
	Error string `json:"error"`
}

func NewEnvelope(msgType string, payload any) ([]byte, error) {
	var raw json.RawMessage
	if payload != nil {
		var err error
		raw, err = json.Marshal(payload)
		if err != nil {
			return nil, err
		}
	}
	return json.Marshal(Envelope{Type: msgType, Payload: raw})
}

// FormSchema describes the controls the page must render.
func FormSchema() FormSchemaPayload {
	appliances := make([]string, len(model.Appliances))
	for i, a := range model.Appliances {
		appliances[i] = string(a)
	}
	seasons := make([]string, len(model.Seasons))
	for i, s := range model.Seasons {
		seasons[i] = string(s)
	}
	def := model.DefaultInputs()
	fields := make([]string, len(session.Fields))
	copy(fields, session.Fields)

	return FormSchemaPayload{
		Fields:     fields,
		Appliances: appliances,
		Seasons:    seasons,
		Temperature: NumericControl{
			Min: model.MinTemperatureC, Max: model.MaxTemperatureC,
			Step: model.TemperatureStepC, Default: def.TemperatureC,
		},
		HouseholdSize: NumericControl{
			Min: model.MinHouseholdSize, Max: model.MaxHouseholdSize,
			Step: 1, Default: float64(def.HouseholdSize),
		},
		Hour: NumericControl{
			Min: model.MinHour, Max: model.MaxHour,
			Step: 1, Default: float64(def.Hour),
		},
		Month: NumericControl{
			Min: model.MinMonth, Max: model.MaxMonth,
			Step: 1, Default: float64(def.Month),
		},
		GaugeMin: forecast.GaugeMin,
		GaugeMax: forecast.GaugeMax,
		Bands:    append([]forecast.Band(nil), forecast.Bands...),
	}
}

func SessionStateFromSnapshot(id string, s session.Snapshot) SessionStatePayload {
	return SessionStatePayload{
		SessionID: id,
		State:     s.State.String(),
		Inputs:    s.Inputs,
	}
}
