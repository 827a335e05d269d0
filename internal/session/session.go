// Package session holds the per-page form state and drives predictions
// from discrete user events.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/google/uuid"

	"energy_forecaster/internal/forecast"
	"energy_forecaster/internal/model"
	"energy_forecaster/pkg/logger"
)

var (
	ErrUnknownField = errors.New("unknown input field")
	ErrInvalidValue = errors.New("invalid input value")
)

// Input field names accepted by SetInput.
const (
	FieldAppliance     = "appliance"
	FieldSeason        = "season"
	FieldTemperature   = "temperature_c"
	FieldHouseholdSize = "household_size"
	FieldHour          = "hour"
	FieldMonth         = "month"
)

// Fields lists the input fields in form order.
var Fields = []string{
	FieldAppliance,
	FieldSeason,
	FieldTemperature,
	FieldHouseholdSize,
	FieldHour,
	FieldMonth,
}

// State is the form lifecycle state.
type State int

const (
	Idle State = iota
	Collecting
	Triggered
	Computed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Collecting:
		return "collecting"
	case Triggered:
		return "triggered"
	case Computed:
		return "computed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Snapshot is the externally visible session state.
type Snapshot struct {
	State  State        `json:"state"`
	Inputs model.Inputs `json:"inputs"`
}

// Callback receives session events.
type Callback interface {
	OnState(snap Snapshot)
	OnResult(bundle forecast.DisplayBundle)
	OnError(err error)
}

// Runner produces a display bundle for the current inputs.
type Runner interface {
	Run(in model.Inputs) (forecast.DisplayBundle, error)
}

// Observer counts user events.
type Observer interface {
	ObserveTrigger(kwh float64, err error)
	ObserveInputChange()
}

type nopObserver struct{}

func (nopObserver) ObserveTrigger(float64, error) {}
func (nopObserver) ObserveInputChange()           {}

// Session is the state of one connected form.
type Session struct {
	mu       sync.Mutex
	id       string
	inputs   model.Inputs
	state    State
	result   *forecast.DisplayBundle
	runner   Runner
	callback Callback
	observer Observer
	log      logger.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithObserver attaches an event observer.
func WithObserver(o Observer) Option {
	return func(s *Session) {
		if o != nil {
			s.observer = o
		}
	}
}

// WithLogger sets the session logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// New returns an Idle session holding the default inputs.
func New(r Runner, cb Callback, opts ...Option) *Session {
	s := &Session{
		id:       uuid.New().String(),
		inputs:   model.DefaultInputs(),
		state:    Idle,
		runner:   r,
		callback: cb,
		observer: nopObserver{},
		log:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(logger.String("session", s.id))
	return s
}

func (s *Session) ID() string { return s.id }

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Inputs returns a copy of the current selection.
func (s *Session) Inputs() model.Inputs {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inputs
}

// Snapshot returns the current state and inputs.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{State: s.state, Inputs: s.inputs}
}

// Result returns the bundle of the last successful prediction, if it is
// still current.
func (s *Session) Result() (forecast.DisplayBundle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return forecast.DisplayBundle{}, false
	}
	return *s.result, true
}

// SetInput applies one control change. Numeric values are clamped into
// their domain. A rejected change leaves the session untouched.
// Accepted changes move the session to Collecting and discard any result.
func (s *Session) SetInput(field string, value any) error {
	s.mu.Lock()
	if err := s.apply(field, value); err != nil {
		s.mu.Unlock()
		s.log.Debug(context.Background(), "input rejected", logger.String("field", field), logger.Error(err))
		return err
	}
	s.state = Collecting
	s.result = nil
	snap := Snapshot{State: s.state, Inputs: s.inputs}
	s.mu.Unlock()

	s.observer.ObserveInputChange()
	s.callback.OnState(snap)
	return nil
}

func (s *Session) apply(field string, value any) error {
	switch field {
	case FieldAppliance, FieldSeason:
		str, ok := value.(string)
		if !ok {
			return fmt.Errorf("%w: %s expects a string, got %T", ErrInvalidValue, field, value)
		}
		if field == FieldAppliance {
			return s.inputs.SetAppliance(str)
		}
		return s.inputs.SetSeason(str)
	case FieldTemperature:
		f, err := toFloat(value)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidValue, field, err)
		}
		s.inputs.SetTemperature(f)
	case FieldHouseholdSize, FieldHour, FieldMonth:
		f, err := toFloat(value)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidValue, field, err)
		}
		n := int(math.Round(f))
		switch field {
		case FieldHouseholdSize:
			s.inputs.SetHouseholdSize(n)
		case FieldHour:
			s.inputs.SetHour(n)
		default:
			s.inputs.SetMonth(n)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

// Predict handles a predict press: it runs both model calls for the
// current inputs and publishes the bundle. On failure the result is
// cleared, the error is reported through the callback and returned, and
// the session goes back to where it was before the press.
func (s *Session) Predict() error {
	s.mu.Lock()
	prior := s.state
	in := s.inputs
	s.state = Triggered
	s.result = nil
	s.mu.Unlock()

	s.callback.OnState(Snapshot{State: Triggered, Inputs: in})

	bundle, err := s.runner.Run(in)

	s.mu.Lock()
	if err != nil {
		s.state = Collecting
		if prior == Idle {
			s.state = Idle
		}
	} else {
		s.state = Computed
		s.result = &bundle
	}
	snap := Snapshot{State: s.state, Inputs: s.inputs}
	s.mu.Unlock()

	s.observer.ObserveTrigger(bundle.Prediction, err)
	if err != nil {
		s.log.Warn(context.Background(), "prediction failed", logger.Error(err))
		s.callback.OnError(err)
		s.callback.OnState(snap)
		return err
	}

	s.log.Debug(context.Background(), "prediction computed",
		logger.Float64("kwh", bundle.Prediction),
		logger.String("level", string(bundle.Gauge.Level)))
	s.callback.OnResult(bundle)
	s.callback.OnState(snap)
	return nil
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case json.Number:
		return n.Float64()
	}
	return 0, fmt.Errorf("expected a number, got %T", v)
}
