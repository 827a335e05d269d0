// Package forecast orchestrates model invocations for one prediction request
// and turns the raw outputs into display artifacts.
package forecast

import (
	"errors"
	"fmt"
	"time"

	"energy_forecaster/internal/features"
	"energy_forecaster/internal/model"
	"energy_forecaster/internal/predictor"
)

// Invocation kinds reported to the Recorder.
const (
	KindSingle = "single"
	KindSweep  = "sweep"
)

// Model is the black-box regressor: one value per frame row, same order.
type Model interface {
	Predict(frame features.Frame) ([]float64, error)
}

// Recorder observes model invocations.
type Recorder interface {
	ObserveInvocation(kind string, rows int, d time.Duration, err error)
}

type nopRecorder struct{}

func (nopRecorder) ObserveInvocation(string, int, time.Duration, error) {}

// Service runs predictions against a model loaded once at startup.
type Service struct {
	model    Model
	recorder Recorder
	now      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithRecorder attaches an invocation observer.
func WithRecorder(r Recorder) Option {
	return func(s *Service) {
		if r != nil {
			s.recorder = r
		}
	}
}

func New(m Model, opts ...Option) *Service {
	s := &Service{
		model:    m,
		recorder: nopRecorder{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PredictSingle runs a one-row batch and returns its only value.
func (s *Service) PredictSingle(r model.FeatureRecord) (float64, error) {
	out, err := s.invoke(KindSingle, []model.FeatureRecord{r})
	if err != nil {
		return 0, err
	}
	return out[0], nil
}

// PredictSweep runs the 24-row batch. Index i of the result is hour i.
func (s *Service) PredictSweep(table []model.FeatureRecord) ([]float64, error) {
	return s.invoke(KindSweep, table)
}

// Run predicts the current selection and its hourly sweep, then presents
// them. Either both calls succeed and a full bundle is returned, or nothing is.
func (s *Service) Run(in model.Inputs) (DisplayBundle, error) {
	single := features.BuildSingle(in)
	sweep := features.BuildHourlySweep(in)

	scalar, err := s.PredictSingle(single)
	if err != nil {
		return DisplayBundle{}, err
	}
	hourly, err := s.PredictSweep(sweep)
	if err != nil {
		return DisplayBundle{}, err
	}
	return Present(scalar, hourly), nil
}

func (s *Service) invoke(kind string, records []model.FeatureRecord) ([]float64, error) {
	frame := features.Encode(records...)

	start := s.now()
	out, err := s.model.Predict(frame)
	if err == nil && len(out) != frame.Len() {
		err = fmt.Errorf("%w: model returned %d values for %d rows", predictor.ErrModelInvocation, len(out), frame.Len())
	}
	if err != nil && !errors.Is(err, predictor.ErrModelInvocation) {
		err = fmt.Errorf("%w: %w", predictor.ErrModelInvocation, err)
	}
	s.recorder.ObserveInvocation(kind, frame.Len(), s.now().Sub(start), err)
	if err != nil {
		return nil, fmt.Errorf("%s prediction: %w", kind, err)
	}
	return out, nil
}
