package forecast

import (
	"fmt"
	"math"
)

// Gauge axis. Predictions are shown against this fixed range whatever the
// model returns.
const (
	GaugeMin = 0.0
	GaugeMax = 10.0
)

// Level is the qualitative usage band.
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// Band is a colored sub-range of the gauge axis.
type Band struct {
	Level Level   `json:"level"`
	Color string  `json:"color"`
	From  float64 `json:"from"`
	To    float64 `json:"to"`
}

// Bands are fixed: [0,3) low, [3,7) medium, [7,10] high.
var Bands = []Band{
	{Level: LevelLow, Color: "#adebad", From: 0, To: 3},
	{Level: LevelMedium, Color: "#ffff99", From: 3, To: 7},
	{Level: LevelHigh, Color: "#ff9999", From: 7, To: 10},
}

// Gauge is the data a gauge widget needs. Value is the raw prediction;
// Needle is Value clamped to the axis so the widget never has to clip.
type Gauge struct {
	Value    float64 `json:"value"`
	Needle   float64 `json:"needle"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Bands    []Band  `json:"bands"`
	Level    Level   `json:"level"`
	Overflow bool    `json:"overflow"`
}

// Series is the 24-point hourly usage curve.
type Series struct {
	Hours []int     `json:"hours"`
	KWh   []float64 `json:"kwh"`
}

// DisplayBundle holds every artifact rendered after a successful prediction.
type DisplayBundle struct {
	Prediction float64 `json:"prediction"`
	Message    string  `json:"message"`
	Gauge      Gauge   `json:"gauge"`
	Series     Series  `json:"series"`
}

// FormatMessage renders the success message with two decimals.
func FormatMessage(kwh float64) string {
	return fmt.Sprintf("Predicted Energy Consumption: %.2f kWh", kwh)
}

// LevelFor classifies a value into its band. Values below the axis count as
// low and values above it as high.
func LevelFor(v float64) Level {
	switch {
	case v < Bands[1].From:
		return LevelLow
	case v < Bands[2].From:
		return LevelMedium
	default:
		return LevelHigh
	}
}

// NewGauge builds the gauge for a prediction.
func NewGauge(v float64) Gauge {
	bands := make([]Band, len(Bands))
	copy(bands, Bands)
	return Gauge{
		Value:    v,
		Needle:   math.Max(GaugeMin, math.Min(GaugeMax, v)),
		Min:      GaugeMin,
		Max:      GaugeMax,
		Bands:    bands,
		Level:    LevelFor(v),
		Overflow: v < GaugeMin || v > GaugeMax,
	}
}

// NewSeries pairs hours 0..n-1 with the sweep predictions, in order.
func NewSeries(sweep []float64) Series {
	s := Series{
		Hours: make([]int, len(sweep)),
		KWh:   make([]float64, len(sweep)),
	}
	for h, v := range sweep {
		s.Hours[h] = h
		s.KWh[h] = v
	}
	return s
}

// Present derives the display bundle from the scalar and sweep predictions.
func Present(scalar float64, sweep []float64) DisplayBundle {
	return DisplayBundle{
		Prediction: scalar,
		Message:    FormatMessage(scalar),
		Gauge:      NewGauge(scalar),
		Series:     NewSeries(sweep),
	}
}
