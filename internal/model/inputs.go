package model

import (
	"errors"
	"fmt"
	"math"
)

// ErrOutOfDomain is returned by Validate for inputs assembled outside the
// bounded controls (e.g. CLI flags).
var ErrOutOfDomain = errors.New("input out of domain")

// Control bounds and defaults.
const (
	MinTemperatureC  = -10.0
	MaxTemperatureC  = 50.0
	TemperatureStepC = 0.1

	temperatureStepsPerDegree = 10

	MinHouseholdSize     = 1
	MaxHouseholdSize     = 10
	DefaultHouseholdSize = 4

	MinHour     = 0
	MaxHour     = 23
	DefaultHour = 12

	MinMonth     = 1
	MaxMonth     = 12
	DefaultMonth = 6

	// HoursPerDay is the length of the hourly sweep.
	HoursPerDay = 24
)

// DefaultTemperatureC is the initial value of the temperature control, its minimum.
const DefaultTemperatureC = MinTemperatureC

// FeatureRecord is one row of model input.
type FeatureRecord struct {
	ApplianceType       ApplianceType
	Season              Season
	OutdoorTemperatureC float64
	HouseholdSize       int
	Hour                int
	Month               int
}

// Inputs is the live state of the six form controls. The setters keep every
// field inside its domain, so an Inputs value built through them can always
// be fed to the feature assembler.
type Inputs struct {
	Appliance     ApplianceType `json:"appliance"`
	Season        Season        `json:"season"`
	TemperatureC  float64       `json:"temperature_c"`
	HouseholdSize int           `json:"household_size"`
	Hour          int           `json:"hour"`
	Month         int           `json:"month"`
}

// DefaultInputs returns the controls' initial values.
func DefaultInputs() Inputs {
	return Inputs{
		Appliance:     Appliances[0],
		Season:        Seasons[0],
		TemperatureC:  DefaultTemperatureC,
		HouseholdSize: DefaultHouseholdSize,
		Hour:          DefaultHour,
		Month:         DefaultMonth,
	}
}

// SetAppliance selects an appliance by its spelling. Unknown spellings leave
// the selection unchanged.
func (in *Inputs) SetAppliance(s string) error {
	a, err := ParseAppliance(s)
	if err != nil {
		return err
	}
	in.Appliance = a
	return nil
}

// SetSeason selects a season by its spelling. Unknown spellings leave the
// selection unchanged.
func (in *Inputs) SetSeason(s string) error {
	v, err := ParseSeason(s)
	if err != nil {
		return err
	}
	in.Season = v
	return nil
}

// SetTemperature clamps c into [-10, 50] and snaps it to 0.1 °C.
func (in *Inputs) SetTemperature(c float64) {
	if math.IsNaN(c) {
		return
	}
	in.TemperatureC = SnapTemperature(c)
}

func (in *Inputs) SetHouseholdSize(n int) {
	in.HouseholdSize = clampInt(n, MinHouseholdSize, MaxHouseholdSize)
}

func (in *Inputs) SetHour(h int) {
	in.Hour = clampInt(h, MinHour, MaxHour)
}

func (in *Inputs) SetMonth(m int) {
	in.Month = clampInt(m, MinMonth, MaxMonth)
}

// Validate reports the first field outside its domain.
func (in Inputs) Validate() error {
	switch {
	case !in.Appliance.Valid():
		return fmt.Errorf("%w: %q", ErrUnknownAppliance, in.Appliance)
	case !in.Season.Valid():
		return fmt.Errorf("%w: %q", ErrUnknownSeason, in.Season)
	case math.IsNaN(in.TemperatureC) || in.TemperatureC < MinTemperatureC || in.TemperatureC > MaxTemperatureC:
		return fmt.Errorf("%w: temperature %.1f not in [%.0f, %.0f]", ErrOutOfDomain, in.TemperatureC, MinTemperatureC, MaxTemperatureC)
	case in.HouseholdSize < MinHouseholdSize || in.HouseholdSize > MaxHouseholdSize:
		return fmt.Errorf("%w: household size %d not in [%d, %d]", ErrOutOfDomain, in.HouseholdSize, MinHouseholdSize, MaxHouseholdSize)
	case in.Hour < MinHour || in.Hour > MaxHour:
		return fmt.Errorf("%w: hour %d not in [%d, %d]", ErrOutOfDomain, in.Hour, MinHour, MaxHour)
	case in.Month < MinMonth || in.Month > MaxMonth:
		return fmt.Errorf("%w: month %d not in [%d, %d]", ErrOutOfDomain, in.Month, MinMonth, MaxMonth)
	}
	return nil
}

// SnapTemperature clamps c into the temperature domain and rounds it to the
// control's 0.1 °C step.
func SnapTemperature(c float64) float64 {
	c = math.Max(MinTemperatureC, math.Min(MaxTemperatureC, c))
	return math.Round(c*temperatureStepsPerDegree) / temperatureStepsPerDegree
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
