package model

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownAppliance = errors.New("unknown appliance type")
	ErrUnknownSeason    = errors.New("unknown season")
)

// ApplianceType is the categorical appliance column. The string value is the
// exact spelling the model was trained on.
type ApplianceType string

const (
	ApplianceFridge          ApplianceType = "Fridge"
	ApplianceOven            ApplianceType = "Oven"
	ApplianceDishwasher      ApplianceType = "Dishwasher"
	ApplianceHeater          ApplianceType = "Heater"
	ApplianceMicrowave       ApplianceType = "Microwave"
	ApplianceAirConditioning ApplianceType = "Air Conditioning"
	ApplianceComputer        ApplianceType = "Computer"
	ApplianceTV              ApplianceType = "TV"
	ApplianceWashingMachine  ApplianceType = "Washing Machine"
	ApplianceLights          ApplianceType = "Lights"
)

// Appliances lists every appliance in selector order. The first entry is the default.
var Appliances = []ApplianceType{
	ApplianceFridge,
	ApplianceOven,
	ApplianceDishwasher,
	ApplianceHeater,
	ApplianceMicrowave,
	ApplianceAirConditioning,
	ApplianceComputer,
	ApplianceTV,
	ApplianceWashingMachine,
	ApplianceLights,
}

// Season is the categorical season column.
type Season string

const (
	SeasonSpring Season = "Spring"
	SeasonSummer Season = "Summer"
	SeasonFall   Season = "Fall"
	SeasonWinter Season = "Winter"
)

// Seasons lists every season in selector order. The first entry is the default.
var Seasons = []Season{SeasonSpring, SeasonSummer, SeasonFall, SeasonWinter}

// ParseAppliance returns the appliance with the given spelling.
func ParseAppliance(s string) (ApplianceType, error) {
	for _, a := range Appliances {
		if string(a) == s {
			return a, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAppliance, s)
}

// ParseSeason returns the season with the given spelling.
func ParseSeason(s string) (Season, error) {
	for _, v := range Seasons {
		if string(v) == s {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSeason, s)
}

// Valid reports whether a is a catalog member.
func (a ApplianceType) Valid() bool {
	_, err := ParseAppliance(string(a))
	return err == nil
}

// Valid reports whether s is a catalog member.
func (s Season) Valid() bool {
	_, err := ParseSeason(string(s))
	return err == nil
}
