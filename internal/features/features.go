// Package features assembles model input rows from the form inputs and
// serializes them into the named tabular layout the model was trained on.
package features

import "energy_forecaster/internal/model"

// Column names in training-time order. Any drift in spelling or order makes
// the model reject or silently mispredict the rows.
const (
	ColumnAppliance     = "Appliance Type"
	ColumnSeason        = "Season"
	ColumnTemperature   = "Outdoor Temperature (°C)"
	ColumnHouseholdSize = "Household Size"
	ColumnHour          = "Hour"
	ColumnMonth         = "Month"
)

// Columns is the ordered feature schema.
var Columns = []string{
	ColumnAppliance,
	ColumnSeason,
	ColumnTemperature,
	ColumnHouseholdSize,
	ColumnHour,
	ColumnMonth,
}

// Frame is a batch of rows in the model's tabular layout. Categorical cells
// hold string, temperature holds float64 and the integer columns hold int.
type Frame struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// Len returns the number of rows.
func (f Frame) Len() int {
	return len(f.Rows)
}

// BuildSingle maps the current inputs to one feature record.
func BuildSingle(in model.Inputs) model.FeatureRecord {
	return model.FeatureRecord{
		ApplianceType:       in.Appliance,
		Season:              in.Season,
		OutdoorTemperatureC: in.TemperatureC,
		HouseholdSize:       in.HouseholdSize,
		Hour:                in.Hour,
		Month:               in.Month,
	}
}

// BuildHourlySweep returns one record per hour 0..23 in ascending order,
// with every other field copied from the current inputs.
func BuildHourlySweep(in model.Inputs) []model.FeatureRecord {
	base := BuildSingle(in)
	sweep := make([]model.FeatureRecord, model.HoursPerDay)
	for h := range sweep {
		r := base
		r.Hour = h
		sweep[h] = r
	}
	return sweep
}

// Encode serializes records into a Frame with the fixed column order.
func Encode(records ...model.FeatureRecord) Frame {
	cols := make([]string, len(Columns))
	copy(cols, Columns)

	rows := make([][]any, len(records))
	for i, r := range records {
		rows[i] = []any{
			string(r.ApplianceType),
			string(r.Season),
			r.OutdoorTemperatureC,
			r.HouseholdSize,
			r.Hour,
			r.Month,
		}
	}
	return Frame{Columns: cols, Rows: rows}
}
