package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"energy_forecaster/internal/model"
)

func sampleInputs() model.Inputs {
	return model.Inputs{
		Appliance:     model.ApplianceFridge,
		Season:        model.SeasonSummer,
		TemperatureC:  25.0,
		HouseholdSize: 4,
		Hour:          12,
		Month:         6,
	}
}

func TestColumns(t *testing.T) {
	assert.Equal(t, []string{
		"Appliance Type",
		"Season",
		"Outdoor Temperature (°C)",
		"Household Size",
		"Hour",
		"Month",
	}, Columns)
}

func TestBuildSingle_IdentityMapping(t *testing.T) {
	for _, a := range model.Appliances {
		for _, s := range model.Seasons {
			in := sampleInputs()
			in.Appliance = a
			in.Season = s
			in.TemperatureC = -3.7
			in.HouseholdSize = 9
			in.Hour = 23
			in.Month = 1

			r := BuildSingle(in)
			assert.Equal(t, a, r.ApplianceType)
			assert.Equal(t, s, r.Season)
			assert.Equal(t, -3.7, r.OutdoorTemperatureC)
			assert.Equal(t, 9, r.HouseholdSize)
			assert.Equal(t, 23, r.Hour)
			assert.Equal(t, 1, r.Month)
		}
	}
}

func TestBuildHourlySweep(t *testing.T) {
	in := sampleInputs()
	in.Hour = 7 // the selected hour must not leak into the sweep

	sweep := BuildHourlySweep(in)
	require.Len(t, sweep, 24)

	for i, r := range sweep {
		assert.Equal(t, i, r.Hour, "row %d", i)
		assert.Equal(t, in.Appliance, r.ApplianceType)
		assert.Equal(t, in.Season, r.Season)
		assert.Equal(t, in.TemperatureC, r.OutdoorTemperatureC)
		assert.Equal(t, in.HouseholdSize, r.HouseholdSize)
		assert.Equal(t, in.Month, r.Month)
	}
}

func TestBuildHourlySweep_DoesNotMutateInputs(t *testing.T) {
	in := sampleInputs()
	before := in
	_ = BuildHourlySweep(in)
	assert.Equal(t, before, in)
}

func TestEncode(t *testing.T) {
	f := Encode(BuildSingle(sampleInputs()))

	assert.Equal(t, Columns, f.Columns)
	require.Equal(t, 1, f.Len())
	assert.Equal(t, []any{"Fridge", "Summer", 25.0, 4, 12, 6}, f.Rows[0])
}

func TestEncode_SweepKeepsOrder(t *testing.T) {
	f := Encode(BuildHourlySweep(sampleInputs())...)
	require.Equal(t, 24, f.Len())
	for i, row := range f.Rows {
		require.Len(t, row, len(Columns))
		assert.Equal(t, i, row[4], "hour cell of row %d", i)
	}
}

func TestEncode_ColumnsAreACopy(t *testing.T) {
	f := Encode()
	f.Columns[0] = "changed"
	assert.Equal(t, "Appliance Type", Columns[0])
	assert.Equal(t, 0, f.Len())
}
