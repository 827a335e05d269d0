package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"energy_forecaster/internal/forecast"
	"energy_forecaster/internal/model"
)

type predictOptions struct {
	appliance string
	season    string
	temp      float64
	household int
	hour      int
	month     int
	csv       bool
}

func defaultPredictOptions() predictOptions {
	in := model.DefaultInputs()
	return predictOptions{
		appliance: string(in.Appliance),
		season:    string(in.Season),
		temp:      in.TemperatureC,
		household: in.HouseholdSize,
		hour:      in.Hour,
		month:     in.Month,
	}
}

var predictOpts = defaultPredictOptions()

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Predict consumption for one set of inputs",
	Long: `Predicts the consumption for the given inputs and for every hour of the day
with the other inputs held constant. Inputs outside their domain are rejected.`,
	Args: cobra.NoArgs,
	RunE: runPredict,
}

func init() {
	f := predictCmd.Flags()
	f.StringVar(&predictOpts.appliance, "appliance", predictOpts.appliance, "appliance type, e.g. \"Washing Machine\"")
	f.StringVar(&predictOpts.season, "season", predictOpts.season, "season: Spring, Summer, Fall or Winter")
	f.Float64Var(&predictOpts.temp, "temp", predictOpts.temp, "outdoor temperature in °C [-10, 50]")
	f.IntVar(&predictOpts.household, "household", predictOpts.household, "household size [1, 10]")
	f.IntVar(&predictOpts.hour, "hour", predictOpts.hour, "hour of day [0, 23]")
	f.IntVar(&predictOpts.month, "month", predictOpts.month, "month [1, 12]")
	f.BoolVar(&predictOpts.csv, "csv", false, "print the hourly curve as CSV")
	rootCmd.AddCommand(predictCmd)
}

func (o predictOptions) inputs() model.Inputs {
	return model.Inputs{
		Appliance:     model.ApplianceType(o.appliance),
		Season:        model.Season(o.season),
		TemperatureC:  o.temp,
		HouseholdSize: o.household,
		Hour:          o.hour,
		Month:         o.month,
	}
}

func runPredict(cmd *cobra.Command, args []string) error {
	in := predictOpts.inputs()
	if err := in.Validate(); err != nil {
		return err
	}
	in.TemperatureC = model.SnapTemperature(in.TemperatureC)

	cm, err := loadModel()
	if err != nil {
		return err
	}

	bundle, err := forecast.New(cm).Run(in)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if predictOpts.csv {
		writeCSV(out, bundle.Series)
		return nil
	}
	writeReport(out, in, bundle)
	return nil
}

func writeReport(w io.Writer, in model.Inputs, b forecast.DisplayBundle) {
	fmt.Fprintf(w, "%s, %s, %.1f °C, household %d, hour %d, month %d\n",
		in.Appliance, in.Season, in.TemperatureC, in.HouseholdSize, in.Hour, in.Month)
	fmt.Fprintln(w, b.Message)

	g := b.Gauge
	fmt.Fprintf(w, "Gauge: %.2f on [%.0f, %.0f], band %s", g.Value, g.Min, g.Max, g.Level)
	if g.Overflow {
		fmt.Fprint(w, " (off scale)")
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%4s  %8s\n", "Hour", "kWh")
	fmt.Fprintf(w, "%4s  %8s\n", "----", "--------")
	for i, h := range b.Series.Hours {
		fmt.Fprintf(w, "%4d  %8.2f\n", h, b.Series.KWh[i])
	}
}

func writeCSV(w io.Writer, s forecast.Series) {
	fmt.Fprintln(w, "hour,kwh")
	for i, h := range s.Hours {
		fmt.Fprintf(w, "%d,%.4f\n", h, s.KWh[i])
	}
}
