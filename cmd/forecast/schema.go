package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"energy_forecaster/internal/predictor"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Show the model's input columns",
	Long:  `Lists the columns the model artifact expects, in order, with their encodings and vocabularies.`,
	Args:  cobra.NoArgs,
	RunE:  runSchema,
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}

func runSchema(cmd *cobra.Command, args []string) error {
	cm, err := loadModel()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%-2s  %-26s  %-11s  %-8s  %s\n", "#", "Column", "Kind", "Encoding", "Details")
	fmt.Fprintln(out, strings.Repeat("-", 72))
	for i, c := range cm.Columns() {
		fmt.Fprintf(out, "%-2d  %-26s  %-11s  %-8s  %s\n", i, c.Name, c.Kind, c.Encoding, columnDetails(c))
	}
	return nil
}

func columnDetails(c predictor.Column) string {
	switch c.Encoding {
	case predictor.EncodingOneHot:
		return strings.Join(c.Categories, ", ")
	case predictor.EncodingZScore:
		return fmt.Sprintf("mean=%g std=%g", c.Mean, c.Std)
	case predictor.EncodingMinMax:
		return fmt.Sprintf("min=%g max=%g", c.Min, c.Max)
	case predictor.EncodingCyclical:
		return fmt.Sprintf("period=%g offset=%g", c.Period, c.Offset)
	}
	return ""
}
