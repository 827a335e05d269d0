package main

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"energy_forecaster/internal/config"
	"energy_forecaster/internal/predictor"
)

var (
	cfgFile   string
	modelPath string
)

var rootCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Predict home appliance energy consumption",
	Long: `Forecast runs the pretrained consumption model on one set of inputs and
prints the predicted kWh, its gauge band and the simulated 24-hour usage curve.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// .env is optional
		_ = godotenv.Load()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $ENERGY_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&modelPath, "model", "", "model artifact (default from config, model/consumption_model.json)")
}

// getModelPath returns the --model flag or the configured model path.
func getModelPath() (string, error) {
	if modelPath != "" {
		return modelPath, nil
	}
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return "", err
	}
	return cfg.ModelPath, nil
}

// loadModel loads the model artifact.
func loadModel() (*predictor.ConsumptionModel, error) {
	path, err := getModelPath()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return predictor.LoadModel(path)
}
