// forecast predicts appliance energy consumption from the command line using
// the same model artifact as the server.
//
// Usage:
//
//	forecast predict --appliance Heater --season Winter --temp 2.5 --household 3
//	forecast predict --appliance "Air Conditioning" --season Summer --temp 31 --csv
//	forecast schema --model model/consumption_model.json
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
