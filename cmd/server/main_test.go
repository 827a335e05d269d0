package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"energy_forecaster/internal/forecast"
	"energy_forecaster/internal/metrics"
	"energy_forecaster/internal/predictor"
	"energy_forecaster/internal/ws"
)

type fakeCategories map[string][]string

func (f fakeCategories) Categories(column string) []string { return f[column] }

func TestCatalogGaps(t *testing.T) {
	t.Run("bundled model covers every option", func(t *testing.T) {
		cm, err := predictor.LoadModel("../../model/consumption_model.json")
		require.NoError(t, err)
		assert.Empty(t, catalogGaps(cm))
	})

	t.Run("missing options are reported", func(t *testing.T) {
		gaps := catalogGaps(fakeCategories{
			"Appliance Type": {"Fridge", "Oven", "Dishwasher", "Heater", "Microwave", "AC", "Computer", "TV", "Washer", "Lights"},
			"Season":         {"Spring", "Summer", "Autumn", "Winter"},
		})
		assert.Equal(t, []string{
			"Appliance Type=Air Conditioning",
			"Appliance Type=Washing Machine",
			"Season=Fall",
		}, gaps)
	})
}

func TestNewMux(t *testing.T) {
	cm, err := predictor.LoadModel("../../model/consumption_model.json")
	require.NoError(t, err)
	mgr := metrics.NewManager()
	handler := ws.NewHandler(ws.NewHub(), forecast.New(cm, forecast.WithRecorder(mgr)), ws.WithMetrics(mgr))

	get := func(mux http.Handler, path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("GET", path, nil))
		return rec
	}

	t.Run("health", func(t *testing.T) {
		rec := get(newMux(handler, mgr.Handler(), ""), "/health")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ok\n", rec.Body.String())
	})

	t.Run("metrics enabled", func(t *testing.T) {
		mgr.ObserveInputChange()
		rec := get(newMux(handler, mgr.Handler(), ""), "/metrics")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, strings.Contains(rec.Body.String(), "energy_forecaster_input_changes_total 1"))
	})

	t.Run("metrics disabled", func(t *testing.T) {
		rec := get(newMux(handler, nil, ""), "/metrics")
		assert.NotContains(t, rec.Body.String(), "energy_forecaster_")
	})

	t.Run("page", func(t *testing.T) {
		rec := get(newMux(handler, nil, ""), "/")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Home Energy Consumption Forecaster")
	})

	t.Run("ws requires upgrade", func(t *testing.T) {
		rec := get(newMux(handler, nil, ""), "/ws")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
