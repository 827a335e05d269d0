package predictor

import (
	"encoding/json"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNetwork_ForwardDimensions(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 0))
	net := NewNetwork([]int{5, 32, 16, 1}, rng)

	input := []float64{0.1, 0.2, 0.3, 0.4, 0.5}
	output := net.Forward(input)

	assert.Len(t, output, 1, "output should have 1 element")
	assert.False(t, math.IsNaN(output[0]), "output should not be NaN")
	assert.Equal(t, 5, net.InputSize())
	assert.Equal(t, 1, net.OutputSize())
	assert.NoError(t, net.Validate())
}

func TestNetwork_ForwardKnownValues(t *testing.T) {
	// 2 -> 2 (ReLU) -> 1 (linear)
	net := &Network{Layers: []Layer{
		{Weights: [][]float64{{1, 1}, {-1, 0}}, Biases: []float64{0, 0.5}},
		{Weights: [][]float64{{2, 3}}, Biases: []float64{-1}},
	}}

	// hidden = relu([3, -0.5]) = [3, 0]; out = 2*3 + 3*0 - 1 = 5
	assert.InDelta(t, 5.0, net.Forward([]float64{1, 2})[0], 1e-12)

	// hidden = relu([-2, 1.5]) = [0, 1.5]; out = 0 + 4.5 - 1 = 3.5
	assert.InDelta(t, 3.5, net.Forward([]float64{-1, -1})[0], 1e-12)
}

func TestNetwork_ForwardIsPure(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 0))
	net := NewNetwork([]int{3, 8, 1}, rng)

	before, err := json.Marshal(net)
	require.NoError(t, err)

	a := net.Forward([]float64{0.5, -0.3, 0.8})[0]
	b := net.Forward([]float64{0.5, -0.3, 0.8})[0]
	assert.Equal(t, a, b)

	after, err := json.Marshal(net)
	require.NoError(t, err)
	assert.JSONEq(t, string(before), string(after))
}

func TestNetwork_SaveLoadRoundtrip(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 0))
	net := NewNetwork([]int{5, 32, 16, 1}, rng)

	input := []float64{0.1, 0.2, 0.3, 0.4, 0.5}
	outputBefore := net.Forward(input)[0]

	data, err := json.Marshal(net)
	require.NoError(t, err)

	var loaded Network
	err = json.Unmarshal(data, &loaded)
	require.NoError(t, err)

	outputAfter := loaded.Forward(input)[0]
	assert.Equal(t, outputBefore, outputAfter, "output should be identical after roundtrip")
}

func TestNetwork_Validate(t *testing.T) {
	tests := []struct {
		name string
		net  Network
	}{
		{"no layers", Network{}},
		{"no neurons", Network{Layers: []Layer{{}}}},
		{"bias count", Network{Layers: []Layer{{Weights: [][]float64{{1}}, Biases: []float64{0, 0}}}}},
		{"ragged weights", Network{Layers: []Layer{{Weights: [][]float64{{1, 2}, {1}}, Biases: []float64{0, 0}}}}},
		{"layer mismatch", Network{Layers: []Layer{
			{Weights: [][]float64{{1}, {1}}, Biases: []float64{0, 0}},
			{Weights: [][]float64{{1, 1, 1}}, Biases: []float64{0}},
		}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.net.Validate())
		})
	}
}
