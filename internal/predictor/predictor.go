package predictor

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"slices"

	"energy_forecaster/internal/features"
)

// ColumnKind tells how a frame cell is typed.
type ColumnKind string

const (
	KindCategorical ColumnKind = "categorical"
	KindNumeric     ColumnKind = "numeric"
)

// Encoding tells how a cell is turned into network inputs.
type Encoding string

const (
	EncodingOneHot   Encoding = "onehot"   // one input per category
	EncodingZScore   Encoding = "zscore"   // (v-mean)/std
	EncodingMinMax   Encoding = "minmax"   // (v-min)/(max-min)
	EncodingCyclical Encoding = "cyclical" // sin, cos of 2π(v-offset)/period
)

// Column describes one named input column of the artifact and its encoding.
type Column struct {
	Name       string     `json:"name"`
	Kind       ColumnKind `json:"kind"`
	Encoding   Encoding   `json:"encoding"`
	Categories []string   `json:"categories,omitempty"`
	Mean       float64    `json:"mean,omitempty"`
	Std        float64    `json:"std,omitempty"`
	Min        float64    `json:"min,omitempty"`
	Max        float64    `json:"max,omitempty"`
	Period     float64    `json:"period,omitempty"`
	Offset     float64    `json:"offset,omitempty"`
}

// OutputNormalization maps the network's z-scored output back to kWh.
type OutputNormalization struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
}

// SavedModel is the JSON-serializable model artifact.
type SavedModel struct {
	Columns []Column            `json:"columns"`
	Output  OutputNormalization `json:"output"`
	Network *Network            `json:"network"`
}

// ConsumptionModel is a loaded energy consumption regressor. It is read-only
// after loading and safe for concurrent use.
type ConsumptionModel struct {
	columns []Column
	output  OutputNormalization
	net     *Network
	width   int
}

// Width returns the number of network inputs a column encodes to.
func (c Column) Width() int {
	switch c.Encoding {
	case EncodingOneHot:
		return len(c.Categories)
	case EncodingCyclical:
		return 2
	default:
		return 1
	}
}

func (c Column) validate() error {
	switch c.Kind {
	case KindCategorical:
		if c.Encoding != EncodingOneHot {
			return fmt.Errorf("column %q: categorical columns need %q encoding, got %q", c.Name, EncodingOneHot, c.Encoding)
		}
		if len(c.Categories) == 0 {
			return fmt.Errorf("column %q: empty category list", c.Name)
		}
		seen := make(map[string]bool, len(c.Categories))
		for _, cat := range c.Categories {
			if seen[cat] {
				return fmt.Errorf("column %q: duplicate category %q", c.Name, cat)
			}
			seen[cat] = true
		}
	case KindNumeric:
		switch c.Encoding {
		case EncodingZScore:
			if c.Std <= 0 {
				return fmt.Errorf("column %q: std must be positive", c.Name)
			}
		case EncodingMinMax:
			if c.Max <= c.Min {
				return fmt.Errorf("column %q: max must exceed min", c.Name)
			}
		case EncodingCyclical:
			if c.Period <= 0 {
				return fmt.Errorf("column %q: period must be positive", c.Name)
			}
		default:
			return fmt.Errorf("column %q: unsupported numeric encoding %q", c.Name, c.Encoding)
		}
	default:
		return fmt.Errorf("column %q: unknown kind %q", c.Name, c.Kind)
	}
	return nil
}

// encode appends the network inputs for one cell to dst.
func (c Column) encode(dst []float64, cell any) ([]float64, error) {
	if c.Kind == KindCategorical {
		s, ok := cell.(string)
		if !ok {
			return dst, fmt.Errorf("column %q: want string, got %T", c.Name, cell)
		}
		idx := slices.Index(c.Categories, s)
		if idx < 0 {
			return dst, fmt.Errorf("column %q: unknown category %q", c.Name, s)
		}
		for i := range c.Categories {
			if i == idx {
				dst = append(dst, 1)
			} else {
				dst = append(dst, 0)
			}
		}
		return dst, nil
	}

	v, ok := toFloat(cell)
	if !ok {
		return dst, fmt.Errorf("column %q: want number, got %T", c.Name, cell)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return dst, fmt.Errorf("column %q: non-finite value", c.Name)
	}

	switch c.Encoding {
	case EncodingZScore:
		dst = append(dst, (v-c.Mean)/c.Std)
	case EncodingMinMax:
		dst = append(dst, (v-c.Min)/(c.Max-c.Min))
	case EncodingCyclical:
		angle := 2 * math.Pi * (v - c.Offset) / c.Period
		dst = append(dst, math.Sin(angle), math.Cos(angle))
	}
	return dst, nil
}

// expectedKinds pins the kind of each column the application sends.
var expectedKinds = map[string]ColumnKind{
	features.ColumnAppliance:     KindCategorical,
	features.ColumnSeason:        KindCategorical,
	features.ColumnTemperature:   KindNumeric,
	features.ColumnHouseholdSize: KindNumeric,
	features.ColumnHour:          KindNumeric,
	features.ColumnMonth:         KindNumeric,
}

// ParseModel deserializes and checks a model artifact. Every failure wraps
// ErrModelLoad.
func ParseModel(data []byte) (*ConsumptionModel, error) {
	var m SavedModel
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: decoding artifact: %v", ErrModelLoad, err)
	}

	if len(m.Columns) != len(features.Columns) {
		return nil, fmt.Errorf("%w: artifact has %d columns, want %d", ErrModelLoad, len(m.Columns), len(features.Columns))
	}
	width := 0
	for i, c := range m.Columns {
		if c.Name != features.Columns[i] {
			return nil, fmt.Errorf("%w: column %d is %q, want %q", ErrModelLoad, i, c.Name, features.Columns[i])
		}
		if c.Kind != expectedKinds[c.Name] {
			return nil, fmt.Errorf("%w: column %q is %s, want %s", ErrModelLoad, c.Name, c.Kind, expectedKinds[c.Name])
		}
		if err := c.validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrModelLoad, err)
		}
		width += c.Width()
	}

	if m.Network == nil {
		return nil, fmt.Errorf("%w: artifact has no network", ErrModelLoad)
	}
	if err := m.Network.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelLoad, err)
	}
	if got := m.Network.InputSize(); got != width {
		return nil, fmt.Errorf("%w: network takes %d inputs, columns encode to %d", ErrModelLoad, got, width)
	}
	if got := m.Network.OutputSize(); got != 1 {
		return nil, fmt.Errorf("%w: network emits %d outputs, want 1", ErrModelLoad, got)
	}
	if m.Output.Std == 0 {
		m.Output.Std = 1
	}

	return &ConsumptionModel{
		columns: m.Columns,
		output:  m.Output,
		net:     m.Network,
		width:   width,
	}, nil
}

// LoadModel reads and parses the artifact at path.
func LoadModel(path string) (*ConsumptionModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelLoad, err)
	}
	return ParseModel(data)
}

// Save serializes the model to JSON.
func (m *ConsumptionModel) Save() ([]byte, error) {
	return json.MarshalIndent(SavedModel{
		Columns: m.columns,
		Output:  m.output,
		Network: m.net,
	}, "", "  ")
}

// Columns returns a copy of the artifact's column descriptions.
func (m *ConsumptionModel) Columns() []Column {
	out := make([]Column, len(m.columns))
	copy(out, m.columns)
	return out
}

// Categories returns the vocabulary of a categorical column, or nil.
func (m *ConsumptionModel) Categories(column string) []string {
	for _, c := range m.columns {
		if c.Name == column {
			return slices.Clone(c.Categories)
		}
	}
	return nil
}

// Predict returns one kWh value per frame row, in row order. The whole batch
// fails with ErrModelInvocation if any row violates the schema.
func (m *ConsumptionModel) Predict(frame features.Frame) ([]float64, error) {
	if len(frame.Columns) != len(m.columns) {
		return nil, fmt.Errorf("%w: got %d columns, want %d", ErrModelInvocation, len(frame.Columns), len(m.columns))
	}
	for i, c := range m.columns {
		if frame.Columns[i] != c.Name {
			return nil, fmt.Errorf("%w: column %d is %q, want %q", ErrModelInvocation, i, frame.Columns[i], c.Name)
		}
	}

	out := make([]float64, len(frame.Rows))
	x := make([]float64, 0, m.width)
	for r, row := range frame.Rows {
		if len(row) != len(m.columns) {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrModelInvocation, r, len(row), len(m.columns))
		}
		x = x[:0]
		for i, c := range m.columns {
			var err error
			x, err = c.encode(x, row[i])
			if err != nil {
				return nil, fmt.Errorf("%w: row %d: %v", ErrModelInvocation, r, err)
			}
		}
		y := m.net.Forward(x)[0]*m.output.Std + m.output.Mean
		if math.IsNaN(y) || math.IsInf(y, 0) {
			return nil, fmt.Errorf("%w: row %d: non-finite prediction", ErrModelInvocation, r)
		}
		out[r] = y
	}
	return out, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
