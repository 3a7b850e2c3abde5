package eda

import (
	"bytes"
	"encoding/json"
	"math"

	"gopkg.in/yaml.v3"
)

// NullFloat64 is a float64 that may be missing. It mirrors the shape of
// database/sql.NullFloat64 so values move unchanged between extraction,
// serialization and storage.
type NullFloat64 struct {
	Float64 float64
	Valid   bool
}

// Float returns a present value. NaN input yields a missing value.
func Float(v float64) NullFloat64 {
	if math.IsNaN(v) {
		return NullFloat64{}
	}
	return NullFloat64{Float64: v, Valid: true}
}

// Null returns a missing value
func Null() NullFloat64 {
	return NullFloat64{}
}

// Or returns the contained value, or fallback when missing
func (n NullFloat64) Or(fallback float64) float64 {
	if !n.Valid {
		return fallback
	}
	return n.Float64
}

// MarshalJSON encodes missing values as null
func (n NullFloat64) MarshalJSON() ([]byte, error) {
	if !n.Valid || math.IsNaN(n.Float64) || math.IsInf(n.Float64, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(n.Float64)
}

// UnmarshalJSON decodes null as a missing value
func (n *NullFloat64) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*n = NullFloat64{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = Float(v)
	return nil
}

// MarshalYAML encodes missing values as null
func (n NullFloat64) MarshalYAML() (interface{}, error) {
	if !n.Valid || math.IsNaN(n.Float64) || math.IsInf(n.Float64, 0) {
		return nil, nil
	}
	return n.Float64, nil
}

// UnmarshalYAML decodes null as a missing value
func (n *NullFloat64) UnmarshalYAML(node *yaml.Node) error {
	if node.Tag == "!!null" {
		*n = NullFloat64{}
		return nil
	}
	var v float64
	if err := node.Decode(&v); err != nil {
		return err
	}
	*n = Float(v)
	return nil
}
