package eda

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestFloatConstructor(t *testing.T) {
	v := Float(2.5)
	assert.True(t, v.Valid)
	assert.Equal(t, 2.5, v.Float64)

	assert.False(t, Float(math.NaN()).Valid)
	assert.False(t, Null().Valid)
}

func TestNullFloat64Or(t *testing.T) {
	assert.Equal(t, 2.5, Float(2.5).Or(-1))
	assert.Equal(t, -1.0, Null().Or(-1))
	assert.True(t, math.IsNaN(Null().Or(math.NaN())))
}

func TestNullFloat64JSON(t *testing.T) {
	t.Run("missing encodes as null", func(t *testing.T) {
		data, err := json.Marshal(Null())
		require.NoError(t, err)
		assert.Equal(t, "null", string(data))
	})

	t.Run("non-finite values encode as null", func(t *testing.T) {
		for _, v := range []float64{math.Inf(1), math.Inf(-1)} {
			data, err := json.Marshal(NullFloat64{Float64: v, Valid: true})
			require.NoError(t, err)
			assert.Equal(t, "null", string(data))
		}
	})

	t.Run("null decodes as missing", func(t *testing.T) {
		var v NullFloat64
		require.NoError(t, json.Unmarshal([]byte("null"), &v))
		assert.False(t, v.Valid)
	})

	t.Run("numbers round-trip", func(t *testing.T) {
		data, err := json.Marshal(Float(1.8))
		require.NoError(t, err)
		assert.Equal(t, "1.8", string(data))

		var v NullFloat64
		require.NoError(t, json.Unmarshal(data, &v))
		assert.True(t, v.Valid)
		assert.Equal(t, 1.8, v.Float64)
	})

	t.Run("malformed input fails", func(t *testing.T) {
		var v NullFloat64
		assert.Error(t, json.Unmarshal([]byte(`"high"`), &v))
	})
}

func TestNullFloat64JSONInStruct(t *testing.T) {
	events := Events{
		Onsets:  []NullFloat64{Float(1.8), Null()},
		Peaks:   []int{4, 9},
		Heights: []float64{1.5, 2},
	}

	data, err := json.Marshal(events)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"SCR_Onsets": [1.8, null],
		"SCR_Peaks": [4, 9],
		"SCR_Height": [1.5, 2]
	}`, string(data))

	var decoded Events
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, events, decoded)
}

func TestNullFloat64YAML(t *testing.T) {
	type doc struct {
		Onset NullFloat64 `yaml:"onset"`
	}

	t.Run("missing encodes as null", func(t *testing.T) {
		data, err := yaml.Marshal(doc{Onset: Null()})
		require.NoError(t, err)
		assert.Equal(t, "onset: null\n", string(data))
	})

	t.Run("values round-trip", func(t *testing.T) {
		data, err := yaml.Marshal(doc{Onset: Float(1.8)})
		require.NoError(t, err)

		var decoded doc
		require.NoError(t, yaml.Unmarshal(data, &decoded))
		assert.True(t, decoded.Onset.Valid)
		assert.Equal(t, 1.8, decoded.Onset.Float64)
	})

	t.Run("null decodes as missing", func(t *testing.T) {
		var decoded doc
		require.NoError(t, yaml.Unmarshal([]byte("onset: null\n"), &decoded))
		assert.False(t, decoded.Onset.Valid)
	})
}
