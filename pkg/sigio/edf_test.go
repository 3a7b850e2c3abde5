package sigio

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEDFRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recording.edf")
	samples := make([]float64, 250)
	for i := range samples {
		samples[i] = float64(i) * 0.01
	}

	require.NoError(t, WriteEDF(path, "EDA phasic", samples, 100))

	read, err := ReadEDF(path, 0)
	require.NoError(t, err)

	// Three one-second records of 100 samples each; the final record is
	// padded by repeating the last sample.
	require.Len(t, read, 300)

	// 16-bit quantization over the physical range bounds the error.
	for i, want := range samples {
		assert.InDelta(t, want, read[i], 1e-3, "sample %d", i)
	}
	last := samples[len(samples)-1]
	for i := 250; i < 300; i++ {
		assert.InDelta(t, last, read[i], 1e-3, "pad sample %d", i)
	}
}

func TestWriteEDFConstantSignal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flat.edf")
	samples := []float64{2.5, 2.5, 2.5, 2.5}

	require.NoError(t, WriteEDF(path, "EDA phasic", samples, 4))

	read, err := ReadEDF(path, 0)
	require.NoError(t, err)
	require.Len(t, read, 4)
	for i := range read {
		assert.InDelta(t, 2.5, read[i], 1e-3)
	}
}

func TestWriteEDFValidation(t *testing.T) {
	dir := t.TempDir()

	t.Run("rejects non-positive sampling rate", func(t *testing.T) {
		err := WriteEDF(filepath.Join(dir, "bad.edf"), "EDA phasic", []float64{1}, 0)
		assert.Error(t, err)
	})

	t.Run("rejects empty signal", func(t *testing.T) {
		err := WriteEDF(filepath.Join(dir, "empty.edf"), "EDA phasic", nil, 100)
		assert.Error(t, err)
	})
}

func TestReadEDFMissingSignal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recording.edf")
	require.NoError(t, WriteEDF(path, "EDA phasic", []float64{1, 2, 3, 4}, 4))

	_, err := ReadEDF(path, 3)
	assert.Error(t, err)
}

func TestReadEDFMissingFile(t *testing.T) {
	_, err := ReadEDF(filepath.Join(t.TempDir(), "absent.edf"), 0)
	assert.Error(t, err)
}
