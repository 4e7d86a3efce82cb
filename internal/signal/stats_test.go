package signal

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMean(t *testing.T) {
	assert.Equal(t, 0.0, mean(nil))
	assert.Equal(t, 3.0, mean([]float64{2, 4}))
	assert.InDelta(t, 2.5, mean([]float64{1, 2, 3, 4}), 1e-9)
}

func TestSampleStdev(t *testing.T) {
	assert.Equal(t, 0.0, sampleStdev(nil))
	assert.Equal(t, 0.0, sampleStdev([]float64{7}))
	assert.InDelta(t, math.Sqrt2, sampleStdev([]float64{2, 4}), 1e-9)
	assert.Equal(t, 0.0, sampleStdev([]float64{5, 5, 5}))
}

// The fixed floor(q*n) indexing convention. Dashboards reproduce these
// exact values, so no interpolation is allowed.
func TestPercentile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	assert.Equal(t, 6.0, percentile(sorted, 0.50))
	assert.Equal(t, 8.0, percentile(sorted, 0.75))
	assert.Equal(t, 10.0, percentile(sorted, 0.90))
	assert.Equal(t, 10.0, percentile(sorted, 1.00)) // clamped to last element
	assert.Equal(t, 1.0, percentile(sorted, 0.0))
	assert.Equal(t, 0.0, percentile(nil, 0.5))
}

func TestRounding(t *testing.T) {
	assert.Equal(t, 22.5, round1(22.536))
	assert.Equal(t, 1.67, round2(5.0/3.0))
	assert.Equal(t, 0.123, round3(0.12349))
	assert.Equal(t, -3.0, round2(-3.001))
}
