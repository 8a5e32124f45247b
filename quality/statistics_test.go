package quality

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	qs := []Quality{
		{AspectRatio: 1.0, Skewness: 0.5, JacobianRatio: -0.5},
		{AspectRatio: 0.5, Skewness: 0.95, JacobianRatio: 0.9},
		{AspectRatio: 0.75, Skewness: 0.7, JacobianRatio: 0.2},
	}
	s := Summarize(qs, JacobianRatioMetric)
	assert.Equal(t, 3, s.Count)
	require.Len(t, s.Metrics, 3)

	ar, ok := s.Of(AspectRatioMetric)
	require.True(t, ok)
	assert.Equal(t, 0.5, ar.Min)
	assert.Equal(t, 1.0, ar.Max)
	assert.InDelta(t, 0.75, ar.Mean, 1e-12)
	// Sample standard deviation of {1, 0.5, 0.75}
	assert.InDelta(t, 0.25, ar.StdDev, 1e-12)

	jr, ok := s.Of(JacobianRatioMetric)
	require.True(t, ok)
	assert.Equal(t, -0.5, jr.Min)
	assert.Equal(t, 0.9, jr.Max)

	assert.Equal(t, map[Band]int{BandInvalid: 1, BandExcellent: 1, BandPoor: 1}, s.Histogram)
}

func TestSummarize_EdgeCases(t *testing.T) {
	s := Summarize(nil, AspectRatioMetric)
	assert.Equal(t, 0, s.Count)
	for _, ms := range s.Metrics {
		assert.Equal(t, MetricSummary{Metric: ms.Metric}, ms)
	}
	assert.Empty(t, s.Histogram)

	one := Summarize([]Quality{{AspectRatio: 0.8, Skewness: 0.8, JacobianRatio: 0.8}}, NoMetric)
	sk, _ := one.Of(SkewnessMetric)
	assert.Equal(t, 0.8, sk.Mean)
	assert.Equal(t, 0.0, sk.StdDev)
	assert.False(t, math.IsNaN(sk.StdDev))
	assert.Empty(t, one.Histogram)

	_, ok := one.Of(NoMetric)
	assert.False(t, ok)
}
