package quality

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// MetricSummary describes the distribution of one metric over a pass
type MetricSummary struct {
	Metric Metric
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64
}

// Summary holds a MetricSummary for each metric, in Metrics() order, and the
// band histogram of the selected metric
type Summary struct {
	Count     int
	Metrics   []MetricSummary
	Histogram map[Band]int
}

// Summarize computes per-metric statistics of the qualities and counts how many
// fall in each band of m. Means are unrounded sample means. Summaries of an
// empty list are all zero.
func Summarize(qs []Quality, m Metric) Summary {
	s := Summary{
		Count:     len(qs),
		Histogram: make(map[Band]int),
	}
	values := make([]float64, len(qs))
	for _, metric := range Metrics() {
		ms := MetricSummary{Metric: metric}
		if len(qs) > 0 {
			for i, q := range qs {
				values[i] = q.Value(metric)
			}
			ms.Min, ms.Max = floats.Min(values), floats.Max(values)
			if len(qs) > 1 {
				ms.Mean, ms.StdDev = stat.MeanStdDev(values, nil)
			} else {
				ms.Mean = values[0]
			}
		}
		s.Metrics = append(s.Metrics, ms)
	}
	for _, b := range ClassifyAll(qs, m) {
		s.Histogram[b]++
	}
	return s
}

// Of returns the summary of a single metric
func (s Summary) Of(m Metric) (MetricSummary, bool) {
	for _, ms := range s.Metrics {
		if ms.Metric == m {
			return ms, true
		}
	}
	return MetricSummary{}, false
}
