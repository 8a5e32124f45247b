package quality

import (
	"fmt"

	"github.com/notargets/MeshQuality/element"
)

// Aggregate holds the mean of each metric over a pass, rounded to three
// decimals
type Aggregate struct {
	AspectRatio   float64
	Skewness      float64
	JacobianRatio float64
}

// Value returns the mean of the selected metric, 0 for an invalid metric
func (a Aggregate) Value(m Metric) float64 {
	switch m {
	case AspectRatioMetric:
		return a.AspectRatio
	case SkewnessMetric:
		return a.Skewness
	case JacobianRatioMetric:
		return a.JacobianRatio
	default:
		return 0
	}
}

// Result is the outcome of one evaluation pass
type Result struct {
	// Qualities is in input order
	Qualities []Quality
	Mean      Aggregate
	// Metric selects the classification; Bands is nil when it is not valid
	Metric Metric
	Bands  []Band
	// Diagnostics about the pass as a whole. Per-element findings stay on
	// their Quality.
	Diagnostics Diagnostics
}

// Count is the number of evaluated elements
func (r *Result) Count() int { return len(r.Qualities) }

// Empty reports a pass with no elements; its means carry no data
func (r *Result) Empty() bool { return len(r.Qualities) == 0 }

// AllDiagnostics returns the pass diagnostics followed by every element's, in
// input order
func (r *Result) AllDiagnostics() Diagnostics {
	out := append(Diagnostics(nil), r.Diagnostics...)
	for _, q := range r.Qualities {
		out = append(out, q.Diagnostics...)
	}
	return out
}

// Evaluate computes the three metrics of every element in a single serial pass,
// their means, and the band of each element for the selected metric.
//
// A nil or malformed element aborts the pass with ErrMalformedElement before
// any element is evaluated. An empty list is not an error: the result is empty,
// its means are zero and a NoElements warning is attached.
func Evaluate(elements []element.Element, metric Metric) (*Result, error) {
	if err := validateAll(elements); err != nil {
		return nil, err
	}
	res := &Result{
		Qualities: make([]Quality, len(elements)),
		Metric:    metric,
	}
	var acc sums
	for i, e := range elements {
		res.Qualities[i] = EvaluateElement(e)
		acc.add(res.Qualities[i])
	}
	res.finish(acc)
	return res, nil
}

func validateAll(elements []element.Element) error {
	for i, e := range elements {
		if err := element.Validate(e); err != nil {
			return fmt.Errorf("element at index %d: %w", i, err)
		}
	}
	return nil
}

// finish derives the means, bands and pass diagnostics from the accumulated sums
func (r *Result) finish(acc sums) {
	if acc.n == 0 {
		r.Diagnostics = append(r.Diagnostics, newDiagnostic(NoElementID, NoMetric, NoElements, Warning,
			"zero mesh inputs found, means are reported as 0"))
	}
	r.Mean = acc.mean()
	r.Bands = ClassifyAll(r.Qualities, r.Metric)
}

// sums are running totals of the three metrics
type sums struct {
	ar, sk, jr float64
	n          int
}

func (s *sums) add(q Quality) {
	s.ar += q.AspectRatio
	s.sk += q.Skewness
	s.jr += q.JacobianRatio
	s.n++
}

func (s *sums) merge(o sums) {
	s.ar += o.ar
	s.sk += o.sk
	s.jr += o.jr
	s.n += o.n
}

func (s sums) mean() Aggregate {
	if s.n == 0 {
		return Aggregate{}
	}
	n := float64(s.n)
	return Aggregate{
		AspectRatio:   round3(s.ar / n),
		Skewness:      round3(s.sk / n),
		JacobianRatio: round3(s.jr / n),
	}
}
