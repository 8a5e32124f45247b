package quality

import (
	"fmt"
	"math"

	"github.com/notargets/MeshQuality/element"
)

// Metric selects one of the three quality measures. The integer codes are part
// of the external interface: 1 = Aspect Ratio, 2 = Skewness, 3 = Jacobian Ratio.
type Metric int

const (
	NoMetric Metric = iota
	AspectRatioMetric
	SkewnessMetric
	JacobianRatioMetric
)

func (m Metric) Valid() bool {
	return m >= AspectRatioMetric && m <= JacobianRatioMetric
}

func (m Metric) String() string {
	switch m {
	case AspectRatioMetric:
		return "AspectRatio"
	case SkewnessMetric:
		return "Skewness"
	case JacobianRatioMetric:
		return "JacobianRatio"
	default:
		return fmt.Sprintf("Metric(%d)", int(m))
	}
}

// Metrics lists the valid metrics in code order
func Metrics() []Metric {
	return []Metric{AspectRatioMetric, SkewnessMetric, JacobianRatioMetric}
}

const (
	// IdealSkewAngle is the interior angle, in degrees, of an unskewed face
	IdealSkewAngle = 90.0
	// IdealHexAspectRatio is face-center distance over corner distance for a
	// cube of half-edge 0.5, measured from its centroid
	IdealHexAspectRatio = 0.5 / 0.8660254037844386 // 0.5 / sqrt(0.75)
)

// Quality holds the three metrics of one element
type Quality struct {
	Element       element.Element
	AspectRatio   float64
	Skewness      float64
	JacobianRatio float64
	Diagnostics   Diagnostics
}

// Value returns the value of the selected metric, NaN for an invalid metric
func (q Quality) Value(m Metric) float64 {
	switch m {
	case AspectRatioMetric:
		return q.AspectRatio
	case SkewnessMetric:
		return q.Skewness
	case JacobianRatioMetric:
		return q.JacobianRatio
	default:
		return math.NaN()
	}
}

// EvaluateElement computes all three metrics of a single element
func EvaluateElement(e element.Element) Quality {
	q := Quality{Element: e}
	var ds Diagnostics

	q.AspectRatio, ds = AspectRatio(e)
	q.Diagnostics = append(q.Diagnostics, ds...)

	q.Skewness, ds = Skewness(e)
	q.Diagnostics = append(q.Diagnostics, ds...)

	q.JacobianRatio, ds = JacobianRatio(e)
	q.Diagnostics = append(q.Diagnostics, ds...)

	return q
}

// round3 rounds half to even at three decimals
func round3(x float64) float64 {
	return math.RoundToEven(x*1000) / 1000
}
