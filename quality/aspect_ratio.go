package quality

import (
	"math"

	"github.com/notargets/MeshQuality/element"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
)

// AspectRatio returns the smallest over the largest characteristic distance of
// the element, normalized so the ideal shape scores 1.
//
// Quad: the four edge lengths. Hex: the eight corner-to-centroid and six
// face-center-to-centroid distances, divided by IdealHexAspectRatio.
//
// Values outside (0,1] are returned as computed with an OutOfRange warning.
func AspectRatio(e element.Element) (ar float64, ds Diagnostics) {
	if err := element.Validate(e); err != nil {
		return 0, Diagnostics{invalidElement(e, AspectRatioMetric, err)}
	}
	var (
		id      = e.ID()
		corners = e.Corners()
		dist    []float64
		ideal   = 1.0
	)

	switch e.Geometry() {
	case element.QuadGeometry:
		dist = make([]float64, 0, 4)
		for i := range corners {
			dist = append(dist, r3.Norm(r3.Sub(corners[(i+1)%4], corners[i])))
		}
	case element.HexGeometry:
		c := element.Mean(corners)
		dist = make([]float64, 0, 14)
		for _, p := range corners {
			dist = append(dist, r3.Norm(r3.Sub(p, c)))
		}
		for _, fc := range element.FaceCenters(e) {
			dist = append(dist, r3.Norm(r3.Sub(fc, c)))
		}
		ideal = IdealHexAspectRatio
	}

	minD, maxD := floats.Min(dist), floats.Max(dist)
	if maxD == 0 || math.IsNaN(maxD) || math.IsInf(maxD, 0) {
		ds = append(ds, newDiagnostic(id, AspectRatioMetric, Degenerate, Error,
			"all characteristic distances are zero or not finite (max %g)", maxD))
		return 0, ds
	}

	ar = (minD / maxD) / ideal
	if ar <= 0 || ar > 1+rangeSlack {
		ds = append(ds, newDiagnostic(id, AspectRatioMetric, OutOfRange, Warning,
			"aspect ratio %g is outside (0,1]", ar))
	}
	return ar, ds
}

// rangeSlack absorbs round-off when an ideal element evaluates to 1+ε
const rangeSlack = 1e-12

func invalidElement(e element.Element, m Metric, err error) Diagnostic {
	id := NoElementID
	if e != nil {
		id = e.ID()
	}
	return newDiagnostic(id, m, Degenerate, Error, "%v", err)
}
