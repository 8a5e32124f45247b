package quality

import (
	"math"
	"sort"

	"github.com/notargets/MeshQuality/element"
	"gonum.org/v1/gonum/spatial/r3"
)

// Skewness scores how far the interior face angles of the element stray from
// 90°; 1 is ideal.
//
//	SK = 1 - max((θmax-90)/(180-90), (90-θmin)/90)
//
// θmin and θmax are taken over every corner of every face (one face for a
// Quad, six for a Hex).
func Skewness(e element.Element) (sk float64, ds Diagnostics) {
	if err := element.Validate(e); err != nil {
		return 0, Diagnostics{invalidElement(e, SkewnessMetric, err)}
	}
	id := e.ID()

	var angles []float64
	for f, face := range element.FaceCorners(e) {
		a, bad := faceAngles(face)
		for _, n := range bad {
			ds = append(ds, newDiagnostic(id, SkewnessMetric, Degenerate, Warning,
				"face %d corner %d has a zero-length edge, angle skipped", f, n))
		}
		angles = append(angles, a...)
	}
	if len(angles) == 0 {
		ds = append(ds, newDiagnostic(id, SkewnessMetric, Degenerate, Error,
			"no measurable face angle"))
		return 0, ds
	}

	sort.Float64s(angles)
	minAngle, maxAngle := angles[0], angles[len(angles)-1]
	sk = 1 - math.Max(
		(maxAngle-IdealSkewAngle)/(180-IdealSkewAngle),
		(IdealSkewAngle-minAngle)/IdealSkewAngle,
	)
	return sk, ds
}

// faceAngles returns the interior angle in degrees at each corner of a 4-point
// loop, and the corners whose angle is undefined
func faceAngles(face [4]r3.Vec) (angles []float64, degenerate []int) {
	const neighbor = 3 // p[n+3] is the previous corner in the loop

	// The loop is duplicated so that n+1 and n+3 never need wrapping
	loop := [8]r3.Vec{
		face[0], face[1], face[2], face[3],
		face[0], face[1], face[2], face[3],
	}
	angles = make([]float64, 0, 4)
	for n := 0; n < 4; n++ {
		v1 := r3.Sub(loop[n], loop[n+1])
		v2 := r3.Sub(loop[n], loop[n+neighbor])
		l1, l2 := r3.Norm(v1), r3.Norm(v2)
		if l1 == 0 || l2 == 0 {
			degenerate = append(degenerate, n)
			continue
		}
		cos := r3.Dot(v1, v2) / (l1 * l2)
		cos = math.Max(-1, math.Min(1, cos))
		angles = append(angles, math.Acos(cos)*180/math.Pi)
	}
	return angles, degenerate
}
