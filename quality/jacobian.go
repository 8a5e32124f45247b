package quality

import (
	"fmt"

	"github.com/notargets/MeshQuality/element"
	"github.com/notargets/MeshQuality/geometry"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// JacobianRatio returns the ratio of the smallest to the largest determinant of
// the isoparametric Jacobian evaluated at the element's corner nodes.
//
// Quad: the corners are projected onto a local plane and the bilinear
// determinant is evaluated at (±1,±1). A ratio outside [0,1] gives an
// OutOfRange warning.
//
// Hex: the trilinear determinant is evaluated at (±1,±1,±1). When any corner
// determinant is negative the ratio is max/min instead of min/max and an
// InvertedCorners diagnostic is attached; it is an Error when that ratio is
// itself negative, a Remark otherwise.
//
// Only corner nodes are sampled, so distortion confined to the element interior
// is not seen.
func JacobianRatio(e element.Element) (jr float64, ds Diagnostics) {
	if err := element.Validate(e); err != nil {
		return 0, Diagnostics{invalidElement(e, JacobianRatioMetric, err)}
	}
	id := e.ID()

	dets, err := CornerDeterminants(e)
	if err != nil {
		ds = append(ds, newDiagnostic(id, JacobianRatioMetric, Degenerate, Error, "%v", err))
		return 0, ds
	}

	minJ, maxJ := floats.Min(dets), floats.Max(dets)
	if minJ == 0 && maxJ == 0 {
		ds = append(ds, newDiagnostic(id, JacobianRatioMetric, Degenerate, Error,
			"all corner determinants are zero"))
		return 0, ds
	}

	switch e.Geometry() {
	case element.QuadGeometry:
		if maxJ == 0 {
			ds = append(ds, newDiagnostic(id, JacobianRatioMetric, Degenerate, Error,
				"largest corner determinant is zero (min %g)", minJ))
			return 0, ds
		}
		jr = minJ / maxJ
		if jr < 0 || jr > 1+rangeSlack {
			ds = append(ds, newDiagnostic(id, JacobianRatioMetric, OutOfRange, Warning,
				"jacobian ratio %g is outside [0,1], the element may be concave or self-intersecting", jr))
		}

	case element.HexGeometry:
		if minJ < 0 {
			jr = maxJ / minJ
			sev := Remark
			if jr < 0 {
				sev = Error
			}
			ds = append(ds, newDiagnostic(id, JacobianRatioMetric, InvertedCorners, sev,
				"%d of 8 corner determinants are negative, ratio taken as max/min = %g",
				countNegative(dets), jr))
			return jr, ds
		}
		jr = minJ / maxJ
	}
	return jr, ds
}

// CornerDeterminants returns the Jacobian determinant at each corner node, in
// node order
func CornerDeterminants(e element.Element) ([]float64, error) {
	if err := element.Validate(e); err != nil {
		return nil, err
	}
	corners := e.Corners()
	switch e.Geometry() {
	case element.QuadGeometry:
		local, err := geometry.ProjectQuad([4]r3.Vec(corners))
		if err != nil {
			return nil, fmt.Errorf("projecting quad %d: %w", e.ID(), err)
		}
		return quadDeterminants(local), nil
	default:
		return hexDeterminants(corners), nil
	}
}

// quadDeterminants evaluates the bilinear Jacobian determinant at the natural
// corner coordinates, using the local x,y of the projected corners
func quadDeterminants(p [4]r3.Vec) []float64 {
	var (
		ref  = element.Reference(element.QuadGeometry)
		dets = make([]float64, ref.NumCorners())

		x1, x2, x3, x4 = p[0].X, p[1].X, p[2].X, p[3].X
		y1, y2, y3, y4 = p[0].Y, p[1].Y, p[2].Y, p[3].Y
	)
	for n := range dets {
		r, s := ref.R[n], ref.S[n]
		dets[n] = 0.0625 * (((1-s)*(x2-x1)+(1+s)*(x3-x4))*((1-r)*(y4-y1)+(1+r)*(y3-y2)) -
			((1-s)*(y2-y1)+(1+s)*(y3-y4))*((1-r)*(x4-x1)+(1+r)*(x3-x2)))
	}
	return dets
}

// hexDeterminants evaluates det(J) at the eight natural corners, where
// J = dN · X with dN the [3 × 8] shape function derivatives with respect to
// r, s, t and X the [8 × 3] corner coordinates
func hexDeterminants(corners []r3.Vec) []float64 {
	var (
		ref  = element.Reference(element.HexGeometry)
		np   = ref.NumCorners()
		dets = make([]float64, np)
		X    = mat.NewDense(np, 3, nil)
		dN   = mat.NewDense(3, np, nil)
		J    = mat.NewDense(3, 3, nil)
	)
	for i, c := range corners {
		X.SetRow(i, []float64{c.X, c.Y, c.Z})
	}
	for n := 0; n < np; n++ {
		hexShapeDerivatives(ref.R[n], ref.S[n], ref.T[n], ref, dN)
		J.Mul(dN, X)
		dets[n] = mat.Det(J)
	}
	return dets
}

// hexShapeDerivatives fills dN with ∂N_i/∂r, ∂N_i/∂s, ∂N_i/∂t of the trilinear
// shape functions N_i = (1+r r_i)(1+s s_i)(1+t t_i)/8 at (r,s,t)
func hexShapeDerivatives(r, s, t float64, ref element.ReferenceGeometry, dN *mat.Dense) {
	for i := 0; i < ref.NumCorners(); i++ {
		ri, si, ti := ref.R[i], ref.S[i], ref.T[i]
		dN.Set(0, i, 0.125*ri*(1+s*si)*(1+t*ti))
		dN.Set(1, i, 0.125*si*(1+r*ri)*(1+t*ti))
		dN.Set(2, i, 0.125*ti*(1+r*ri)*(1+s*si))
	}
}

func countNegative(v []float64) (n int) {
	for _, x := range v {
		if x < 0 {
			n++
		}
	}
	return
}
