package geometry

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// CoplanarTolerance is the absolute distance below which a point is taken to
// lie on a plane (2^-32)
const CoplanarTolerance = 2.3283064365386963e-10

// ErrDegenerateGeometry reports input with no usable plane: coincident or
// collinear corners, zero-length edges
var ErrDegenerateGeometry = errors.New("degenerate geometry")

// Plane is an oriented plane with an orthonormal in-plane frame
//
//	Normal = XAxis × YAxis
type Plane struct {
	Origin r3.Vec
	XAxis  r3.Vec
	YAxis  r3.Vec
	Normal r3.Vec

	// Rows are XAxis, YAxis, Normal: maps world offsets into the local frame
	rot *mat.Dense
}

// NewPlane builds a plane through origin with the given (not necessarily unit)
// normal. The in-plane x-axis is the projection of xHint onto the plane; when
// xHint is parallel to the normal an arbitrary perpendicular is chosen.
func NewPlane(origin, normal, xHint r3.Vec) (*Plane, error) {
	nLen := r3.Norm(normal)
	if nLen == 0 || math.IsNaN(nLen) {
		return nil, fmt.Errorf("plane normal has zero length: %w", ErrDegenerateGeometry)
	}
	n := r3.Scale(1/nLen, normal)

	x := r3.Sub(xHint, r3.Scale(r3.Dot(xHint, n), n))
	if r3.Norm(x) == 0 {
		x = anyPerpendicular(n)
	}
	x = r3.Unit(x)
	y := r3.Cross(n, x)

	rot := mat.NewDense(3, 3, []float64{
		x.X, x.Y, x.Z,
		y.X, y.Y, y.Z,
		n.X, n.Y, n.Z,
	})
	return &Plane{Origin: origin, XAxis: x, YAxis: y, Normal: n, rot: rot}, nil
}

// SignedDistance returns the distance of p from the plane along the normal
func (pl *Plane) SignedDistance(p r3.Vec) float64 {
	return r3.Dot(r3.Sub(p, pl.Origin), pl.Normal)
}

// Project returns the orthogonal projection of p onto the plane
func (pl *Plane) Project(p r3.Vec) r3.Vec {
	return r3.Sub(p, r3.Scale(pl.SignedDistance(p), pl.Normal))
}

// ToLocal maps p into the plane frame: the plane becomes z=0 with the origin at
// (0,0,0) and XAxis along +x
func (pl *Plane) ToLocal(p r3.Vec) r3.Vec {
	d := r3.Sub(p, pl.Origin)
	var out mat.VecDense
	out.MulVec(pl.rot, mat.NewVecDense(3, []float64{d.X, d.Y, d.Z}))
	return r3.Vec{X: out.AtVec(0), Y: out.AtVec(1), Z: out.AtVec(2)}
}

// NewellNormal returns the sum over the corners of the polygon of the cross
// product of the edges to the next and the previous corner. Its direction is
// the best-fit normal of a non-planar loop; it is zero when all corners are
// collinear.
func NewellNormal(pts []r3.Vec) r3.Vec {
	var (
		n  r3.Vec
		np = len(pts)
	)
	for i := range pts {
		next := r3.Sub(pts[(i+1)%np], pts[i])
		prev := r3.Sub(pts[(i+np-1)%np], pts[i])
		n = r3.Add(n, r3.Cross(next, prev))
	}
	return n
}

// Coplanar reports whether every point lies within tol of the best-fit plane
// through the points' centroid. Collinear or coincident points are coplanar.
func Coplanar(pts []r3.Vec, tol float64) bool {
	if len(pts) < 4 {
		return true
	}
	n := NewellNormal(pts)
	if r3.Norm(n) == 0 {
		return true
	}
	n = r3.Unit(n)
	c := centroid(pts)
	for _, p := range pts {
		if math.Abs(r3.Dot(r3.Sub(p, c), n)) > tol {
			return false
		}
	}
	return true
}

func centroid(pts []r3.Vec) r3.Vec {
	var sum r3.Vec
	for _, p := range pts {
		sum = r3.Add(sum, p)
	}
	return r3.Scale(1/float64(len(pts)), sum)
}

func anyPerpendicular(n r3.Vec) r3.Vec {
	axis := r3.Vec{X: 1}
	if math.Abs(n.X) > 0.9 {
		axis = r3.Vec{Y: 1}
	}
	return r3.Cross(n, axis)
}
