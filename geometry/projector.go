package geometry

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// ProjectQuad maps the four corners of a possibly non-planar quadrilateral onto
// a local 2D frame. The output keeps the input ordering and has z≈0, corner 0
// at the origin and edge 0→1 along +x.
//
// Non-planar corners are first projected along the Newell normal onto the plane
// through their centroid. The local frame is then taken from the first corner:
// x along p1-p0, normal along (p1-p0)×(p3-p0).
func ProjectQuad(corners [4]r3.Vec) (local [4]r3.Vec, err error) {
	pts := corners

	if !Coplanar(corners[:], CoplanarTolerance) {
		fit, err := NewPlane(centroid(corners[:]), NewellNormal(corners[:]), r3.Sub(corners[1], corners[0]))
		if err != nil {
			return local, fmt.Errorf("best-fit plane: %w", err)
		}
		for i := range pts {
			pts[i] = fit.Project(corners[i])
		}
	}

	frame, err := cornerFrame(pts)
	if err != nil {
		return local, err
	}
	for i := range pts {
		local[i] = frame.ToLocal(pts[i])
	}
	return local, nil
}

// cornerFrame builds the plane of the (planar) quad anchored at its first corner
func cornerFrame(pts [4]r3.Vec) (*Plane, error) {
	var (
		e1 = r3.Sub(pts[1], pts[0])
		e3 = r3.Sub(pts[3], pts[0])
	)
	if r3.Norm(e1) == 0 {
		return nil, fmt.Errorf("corners 0 and 1 coincide: %w", ErrDegenerateGeometry)
	}
	n := r3.Cross(e1, e3)
	if r3.Norm(n) == 0 {
		// Corner 0 is collinear with its neighbours, the loop may still span a plane
		n = NewellNormal(pts[:])
	}
	if r3.Norm(n) == 0 {
		return nil, fmt.Errorf("corners are collinear: %w", ErrDegenerateGeometry)
	}
	return NewPlane(pts[0], n, e1)
}
