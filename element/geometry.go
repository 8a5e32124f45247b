package element

import "gonum.org/v1/gonum/spatial/r3"

// Centroid returns the arithmetic mean of the element's corners
func Centroid(e Element) r3.Vec {
	return Mean(e.Corners())
}

// FaceCorners returns the corner coordinates of each face, in loop order
func FaceCorners(e Element) [][4]r3.Vec {
	var (
		corners = e.Corners()
		faces   = e.Faces()
		out     = make([][4]r3.Vec, len(faces))
	)
	for f, loop := range faces {
		for i, n := range loop {
			out[f][i] = corners[n]
		}
	}
	return out
}

// FaceCenters returns the arithmetic mean of each face's four corners
func FaceCenters(e Element) []r3.Vec {
	faces := FaceCorners(e)
	centers := make([]r3.Vec, len(faces))
	for f, pts := range faces {
		centers[f] = Mean(pts[:])
	}
	return centers
}

// Mean returns the arithmetic mean of a point set, the zero vector if empty
func Mean(pts []r3.Vec) r3.Vec {
	var sum r3.Vec
	if len(pts) == 0 {
		return sum
	}
	for _, p := range pts {
		sum = r3.Add(sum, p)
	}
	return r3.Scale(1/float64(len(pts)), sum)
}
