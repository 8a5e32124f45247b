package element

// ReferenceGeometry defines the corner layout of an element in natural
// coordinates, the reference space [-1,1]^d
type ReferenceGeometry struct {
	// Natural coordinates of each corner, in node order
	// For Hex: all three are used; for Quad: only R,S (T is nil)
	R, S, T []float64

	// FacePoints lists the corner loop of each face, counter-clockwise
	FacePoints [][4]int
}

// NumFaces returns the number of faces in the reference element
func (rg ReferenceGeometry) NumFaces() int { return len(rg.FacePoints) }

// NumCorners returns the number of corner nodes in the reference element
func (rg ReferenceGeometry) NumCorners() int { return len(rg.R) }

var (
	quadReference = ReferenceGeometry{
		R:          []float64{-1, 1, 1, -1},
		S:          []float64{-1, -1, 1, 1},
		FacePoints: [][4]int{{0, 1, 2, 3}},
	}

	hexReference = ReferenceGeometry{
		R: []float64{-1, 1, 1, -1, -1, 1, 1, -1},
		S: []float64{-1, -1, 1, 1, -1, -1, 1, 1},
		T: []float64{-1, -1, -1, -1, 1, 1, 1, 1},
		FacePoints: [][4]int{
			{0, 1, 5, 4}, // s = -1
			{1, 2, 6, 5}, // r = +1
			{2, 3, 7, 6}, // s = +1
			{3, 0, 4, 7}, // r = -1
			{0, 1, 2, 3}, // t = -1
			{4, 5, 6, 7}, // t = +1
		},
	}
)

// Reference returns the reference geometry of the element kind. The returned
// slices are shared and must not be modified.
func Reference(g GeometryType) ReferenceGeometry {
	if g == HexGeometry {
		return hexReference
	}
	return quadReference
}

// QuadFaces returns the single corner loop of a quadrilateral
func QuadFaces() [][4]int {
	return copyFaces(quadReference.FacePoints)
}

// HexFaces returns the six corner loops of a hexahedron
func HexFaces() [][4]int {
	return copyFaces(hexReference.FacePoints)
}

func copyFaces(src [][4]int) [][4]int {
	dst := make([][4]int, len(src))
	copy(dst, src)
	return dst
}
