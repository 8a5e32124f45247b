package element

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

type Dimensionality uint8

const (
	D2 Dimensionality = iota + 2
	D3
)

type GeometryType uint8

const (
	QuadGeometry GeometryType = iota
	HexGeometry
)

func (g GeometryType) String() string {
	switch g {
	case QuadGeometry:
		return "Quad"
	case HexGeometry:
		return "Hex"
	default:
		return fmt.Sprintf("GeometryType(%d)", uint8(g))
	}
}

// NumCorners returns the number of corner nodes of the geometry, or 0 for an
// unknown geometry.
func (g GeometryType) NumCorners() int {
	switch g {
	case QuadGeometry:
		return 4
	case HexGeometry:
		return 8
	default:
		return 0
	}
}

// ErrMalformedElement reports an element whose corner count does not match its
// declared geometry. It is a contract violation by whoever built the element.
var ErrMalformedElement = errors.New("malformed element")

// Element is a Quad or a Hex. The set of implementations is closed; metric code
// switches on the concrete type.
type Element interface {
	ID() int
	Geometry() GeometryType
	Dimensions() Dimensionality
	Corners() []r3.Vec // Ordered copy of the corner coordinates
	Faces() [][4]int   // Corner loops, counter-clockwise, one per face

	isElement()
}

// Quad is a 4-node quadrilateral, planar or near-planar
type Quad struct {
	Id    int
	Nodes [4]r3.Vec
}

// Hex is an 8-node hexahedron. Nodes 0-3 are the bottom face counter-clockwise,
// nodes 4-7 the top face with node i+4 above node i.
type Hex struct {
	Id    int
	Nodes [8]r3.Vec
}

func NewQuad(id int, n1, n2, n3, n4 r3.Vec) Quad {
	return Quad{Id: id, Nodes: [4]r3.Vec{n1, n2, n3, n4}}
}

func NewHex(id int, nodes [8]r3.Vec) Hex {
	return Hex{Id: id, Nodes: nodes}
}

// New builds an element of the given geometry from an ordered corner list
func New(id int, geom GeometryType, corners []r3.Vec) (Element, error) {
	want := geom.NumCorners()
	if want == 0 {
		return nil, fmt.Errorf("element %d: unsupported geometry %s: %w", id, geom, ErrMalformedElement)
	}
	if len(corners) != want {
		return nil, fmt.Errorf("element %d: %s needs %d corners, got %d: %w",
			id, geom, want, len(corners), ErrMalformedElement)
	}
	switch geom {
	case QuadGeometry:
		q := Quad{Id: id}
		copy(q.Nodes[:], corners)
		return q, nil
	default:
		h := Hex{Id: id}
		copy(h.Nodes[:], corners)
		return h, nil
	}
}

// Validate checks that e is non-nil and carries the corner count of its
// declared geometry
func Validate(e Element) error {
	switch v := e.(type) {
	case nil:
		return fmt.Errorf("nil element: %w", ErrMalformedElement)
	case *Quad:
		if v == nil {
			return fmt.Errorf("nil *Quad: %w", ErrMalformedElement)
		}
	case *Hex:
		if v == nil {
			return fmt.Errorf("nil *Hex: %w", ErrMalformedElement)
		}
	}
	geom := e.Geometry()
	if want, got := geom.NumCorners(), len(e.Corners()); want == 0 || want != got {
		return fmt.Errorf("element %d: %s with %d corners: %w", e.ID(), geom, got, ErrMalformedElement)
	}
	return nil
}

func (q Quad) ID() int                    { return q.Id }
func (q Quad) Geometry() GeometryType     { return QuadGeometry }
func (q Quad) Dimensions() Dimensionality { return D2 }
func (q Quad) Faces() [][4]int            { return QuadFaces() }
func (q Quad) isElement()                 {}

func (q Quad) Corners() []r3.Vec {
	c := make([]r3.Vec, len(q.Nodes))
	copy(c, q.Nodes[:])
	return c
}

func (h Hex) ID() int                    { return h.Id }
func (h Hex) Geometry() GeometryType     { return HexGeometry }
func (h Hex) Dimensions() Dimensionality { return D3 }
func (h Hex) Faces() [][4]int            { return HexFaces() }
func (h Hex) isElement()                 {}

func (h Hex) Corners() []r3.Vec {
	c := make([]r3.Vec, len(h.Nodes))
	copy(c, h.Nodes[:])
	return c
}
