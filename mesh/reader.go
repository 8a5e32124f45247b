package mesh

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/notargets/MeshQuality/element"
	gocfdmesh "github.com/notargets/gocfd/DG3D/mesh"
	"github.com/notargets/gocfd/DG3D/mesh/readers"
	"github.com/notargets/gocfd/utils"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrNoElements is returned when a mesh holds no quadrilateral or hexahedral
// element
var ErrNoElements = errors.New("zero mesh inputs found")

// Inventory is the outcome of converting a mesh into quality elements
type Inventory struct {
	Source   string
	Elements []element.Element
	Quads    int
	Hexes    int
	// Skipped counts the elements of every other type, by type name
	Skipped map[string]int
}

// NumSkipped is the total number of elements left out of the conversion
func (inv *Inventory) NumSkipped() (n int) {
	for _, c := range inv.Skipped {
		n += c
	}
	return
}

func (inv *Inventory) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d quads, %d hexes", inv.Quads, inv.Hexes))
	if len(inv.Skipped) > 0 {
		names := make([]string, 0, len(inv.Skipped))
		for name := range inv.Skipped {
			names = append(names, name)
		}
		sort.Strings(names)
		sb.WriteString(", skipped")
		for _, name := range names {
			sb.WriteString(fmt.Sprintf(" %s:%d", name, inv.Skipped[name]))
		}
	}
	return sb.String()
}

// LoadElements reads a mesh file (any format gocfd reads) and returns its
// quadrilateral and hexahedral elements in file order
func LoadElements(path string) ([]element.Element, error) {
	inv, err := Load(path)
	if err != nil {
		return nil, err
	}
	return inv.Elements, nil
}

// Load reads a mesh file and converts it, keeping the counts of what was
// converted and skipped. With ErrNoElements the inventory is still returned.
func Load(path string) (*Inventory, error) {
	msh, err := readers.ReadMeshFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading mesh %s: %w", path, err)
	}
	inv, err := FromMesh(msh)
	if inv != nil {
		inv.Source = path
	}
	if err != nil {
		return inv, fmt.Errorf("mesh %s: %w", path, err)
	}
	return inv, nil
}

// FromMesh converts the Quad and Hex family elements of a gocfd mesh. Higher
// order variants contribute their leading corner nodes only. Element IDs are
// the element's index in the mesh.
func FromMesh(msh *gocfdmesh.Mesh) (*Inventory, error) {
	if msh == nil {
		return nil, ErrNoElements
	}
	inv := &Inventory{Skipped: make(map[string]int)}

	for k, verts := range msh.EtoV {
		etype := utils.Unknown
		if k < len(msh.ElementTypes) {
			etype = msh.ElementTypes[k]
		}
		geom, ok := geometryOf(etype)
		if !ok {
			inv.Skipped[etype.String()]++
			continue
		}

		nc := geom.NumCorners()
		if len(verts) < nc {
			return nil, fmt.Errorf("element %d: %s has %d vertices: %w",
				k, etype, len(verts), element.ErrMalformedElement)
		}
		corners := make([]r3.Vec, nc)
		for i := 0; i < nc; i++ {
			p, err := vertex(msh, verts[i])
			if err != nil {
				return nil, fmt.Errorf("element %d corner %d: %w", k, i, err)
			}
			corners[i] = p
		}

		e, err := element.New(k, geom, corners)
		if err != nil {
			return nil, err
		}
		inv.Elements = append(inv.Elements, e)
		if geom == element.QuadGeometry {
			inv.Quads++
		} else {
			inv.Hexes++
		}
	}

	if len(inv.Elements) == 0 {
		return inv, ErrNoElements
	}
	return inv, nil
}

func geometryOf(etype utils.ElementType) (element.GeometryType, bool) {
	switch etype {
	case utils.Quad, utils.Quad8, utils.Quad9:
		return element.QuadGeometry, true
	case utils.Hex, utils.Hex20, utils.Hex27:
		return element.HexGeometry, true
	default:
		return 0, false
	}
}

// vertex looks up a mesh vertex; 2D coordinates get z = 0
func vertex(msh *gocfdmesh.Mesh, idx int) (r3.Vec, error) {
	if idx < 0 || idx >= len(msh.Vertices) {
		return r3.Vec{}, fmt.Errorf("vertex index %d out of range [0,%d): %w",
			idx, len(msh.Vertices), element.ErrMalformedElement)
	}
	c := msh.Vertices[idx]
	var p r3.Vec
	switch {
	case len(c) >= 3:
		p = r3.Vec{X: c[0], Y: c[1], Z: c[2]}
	case len(c) == 2:
		p = r3.Vec{X: c[0], Y: c[1]}
	default:
		return r3.Vec{}, fmt.Errorf("vertex %d has %d coordinates: %w",
			idx, len(c), element.ErrMalformedElement)
	}
	return p, nil
}
