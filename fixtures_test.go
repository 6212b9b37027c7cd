package collider

import (
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

var (
	triangle = [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	quad     = [][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}}
)

func newDoc() *gltf.Document {
	return CreateDoc()
}

func addPrimitive(doc *gltf.Document, mode gltf.PrimitiveMode, positions [][3]float32, indices []uint32) *gltf.Primitive {
	prim := &gltf.Primitive{
		Mode:       mode,
		Attributes: gltf.Attribute{"POSITION": modeler.WritePosition(doc, positions)},
	}
	if indices != nil {
		prim.Indices = uint32Ptr(modeler.WriteIndices(doc, indices))
	}
	return prim
}

func addMesh(doc *gltf.Document, name string, prims ...*gltf.Primitive) uint32 {
	doc.Meshes = append(doc.Meshes, &gltf.Mesh{Name: name, Primitives: prims})
	return uint32(len(doc.Meshes) - 1)
}

func addTriangleMesh(doc *gltf.Document, name string) uint32 {
	return addMesh(doc, name, addPrimitive(doc, gltf.PrimitiveTriangles, triangle, []uint32{0, 1, 2}))
}

func addNode(doc *gltf.Document, nd *gltf.Node) uint32 {
	doc.Nodes = append(doc.Nodes, nd)
	return uint32(len(doc.Nodes) - 1)
}

func setRoots(doc *gltf.Document, roots ...uint32) {
	doc.Scenes[0].Nodes = roots
}

// threeLevelDoc builds root -> A (M1, collider "true") -> B (M2, no extras).
func threeLevelDoc() *gltf.Document {
	doc := newDoc()
	m1 := addTriangleMesh(doc, "M1")
	m2 := addTriangleMesh(doc, "M2")
	root := addNode(doc, &gltf.Node{Name: "root", Children: []uint32{1}})
	addNode(doc, &gltf.Node{
		Name:        "A",
		Mesh:        uint32Ptr(m1),
		Children:    []uint32{2},
		Translation: [3]float32{1, 2, 3},
		Extras:      map[string]interface{}{"collider": "true"},
	})
	addNode(doc, &gltf.Node{Name: "B", Mesh: uint32Ptr(m2)})
	setRoots(doc, root)
	return doc
}

// recordingSink collects attachments in call order.
type recordingSink struct {
	nodes     []NodeID
	colliders []*Collider
	err       error
}

func (s *recordingSink) Attach(node NodeID, c *Collider) error {
	if s.err != nil {
		return s.err
	}
	s.nodes = append(s.nodes, node)
	s.colliders = append(s.colliders, c)
	return nil
}
