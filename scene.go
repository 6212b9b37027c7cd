package collider

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/flywave/go3d/vec3"
	"github.com/qmuntal/gltf"
)

// NodeID indexes a node in the scene's node table.
type NodeID uint32

// SceneNode is the read-only view of one node.
type SceneNode struct {
	ID        NodeID
	Name      string
	Mesh      *uint32
	Transform Transform
	Children  []NodeID
	// Extras is the raw metadata text; HasExtras is false when the node
	// carries none.
	Extras    string
	HasExtras bool
}

// Primitive is one chunk of mesh geometry. Indices is nil for non-indexed
// primitives.
type Primitive struct {
	Name      string
	Index     int // declaration index within the mesh
	Mode      gltf.PrimitiveMode
	Positions []vec3.T
	Indices   []uint32
}

// Scene is the read side of the asset-loading collaborator.
type Scene interface {
	RootNodes() []NodeID
	NodeCount() int
	Node(id NodeID) (*SceneNode, bool)
	// Primitives returns the primitives of a mesh in declaration order.
	// Primitives whose buffers cannot be resolved are left out.
	Primitives(mesh uint32) ([]*Primitive, bool)
}

// GltfScene adapts a decoded glTF document to Scene.
type GltfScene struct {
	doc    *gltf.Document
	logger *slog.Logger
}

func NewGltfScene(doc *gltf.Document, logger *slog.Logger) *GltfScene {
	if logger == nil {
		logger = slog.Default()
	}
	return &GltfScene{doc: doc, logger: logger}
}

func (s *GltfScene) Document() *gltf.Document {
	return s.doc
}

// RootNodes returns the default scene's nodes. Without scenes it falls back
// to every node that is nobody's child, in index order.
func (s *GltfScene) RootNodes() []NodeID {
	if len(s.doc.Scenes) > 0 {
		idx := uint32(0)
		if s.doc.Scene != nil && int(*s.doc.Scene) < len(s.doc.Scenes) {
			idx = *s.doc.Scene
		}
		sc := s.doc.Scenes[idx]
		roots := make([]NodeID, 0, len(sc.Nodes))
		for _, n := range sc.Nodes {
			roots = append(roots, NodeID(n))
		}
		return roots
	}

	child := make(map[uint32]bool)
	for _, nd := range s.doc.Nodes {
		for _, c := range nd.Children {
			child[c] = true
		}
	}
	var roots []NodeID
	for i := range s.doc.Nodes {
		if !child[uint32(i)] {
			roots = append(roots, NodeID(i))
		}
	}
	return roots
}

func (s *GltfScene) NodeCount() int {
	return len(s.doc.Nodes)
}

func (s *GltfScene) Node(id NodeID) (*SceneNode, bool) {
	if int(id) >= len(s.doc.Nodes) || s.doc.Nodes[id] == nil {
		return nil, false
	}
	nd := s.doc.Nodes[id]
	out := &SceneNode{
		ID:        id,
		Name:      nd.Name,
		Mesh:      nd.Mesh,
		Transform: NodeTransform(nd),
	}
	for _, c := range nd.Children {
		out.Children = append(out.Children, NodeID(c))
	}
	if nd.Extras != nil {
		raw, err := extrasText(nd.Extras)
		if err != nil {
			s.logger.Warn("node extras cannot be encoded", "node", id, "name", nd.Name, "error", err)
		} else {
			out.Extras = raw
			out.HasExtras = true
		}
	}
	return out, true
}

// extrasText turns decoded extras back into text. A string is taken as the
// metadata text itself.
func extrasText(extras interface{}) (string, error) {
	switch v := extras.(type) {
	case string:
		return v, nil
	case json.RawMessage:
		return string(v), nil
	case []byte:
		return string(v), nil
	}
	bt, err := json.Marshal(extras)
	if err != nil {
		return "", err
	}
	return string(bt), nil
}

func (s *GltfScene) Primitives(mesh uint32) ([]*Primitive, bool) {
	if int(mesh) >= len(s.doc.Meshes) || s.doc.Meshes[mesh] == nil {
		return nil, false
	}
	mh := s.doc.Meshes[mesh]
	out := make([]*Primitive, 0, len(mh.Primitives))
	for i, ps := range mh.Primitives {
		p, err := s.readPrimitive(ps)
		if err != nil {
			s.logger.Debug("primitive unreadable", "mesh", mesh, "primitive", i, "error", err)
			continue
		}
		p.Name = fmt.Sprintf("%s/%d", mh.Name, i)
		p.Index = i
		out = append(out, p)
	}
	return out, true
}

func (s *GltfScene) readPrimitive(ps *gltf.Primitive) (*Primitive, error) {
	idx, ok := ps.Attributes["POSITION"]
	if !ok {
		return nil, fmt.Errorf("%w: POSITION attribute", ErrMissingResource)
	}
	positions, err := readPositions(s.doc, idx)
	if err != nil {
		return nil, err
	}
	p := &Primitive{Mode: ps.Mode, Positions: positions}
	if ps.Indices != nil {
		if p.Indices, err = readIndices(s.doc, *ps.Indices); err != nil {
			return nil, err
		}
	}
	return p, nil
}
