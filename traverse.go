package collider

import (
	"log/slog"
)

// ColliderDescriptor pairs a synthesized shape with the local transform of
// the node it came from.
type ColliderDescriptor struct {
	Node      NodeID
	Primitive int
	Shape     *TriMeshShape
	Transform Transform
}

// Traverser walks a scene depth-first, pre-order, and extracts a
// descriptor for every primitive that forms a shape.
type Traverser struct {
	Extractor *Extractor
	Logger    *slog.Logger
}

func NewTraverser(ex *Extractor, logger *slog.Logger) *Traverser {
	if logger == nil {
		logger = slog.Default()
	}
	if ex == nil {
		ex = NewExtractor(nil, logger)
	}
	return &Traverser{Extractor: ex, Logger: logger}
}

func (t *Traverser) Traverse(scene Scene, roots []NodeID) []ColliderDescriptor {
	var out []ColliderDescriptor
	// An acyclic tree is never deeper than its node count.
	limit := scene.NodeCount()
	for _, root := range roots {
		out = t.visit(scene, root, 0, limit, out)
	}
	return out
}

func (t *Traverser) visit(scene Scene, id NodeID, depth, limit int, out []ColliderDescriptor) []ColliderDescriptor {
	if depth > limit {
		t.Logger.Error("node depth exceeds node count, the node graph has a cycle", "node", id)
		return out
	}
	nd, ok := scene.Node(id)
	if !ok {
		t.Logger.Debug("node missing", "node", id)
		return out
	}

	if nd.Mesh != nil {
		prims, ok := scene.Primitives(*nd.Mesh)
		if !ok {
			t.Logger.Debug("mesh missing", "node", id, "mesh", *nd.Mesh)
		}
		for _, p := range prims {
			shape, ok := t.Extractor.Extract(p)
			if !ok {
				continue
			}
			out = append(out, ColliderDescriptor{
				Node:      id,
				Primitive: p.Index,
				Shape:     shape,
				Transform: nd.Transform,
			})
		}
	}

	for _, child := range nd.Children {
		out = t.visit(scene, child, depth+1, limit, out)
	}
	return out
}

// VisitOrder lists node ids in the order Traverse visits them.
func VisitOrder(scene Scene, roots []NodeID) []NodeID {
	var order []NodeID
	limit := scene.NodeCount()
	var walk func(id NodeID, depth int)
	walk = func(id NodeID, depth int) {
		if depth > limit {
			return
		}
		nd, ok := scene.Node(id)
		if !ok {
			return
		}
		order = append(order, id)
		for _, c := range nd.Children {
			walk(c, depth+1)
		}
	}
	for _, r := range roots {
		walk(r, 0)
	}
	return order
}
