package collider

import (
	"fmt"
	"log/slog"

	"github.com/flywave/go3d/vec3"
	"github.com/qmuntal/gltf"
)

// Extractor turns mesh primitives into triangle-mesh shapes.
type Extractor struct {
	Builder ShapeBuilder
	Logger  *slog.Logger
}

func NewExtractor(builder ShapeBuilder, logger *slog.Logger) *Extractor {
	if builder == nil {
		builder = TriMeshBuilder{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{Builder: builder, Logger: logger}
}

// Extract returns the shape for p, or false when p cannot form one. A
// failure is local to the primitive.
func (e *Extractor) Extract(p *Primitive) (*TriMeshShape, bool) {
	shape, err := e.build(p)
	if err != nil {
		e.Logger.Debug("primitive skipped", "primitive", p.Name, "error", err)
		return nil, false
	}
	return shape, true
}

func (e *Extractor) build(p *Primitive) (*TriMeshShape, error) {
	if len(p.Positions) < 3 {
		return nil, fmt.Errorf("%w: %d vertices", ErrDegenerate, len(p.Positions))
	}
	triangles, err := triangulate(p.Mode, p.Indices, len(p.Positions))
	if err != nil {
		return nil, err
	}
	vertices := make([]vec3.T, len(p.Positions))
	copy(vertices, p.Positions)
	return e.Builder.BuildTriMesh(vertices, triangles)
}

// triangulate expands an index list (or the implicit 0..n-1 sequence) into
// triangles for the given topology.
func triangulate(mode gltf.PrimitiveMode, indices []uint32, vertexCount int) ([][3]uint32, error) {
	if indices == nil {
		indices = make([]uint32, vertexCount)
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	var tris [][3]uint32
	switch mode {
	case gltf.PrimitiveTriangles:
		if len(indices)%3 != 0 {
			return nil, fmt.Errorf("%d indices is not a multiple of 3", len(indices))
		}
		tris = make([][3]uint32, 0, len(indices)/3)
		for i := 0; i < len(indices); i += 3 {
			tris = append(tris, [3]uint32{indices[i], indices[i+1], indices[i+2]})
		}
	case gltf.PrimitiveTriangleStrip:
		for i := 2; i < len(indices); i++ {
			if i%2 == 0 {
				tris = append(tris, [3]uint32{indices[i-2], indices[i-1], indices[i]})
			} else {
				tris = append(tris, [3]uint32{indices[i-1], indices[i-2], indices[i]})
			}
		}
	case gltf.PrimitiveTriangleFan:
		for i := 2; i < len(indices); i++ {
			tris = append(tris, [3]uint32{indices[0], indices[i-1], indices[i]})
		}
	default:
		return nil, fmt.Errorf("%w: mode %d", ErrUnsupportedTopology, mode)
	}
	return tris, nil
}
