package collider

import (
	"fmt"
	"math"

	"github.com/flywave/go3d/vec3"
)

// TriMeshShape is a dense triangle-mesh collision shape. It keeps every
// input triangle, degenerate ones included.
type TriMeshShape struct {
	Vertices  []vec3.T
	Triangles [][3]uint32
	Bounds    vec3.Box
}

func (s *TriMeshShape) TriangleCount() int {
	return len(s.Triangles)
}

// Area sums the surface area of all triangles.
func (s *TriMeshShape) Area() float32 {
	var area float32
	for _, tri := range s.Triangles {
		area += triangleArea(&s.Vertices[tri[0]], &s.Vertices[tri[1]], &s.Vertices[tri[2]])
	}
	return area
}

// Indices flattens the triangle list.
func (s *TriMeshShape) Indices() []uint32 {
	out := make([]uint32, 0, len(s.Triangles)*3)
	for _, tri := range s.Triangles {
		out = append(out, tri[0], tri[1], tri[2])
	}
	return out
}

// ShapeBuilder is the simulation side constructor for triangle-mesh shapes.
type ShapeBuilder interface {
	BuildTriMesh(vertices []vec3.T, triangles [][3]uint32) (*TriMeshShape, error)
}

// TriMeshBuilder rejects meshes with fewer than three vertices, indices out
// of range, or no triangle of non-zero area.
type TriMeshBuilder struct{}

func (TriMeshBuilder) BuildTriMesh(vertices []vec3.T, triangles [][3]uint32) (*TriMeshShape, error) {
	if len(vertices) < 3 {
		return nil, fmt.Errorf("%w: %d vertices", ErrDegenerate, len(vertices))
	}
	if len(triangles) == 0 {
		return nil, fmt.Errorf("%w: no triangles", ErrDegenerate)
	}

	n := uint32(len(vertices))
	solid := false
	for i, tri := range triangles {
		if tri[0] >= n || tri[1] >= n || tri[2] >= n {
			return nil, fmt.Errorf("triangle %d index out of range: %v >= %d", i, tri, n)
		}
		if !solid && triangleArea(&vertices[tri[0]], &vertices[tri[1]], &vertices[tri[2]]) > 0 {
			solid = true
		}
	}
	if !solid {
		return nil, fmt.Errorf("%w: all %d triangles have zero area", ErrDegenerate, len(triangles))
	}

	return &TriMeshShape{
		Vertices:  vertices,
		Triangles: triangles,
		Bounds:    bounds(vertices),
	}, nil
}

func triangleArea(pt1, pt2, pt3 *vec3.T) float32 {
	sub1 := vec3.Sub(pt3, pt2)
	sub2 := vec3.Sub(pt1, pt2)
	cro := vec3.Cross(&sub1, &sub2)
	return cro.Length() / 2
}

func bounds(vertices []vec3.T) vec3.Box {
	minX := float32(math.MaxFloat32)
	minY := float32(math.MaxFloat32)
	minZ := float32(math.MaxFloat32)
	maxX := float32(-math.MaxFloat32)
	maxY := float32(-math.MaxFloat32)
	maxZ := float32(-math.MaxFloat32)
	for i := range vertices {
		minX = min(minX, vertices[i][0])
		minY = min(minY, vertices[i][1])
		minZ = min(minZ, vertices[i][2])

		maxX = max(maxX, vertices[i][0])
		maxY = max(maxY, vertices[i][1])
		maxZ = max(maxZ, vertices[i][2])
	}
	return vec3.Box{Min: vec3.T{minX, minY, minZ}, Max: vec3.T{maxX, maxY, maxZ}}
}
