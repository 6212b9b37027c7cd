package collider

import (
	"fmt"

	"github.com/flywave/go3d/vec3"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

func accessor(doc *gltf.Document, id uint32) (*gltf.Accessor, error) {
	if int(id) >= len(doc.Accessors) || doc.Accessors[id] == nil {
		return nil, fmt.Errorf("%w: accessor %d", ErrMissingResource, id)
	}
	acc := doc.Accessors[id]
	if acc.BufferView == nil && acc.Sparse == nil {
		return nil, fmt.Errorf("%w: accessor %d has no buffer view", ErrMissingResource, id)
	}
	return acc, nil
}

// readPositions decodes a float VEC3 accessor, sparse substitutions
// included.
func readPositions(doc *gltf.Document, id uint32) ([]vec3.T, error) {
	acc, err := accessor(doc, id)
	if err != nil {
		return nil, err
	}
	if acc.Type != gltf.AccessorVec3 || acc.ComponentType != gltf.ComponentFloat {
		return nil, fmt.Errorf("position accessor %d must be float VEC3", id)
	}
	pts, err := modeler.ReadPosition(doc, acc, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: accessor %d: %v", ErrMissingResource, id, err)
	}
	out := make([]vec3.T, len(pts))
	for i, p := range pts {
		out[i] = vec3.T(p)
	}
	return out, nil
}

// readIndices decodes an unsigned SCALAR accessor of any width.
func readIndices(doc *gltf.Document, id uint32) ([]uint32, error) {
	acc, err := accessor(doc, id)
	if err != nil {
		return nil, err
	}
	switch acc.ComponentType {
	case gltf.ComponentUbyte, gltf.ComponentUshort, gltf.ComponentUint:
	default:
		return nil, fmt.Errorf("index accessor %d has unsupported component type %v", id, acc.ComponentType)
	}
	idx, err := modeler.ReadIndices(doc, acc, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: accessor %d: %v", ErrMissingResource, id, err)
	}
	return idx, nil
}
