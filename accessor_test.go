package collider

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/flywave/go3d/vec3"
	"github.com/qmuntal/gltf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stridedDoc packs three positions with 4 bytes of padding after each and
// a ubyte index list behind them.
func stridedDoc() *gltf.Document {
	buf := bytes.NewBuffer(nil)
	for _, p := range triangle {
		binary.Write(buf, binary.LittleEndian, p)
		binary.Write(buf, binary.LittleEndian, float32(-1))
	}
	posLen := uint32(buf.Len())
	buf.Write([]byte{2, 1, 0, 0})

	return &gltf.Document{
		Buffers: []*gltf.Buffer{{ByteLength: uint32(buf.Len()), Data: buf.Bytes()}},
		BufferViews: []*gltf.BufferView{
			{Buffer: 0, ByteOffset: 0, ByteLength: posLen, ByteStride: 16},
			{Buffer: 0, ByteOffset: posLen, ByteLength: 4},
		},
		Accessors: []*gltf.Accessor{
			{BufferView: uint32Ptr(0), ComponentType: gltf.ComponentFloat, Type: gltf.AccessorVec3, Count: 3},
			{BufferView: uint32Ptr(1), ComponentType: gltf.ComponentUbyte, Type: gltf.AccessorScalar, Count: 3},
		},
	}
}

func TestReadPositionsStrided(t *testing.T) {
	pts, err := readPositions(stridedDoc(), 0)
	require.NoError(t, err)
	assert.Equal(t, []vec3.T{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}, pts)
}

func TestReadIndicesUbyte(t *testing.T) {
	idx, err := readIndices(stridedDoc(), 1)
	require.NoError(t, err)
	assert.Equal(t, []uint32{2, 1, 0}, idx)
}

func TestReadModelerBuffers(t *testing.T) {
	doc := newDoc()
	prim := addPrimitive(doc, gltf.PrimitiveTriangles, quad, []uint32{0, 1, 2, 0, 2, 3})

	pts, err := readPositions(doc, prim.Attributes["POSITION"])
	require.NoError(t, err)
	assert.Equal(t, positions(quad), pts)

	idx, err := readIndices(doc, *prim.Indices)
	require.NoError(t, err)
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, idx)
}

func TestReadAccessorMissing(t *testing.T) {
	doc := stridedDoc()

	_, err := readPositions(doc, 9)
	assert.ErrorIs(t, err, ErrMissingResource)

	doc.Accessors[0].Count = 40
	_, err = readPositions(doc, 0)
	assert.ErrorIs(t, err, ErrMissingResource)

	doc.Accessors[1].BufferView = nil
	_, err = readIndices(doc, 1)
	assert.ErrorIs(t, err, ErrMissingResource)
}

func TestReadAccessorWrongType(t *testing.T) {
	doc := stridedDoc()

	_, err := readPositions(doc, 1)
	assert.Error(t, err)

	_, err = readIndices(doc, 0)
	assert.Error(t, err)
}

// sparseDoc has a base of three collinear positions; a sparse entry moves
// the third one to {0, 1, 0}.
func sparseDoc() *gltf.Document {
	buf := bytes.NewBuffer(nil)
	binary.Write(buf, binary.LittleEndian, [][3]float32{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}})
	buf.Write([]byte{2, 0, 0, 0})
	binary.Write(buf, binary.LittleEndian, [3]float32{0, 1, 0})

	doc := newDoc()
	doc.Buffers = []*gltf.Buffer{{ByteLength: uint32(buf.Len()), Data: buf.Bytes()}}
	doc.BufferViews = []*gltf.BufferView{
		{Buffer: 0, ByteOffset: 0, ByteLength: 36},
		{Buffer: 0, ByteOffset: 36, ByteLength: 1},
		{Buffer: 0, ByteOffset: 40, ByteLength: 12},
	}
	doc.Accessors = []*gltf.Accessor{{
		BufferView:    uint32Ptr(0),
		ComponentType: gltf.ComponentFloat,
		Type:          gltf.AccessorVec3,
		Count:         3,
		Sparse: &gltf.Sparse{
			Count:   1,
			Indices: gltf.SparseIndices{BufferView: 1, ComponentType: gltf.ComponentUbyte},
			Values:  gltf.SparseValues{BufferView: 2},
		},
	}}
	return doc
}

func TestReadPositionsSparse(t *testing.T) {
	pts, err := readPositions(sparseDoc(), 0)
	require.NoError(t, err)
	assert.Equal(t, []vec3.T{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}, pts)
}

func TestTraverseSparsePrimitive(t *testing.T) {
	doc := sparseDoc()
	m := addMesh(doc, "sparse", &gltf.Primitive{
		Mode:       gltf.PrimitiveTriangles,
		Attributes: gltf.Attribute{"POSITION": 0},
	})
	addNode(doc, &gltf.Node{Mesh: uint32Ptr(m)})
	setRoots(doc, 0)

	scene := NewGltfScene(doc, nil)
	descs := NewTraverser(nil, nil).Traverse(scene, scene.RootNodes())
	require.Len(t, descs, 1)
	assert.Equal(t, vec3.T{0, 1, 0}, descs[0].Shape.Vertices[2])
}
