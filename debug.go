package collider

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

const (
	GLTFVersion = "2.0"

	// PaddingChar pads GLB output to the requested unit.
	PaddingChar = 0x20
)

func CreateDoc() *gltf.Document {
	doc := &gltf.Document{
		Asset: gltf.Asset{
			Version:   GLTFVersion,
			Generator: "go-collider",
		},
		Scenes: []*gltf.Scene{{}},
	}
	sceneIndex := uint32(0)
	doc.Scene = &sceneIndex
	return doc
}

// ExportColliders builds a glTF document holding every collider of the
// world as one mesh, with vertices already in world space. Extras carry the
// collider flags.
func ExportColliders(w *World) (*gltf.Document, error) {
	doc := CreateDoc()
	for i, ec := range w.Colliders() {
		c := ec.Collider
		if c.Shape == nil {
			return nil, fmt.Errorf("collider %d on entity %d has no shape", i, ec.Entity.ID)
		}
		positions := make([][3]float32, len(c.Shape.Vertices))
		for j, v := range c.Shape.Vertices {
			positions[j] = [3]float32(ec.Entity.WorldPoint(v))
		}

		posIndex := modeler.WritePosition(doc, positions)
		idxIndex := modeler.WriteIndices(doc, c.Shape.Indices())

		meshIndex := uint32(len(doc.Meshes))
		doc.Meshes = append(doc.Meshes, &gltf.Mesh{
			Name: ec.Entity.Name,
			Primitives: []*gltf.Primitive{{
				Indices:    uint32Ptr(idxIndex),
				Mode:       gltf.PrimitiveTriangles,
				Attributes: gltf.Attribute{"POSITION": posIndex},
			}},
		})

		nodeIndex := uint32(len(doc.Nodes))
		doc.Nodes = append(doc.Nodes, &gltf.Node{
			Name: ec.Entity.Name,
			Mesh: uint32Ptr(meshIndex),
			Extras: map[string]interface{}{
				"node":                 uint32(ec.Entity.Node),
				"sensor":               c.Sensor,
				"collision_events":     c.Events.Has(CollisionEvents),
				"continuous_collision": c.ContinuousCollision,
			},
		})
		doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, nodeIndex)
	}
	return doc, nil
}

// bufferWriter counts the bytes written through it.
type bufferWriter struct {
	writer io.Writer
	size   int
}

func (w *bufferWriter) Write(p []byte) (int, error) {
	n, err := w.writer.Write(p)
	w.size += n
	return n, err
}

func (w *bufferWriter) Bytes() []byte {
	return w.writer.(*bytes.Buffer).Bytes()
}

func newBufferWriter() *bufferWriter {
	return &bufferWriter{writer: bytes.NewBuffer(nil)}
}

func calcPadding(offset, unit int) int {
	padding := offset % unit
	if padding != 0 {
		padding = unit - padding
	}
	return padding
}

// GetGltfBinary encodes doc as GLB, padded to a multiple of paddingUnit.
func GetGltfBinary(doc *gltf.Document, paddingUnit int) ([]byte, error) {
	writer := newBufferWriter()

	encoder := gltf.NewEncoder(writer)
	encoder.AsBinary = true
	if err := encoder.Encode(doc); err != nil {
		return nil, err
	}

	if paddingUnit <= 0 {
		return writer.Bytes(), nil
	}
	padding := calcPadding(writer.size, paddingUnit)
	if padding == 0 {
		return writer.Bytes(), nil
	}
	writer.Write(bytes.Repeat([]byte{PaddingChar}, padding))
	return writer.Bytes(), nil
}

// WriteColliderGlb exports the world's colliders to path.
func WriteColliderGlb(w *World, path string) error {
	doc, err := ExportColliders(w)
	if err != nil {
		return err
	}
	bt, err := GetGltfBinary(doc, 4)
	if err != nil {
		return fmt.Errorf("encode colliders: %w", err)
	}
	return os.WriteFile(path, bt, 0644)
}

func uint32Ptr(v uint32) *uint32 {
	return &v
}
