package collider

import (
	"errors"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func matchDoc(t *testing.T, doc *gltf.Document, cfg Config) (*recordingSink, MatchResult, error) {
	t.Helper()
	scene := NewGltfScene(doc, nil)
	descs := NewTraverser(nil, nil).Traverse(scene, scene.RootNodes())
	sink := &recordingSink{}
	res, err := NewMatcher(cfg, nil).Match(scene, descs, sink)
	return sink, res, err
}

func TestMatchThreeLevel(t *testing.T) {
	sink, res, err := matchDoc(t, threeLevelDoc(), DefaultConfig())
	require.NoError(t, err)

	require.Equal(t, []NodeID{1}, sink.nodes)
	c := sink.colliders[0]
	assert.False(t, c.Sensor)
	assert.True(t, c.Events.Has(CollisionEvents))
	assert.True(t, c.ContinuousCollision)
	assert.Equal(t, float32(1), c.Transform.Translation[0])
	assert.Equal(t, 1, c.Shape.TriangleCount())

	assert.Equal(t, 1, res.Attached)
	assert.Equal(t, 0, res.Inactive)
	require.Len(t, res.Decisions, 1)
	assert.Equal(t, ActivationDecision{Node: 1, Mode: ActiveSolid, Events: CollisionEvents, ContinuousCollision: true}, res.Decisions[0])
	assert.True(t, res.Decisions[0].ReportsEvents())
}

func TestMatchFalseIsInactive(t *testing.T) {
	doc := threeLevelDoc()
	doc.Nodes[1].Extras = map[string]interface{}{"collider": "false"}

	sink, res, err := matchDoc(t, doc, DefaultConfig())
	require.NoError(t, err)
	assert.Empty(t, sink.nodes)
	assert.Equal(t, 1, res.Inactive)
	require.Len(t, res.Decisions, 1)
	assert.Equal(t, Inactive, res.Decisions[0].Mode)
}

func TestMatchSensorConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Sensor = true
	cfg.ReportEvents = false

	sink, _, err := matchDoc(t, threeLevelDoc(), cfg)
	require.NoError(t, err)
	require.Len(t, sink.colliders, 1)
	assert.True(t, sink.colliders[0].Sensor)
	assert.False(t, sink.colliders[0].Events.Has(CollisionEvents))
}

func TestMatchCustomKeyAndBool(t *testing.T) {
	doc := threeLevelDoc()
	doc.Nodes[1].Extras = map[string]interface{}{"physics": true}
	cfg := DefaultConfig()
	cfg.EnableKey = "physics"

	sink, _, err := matchDoc(t, doc, cfg)
	require.NoError(t, err)
	assert.Equal(t, []NodeID{1}, sink.nodes)
}

func TestMatchMetadataDoesNotPropagate(t *testing.T) {
	doc := threeLevelDoc()
	doc.Nodes[0].Extras = map[string]interface{}{"collider": "true"}
	doc.Nodes[1].Extras = nil

	sink, res, err := matchDoc(t, doc, DefaultConfig())
	require.NoError(t, err)
	assert.Empty(t, sink.nodes)
	assert.Empty(t, res.Decisions)
}

func TestMatchMalformedMetadata(t *testing.T) {
	doc := newDoc()
	m1 := addTriangleMesh(doc, "M1")
	m2 := addTriangleMesh(doc, "M2")
	root := addNode(doc, &gltf.Node{Name: "root", Children: []uint32{1, 2}})
	addNode(doc, &gltf.Node{Name: "broken", Mesh: uint32Ptr(m1), Extras: "not-json"})
	addNode(doc, &gltf.Node{Name: "sibling", Mesh: uint32Ptr(m2), Extras: map[string]interface{}{"collider": "true"}})
	setRoots(doc, root)

	sink, res, err := matchDoc(t, doc, DefaultConfig())
	require.Error(t, err)

	var me *MetadataError
	require.True(t, errors.As(err, &me))
	assert.Equal(t, NodeID(1), me.Node)
	assert.Equal(t, "broken", me.Name)
	assert.Contains(t, err.Error(), "broken")

	assert.Equal(t, []NodeID{1}, res.Failed)
	assert.Equal(t, []NodeID{2}, sink.nodes)
}

func TestMatchMultiplePrimitivesParsedOnce(t *testing.T) {
	doc := newDoc()
	m := addMesh(doc, "two",
		addPrimitive(doc, gltf.PrimitiveTriangles, triangle, []uint32{0, 1, 2}),
		addPrimitive(doc, gltf.PrimitiveTriangles, quad, []uint32{0, 1, 2, 0, 2, 3}),
	)
	addNode(doc, &gltf.Node{Name: "n", Mesh: uint32Ptr(m), Extras: "{bad"})
	setRoots(doc, 0)

	_, res, err := matchDoc(t, doc, DefaultConfig())
	require.Error(t, err)
	assert.Equal(t, []NodeID{0}, res.Failed)
}

func TestMatchAttachError(t *testing.T) {
	scene := NewGltfScene(threeLevelDoc(), nil)
	descs := NewTraverser(nil, nil).Traverse(scene, scene.RootNodes())
	sink := &recordingSink{err: ErrNotSpawned}

	res, err := NewMatcher(DefaultConfig(), nil).Match(scene, descs, sink)
	assert.ErrorIs(t, err, ErrNotSpawned)
	assert.Equal(t, 0, res.Attached)
}

func TestActivationModeString(t *testing.T) {
	assert.Equal(t, "inactive", Inactive.String())
	assert.Equal(t, "active-solid", ActiveSolid.String())
	assert.Equal(t, "active-sensor", ActiveSensor.String())
	assert.False(t, Inactive.Active())
	assert.True(t, ActiveSensor.Active())
}
