package collider

import (
	"fmt"

	"github.com/flywave/go3d/vec3"
)

type EntityID uint64

// Entity is the runtime representation of a spawned scene node.
type Entity struct {
	ID        EntityID
	Node      NodeID
	Name      string
	Parent    *Entity
	Transform Transform
	Colliders []*Collider
}

// WorldPoint maps a point from the entity's local space to world space by
// applying its transform and every ancestor's.
func (e *Entity) WorldPoint(p vec3.T) vec3.T {
	for cur := e; cur != nil; cur = cur.Parent {
		p = cur.Transform.Apply(p)
	}
	return p
}

// SceneInstance is one spawned copy of a scene.
type SceneInstance struct {
	Roots    []*Entity
	entities map[NodeID]*Entity
	order    []*Entity
}

// Attach implements ColliderSink.
func (si *SceneInstance) Attach(node NodeID, c *Collider) error {
	e, ok := si.entities[node]
	if !ok {
		return fmt.Errorf("%w: node %d", ErrNotSpawned, node)
	}
	e.Colliders = append(e.Colliders, c)
	return nil
}

func (si *SceneInstance) Entity(node NodeID) (*Entity, bool) {
	e, ok := si.entities[node]
	return e, ok
}

// Entities lists entities in spawn order.
func (si *SceneInstance) Entities() []*Entity {
	return si.order
}

// World holds spawned scenes and the colliders attached to them.
type World struct {
	Instances []*SceneInstance
	nextID    EntityID
}

func NewWorld() *World {
	return &World{}
}

// SpawnScene creates one entity per node reachable from the scene roots.
func (w *World) SpawnScene(scene Scene) *SceneInstance {
	si := &SceneInstance{entities: make(map[NodeID]*Entity)}
	limit := scene.NodeCount()

	var spawn func(id NodeID, parent *Entity, depth int) *Entity
	spawn = func(id NodeID, parent *Entity, depth int) *Entity {
		if depth > limit {
			return nil
		}
		if _, dup := si.entities[id]; dup {
			return nil
		}
		nd, ok := scene.Node(id)
		if !ok {
			return nil
		}
		w.nextID++
		e := &Entity{
			ID:        w.nextID,
			Node:      id,
			Name:      nd.Name,
			Parent:    parent,
			Transform: nd.Transform,
		}
		si.entities[id] = e
		si.order = append(si.order, e)
		for _, c := range nd.Children {
			spawn(c, e, depth+1)
		}
		return e
	}

	for _, r := range scene.RootNodes() {
		if e := spawn(r, nil, 0); e != nil {
			si.Roots = append(si.Roots, e)
		}
	}
	w.Instances = append(w.Instances, si)
	return si
}

// Colliders returns every attached collider with its entity, in spawn order.
func (w *World) Colliders() []EntityCollider {
	var out []EntityCollider
	for _, si := range w.Instances {
		for _, e := range si.order {
			for _, c := range e.Colliders {
				out = append(out, EntityCollider{Entity: e, Collider: c})
			}
		}
	}
	return out
}

type EntityCollider struct {
	Entity   *Entity
	Collider *Collider
}
