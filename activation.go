package collider

import (
	"errors"
	"fmt"
	"log/slog"
)

// ActivationDecision is the per-node outcome of matching.
type ActivationDecision struct {
	Node                NodeID
	Mode                ActivationMode
	Events              ActiveEvents
	ContinuousCollision bool
}

func (d ActivationDecision) ReportsEvents() bool {
	return d.Events.Has(CollisionEvents)
}

// Collider is what gets attached to a node's runtime entity.
type Collider struct {
	Shape               *TriMeshShape
	Transform           Transform
	Sensor              bool
	Events              ActiveEvents
	ContinuousCollision bool
}

// ColliderSink is the attach side of the simulation collaborator.
type ColliderSink interface {
	Attach(node NodeID, c *Collider) error
}

// MetadataError reports a node whose metadata cannot be parsed.
type MetadataError struct {
	Node NodeID
	Name string
	Err  error
}

func (e *MetadataError) Error() string {
	return fmt.Sprintf("node %d (%q): malformed metadata: %v", e.Node, e.Name, e.Err)
}

func (e *MetadataError) Unwrap() error {
	return e.Err
}

type MatchResult struct {
	Decisions []ActivationDecision
	Attached  int
	Inactive  int
	Failed    []NodeID
}

// Matcher decides activation for descriptors whose own source node
// carries metadata. Metadata does not propagate to descendants.
type Matcher struct {
	Config Config
	Logger *slog.Logger
}

func NewMatcher(cfg Config, logger *slog.Logger) *Matcher {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.EnableKey == "" {
		cfg.EnableKey = DefaultEnableKey
	}
	return &Matcher{Config: cfg, Logger: logger}
}

type nodeMeta struct {
	node     *SceneNode
	decision ActivationDecision
	err      error
}

func (m *Matcher) Match(scene Scene, descs []ColliderDescriptor, sink ColliderSink) (MatchResult, error) {
	var res MatchResult
	var errs []error
	seen := make(map[NodeID]*nodeMeta)

	for i := range descs {
		desc := &descs[i]
		meta, ok := seen[desc.Node]
		if !ok {
			meta = m.decide(scene, desc.Node)
			seen[desc.Node] = meta
			if meta != nil {
				if meta.err != nil {
					res.Failed = append(res.Failed, desc.Node)
					errs = append(errs, meta.err)
					m.Logger.Error("metadata rejected", "node", desc.Node, "name", meta.node.Name, "error", meta.err)
				} else {
					res.Decisions = append(res.Decisions, meta.decision)
				}
			}
		}
		if meta == nil || meta.err != nil {
			continue
		}

		d := meta.decision
		if !d.Mode.Active() {
			res.Inactive++
			m.Logger.Debug("collider inactive", "node", desc.Node, "name", meta.node.Name, "primitive", desc.Primitive)
			continue
		}
		c := &Collider{
			Shape:               desc.Shape,
			Transform:           desc.Transform,
			Sensor:              d.Mode == ActiveSensor,
			Events:              d.Events,
			ContinuousCollision: d.ContinuousCollision,
		}
		if err := sink.Attach(desc.Node, c); err != nil {
			errs = append(errs, fmt.Errorf("attach collider to node %d: %w", desc.Node, err))
			continue
		}
		res.Attached++
		m.Logger.Info("collider attached", "node", desc.Node, "name", meta.node.Name,
			"mode", d.Mode.String(), "triangles", desc.Shape.TriangleCount())
	}
	return res, errors.Join(errs...)
}

// decide returns nil for nodes without metadata.
func (m *Matcher) decide(scene Scene, id NodeID) *nodeMeta {
	nd, ok := scene.Node(id)
	if !ok || !nd.HasExtras {
		return nil
	}
	meta := &nodeMeta{node: nd}
	props, err := ParseProperties(nd.Extras)
	if err != nil {
		meta.err = &MetadataError{Node: id, Name: nd.Name, Err: err}
		return meta
	}
	on, _ := props.Flag(m.Config.EnableKey)
	meta.decision = m.Config.ActivationFor(on)
	meta.decision.Node = id
	return meta
}
