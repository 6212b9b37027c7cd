package collider

import (
	"errors"
	"fmt"
	"log/slog"
)

// Report summarizes one processed asset.
type Report struct {
	Handle      Handle
	Instance    *SceneInstance
	Descriptors int
	Attached    int
	Inactive    int
	Failed      []NodeID
}

// Processor is the host-side step that reacts to asset readiness. It is
// driven by Tick from a single goroutine.
type Processor struct {
	cfg       Config
	assets    *AssetServer
	world     *World
	gate      *LoadGate
	traverser *Traverser
	matcher   *Matcher
	logger    *slog.Logger
}

func NewProcessor(cfg Config, assets *AssetServer, world *World, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		cfg:       cfg,
		assets:    assets,
		world:     world,
		gate:      &LoadGate{},
		traverser: NewTraverser(NewExtractor(TriMeshBuilder{}, logger), logger),
		matcher:   NewMatcher(cfg, logger),
		logger:    logger,
	}
}

// Request loads path and arms the gate for its handle.
func (p *Processor) Request(path string) Handle {
	h := p.assets.Load(path)
	p.gate.Expect(h)
	return h
}

// Expect arms the gate for a handle obtained elsewhere.
func (p *Processor) Expect(h Handle) {
	p.gate.Expect(h)
}

func (p *Processor) Gate() *LoadGate {
	return p.gate
}

func (p *Processor) World() *World {
	return p.world
}

// Tick drains pending asset events and processes the expected asset at most
// once. Metadata failures are returned after the rest of the asset has been
// processed.
func (p *Processor) Tick() ([]Report, error) {
	var reports []Report
	var errs []error
	for _, ev := range p.assets.Drain() {
		if ev.Kind == AssetFailed {
			if ev.Handle == p.gate.Expected() && p.gate.State() == GateWaiting {
				errs = append(errs, fmt.Errorf("load %s: %w", ev.Path, ev.Err))
			}
			continue
		}
		if !p.gate.Offer(ev.Handle) {
			p.logger.Debug("asset event ignored", "handle", ev.Handle.String(), "gate", p.gate.State().String())
			continue
		}
		rep, err := p.process(ev.Handle)
		reports = append(reports, rep)
		if err != nil {
			errs = append(errs, err)
		}
	}
	return reports, errors.Join(errs...)
}

func (p *Processor) process(h Handle) (Report, error) {
	rep := Report{Handle: h}
	scene, ok := p.assets.Scene(h)
	if !ok {
		return rep, fmt.Errorf("%w: %s", ErrUnknownHandle, h)
	}

	rep.Instance = p.world.SpawnScene(scene)
	descs := p.traverser.Traverse(scene, scene.RootNodes())
	rep.Descriptors = len(descs)

	res, err := p.matcher.Match(scene, descs, rep.Instance)
	rep.Attached = res.Attached
	rep.Inactive = res.Inactive
	rep.Failed = res.Failed

	p.logger.Info("asset processed", "handle", h.String(), "descriptors", rep.Descriptors,
		"attached", rep.Attached, "inactive", rep.Inactive, "failed", len(rep.Failed))
	if err != nil {
		return rep, fmt.Errorf("asset %s: %w", h, err)
	}
	return rep, nil
}
