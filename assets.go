package collider

import (
	"log/slog"

	"github.com/qmuntal/gltf"
	"github.com/xtgo/uuid"
)

// Handle is an opaque reference to a requested asset.
type Handle struct {
	id uuid.UUID
}

func newHandle() Handle {
	return Handle{id: uuid.NewRandom()}
}

func (h Handle) String() string {
	return h.id.String()
}

func (h Handle) IsZero() bool {
	return h == Handle{}
}

type AssetEventKind uint8

const (
	AssetCreated AssetEventKind = iota
	AssetFailed
)

func (k AssetEventKind) String() string {
	if k == AssetCreated {
		return "created"
	}
	return "failed"
}

type AssetEvent struct {
	Kind   AssetEventKind
	Handle Handle
	Path   string
	Err    error
}

type asset struct {
	path  string
	scene *GltfScene
}

// AssetServer loads glTF scenes and queues readiness events for the host
// loop. Loading is synchronous; events are delivered on the next Drain.
type AssetServer struct {
	assets map[Handle]*asset
	events []AssetEvent
	logger *slog.Logger
	open   func(string) (*gltf.Document, error)
}

func NewAssetServer(logger *slog.Logger) *AssetServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &AssetServer{
		assets: make(map[Handle]*asset),
		logger: logger,
		open:   gltf.Open,
	}
}

// Load decodes the scene at path and returns its handle.
func (s *AssetServer) Load(path string) Handle {
	h := newHandle()
	doc, err := s.open(path)
	if err != nil {
		s.logger.Error("asset load failed", "path", path, "handle", h.String(), "error", err)
		s.events = append(s.events, AssetEvent{Kind: AssetFailed, Handle: h, Path: path, Err: err})
		return h
	}
	s.assets[h] = &asset{path: path, scene: NewGltfScene(doc, s.logger)}
	s.logger.Debug("asset loaded", "path", path, "handle", h.String(), "nodes", len(doc.Nodes))
	s.events = append(s.events, AssetEvent{Kind: AssetCreated, Handle: h, Path: path})
	return h
}

// Insert registers an already decoded document.
func (s *AssetServer) Insert(doc *gltf.Document) Handle {
	h := newHandle()
	s.assets[h] = &asset{scene: NewGltfScene(doc, s.logger)}
	s.events = append(s.events, AssetEvent{Kind: AssetCreated, Handle: h})
	return h
}

// Signal queues another created event for a loaded handle.
func (s *AssetServer) Signal(h Handle) error {
	a, ok := s.assets[h]
	if !ok {
		return ErrUnknownHandle
	}
	s.events = append(s.events, AssetEvent{Kind: AssetCreated, Handle: h, Path: a.path})
	return nil
}

// Drain returns the queued events and clears the queue.
func (s *AssetServer) Drain() []AssetEvent {
	ev := s.events
	s.events = nil
	return ev
}

func (s *AssetServer) Scene(h Handle) (*GltfScene, bool) {
	a, ok := s.assets[h]
	if !ok {
		return nil, false
	}
	return a.scene, true
}
