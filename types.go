package collider

import "errors"

const DefaultEnableKey string = "collider"

// ActivationMode is the outcome of matching a node's metadata.
type ActivationMode uint8

const (
	Inactive ActivationMode = iota
	ActiveSolid
	ActiveSensor
)

func (m ActivationMode) String() string {
	switch m {
	case Inactive:
		return "inactive"
	case ActiveSolid:
		return "active-solid"
	case ActiveSensor:
		return "active-sensor"
	}
	return "unknown"
}

func (m ActivationMode) Active() bool {
	return m == ActiveSolid || m == ActiveSensor
}

// ActiveEvents selects which events the simulation reports for a collider.
type ActiveEvents uint32

const (
	CollisionEvents ActiveEvents = 1 << iota
	ContactForceEvents
)

func (e ActiveEvents) Has(f ActiveEvents) bool {
	return e&f == f
}

var (
	ErrDegenerate          = errors.New("degenerate geometry")
	ErrUnsupportedTopology = errors.New("unsupported primitive topology")
	ErrMissingResource     = errors.New("missing resource")
	ErrNotSpawned          = errors.New("node not spawned")
	ErrUnknownHandle       = errors.New("unknown asset handle")
)
