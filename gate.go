package collider

type GateState uint8

const (
	GateIdle GateState = iota
	GateWaiting
	GateConsumed
)

func (s GateState) String() string {
	switch s {
	case GateIdle:
		return "idle"
	case GateWaiting:
		return "waiting"
	case GateConsumed:
		return "consumed"
	}
	return "unknown"
}

// LoadGate lets exactly one traversal run for the expected handle.
type LoadGate struct {
	expected Handle
	state    GateState
}

func NewLoadGate(h Handle) *LoadGate {
	g := &LoadGate{}
	g.Expect(h)
	return g
}

// Expect arms the gate for a new handle.
func (g *LoadGate) Expect(h Handle) {
	g.expected = h
	g.state = GateWaiting
}

// Offer reports whether a ready signal for h should trigger processing. It
// returns true at most once per Expect.
func (g *LoadGate) Offer(h Handle) bool {
	if g.state != GateWaiting || h != g.expected {
		return false
	}
	g.state = GateConsumed
	return true
}

func (g *LoadGate) State() GateState {
	return g.state
}

func (g *LoadGate) Expected() Handle {
	return g.expected
}
