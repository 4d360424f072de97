package hfsm

// StateID is a dense integer identifying a state, assigned by pre-order
// traversal of the tree at build time. The root state is always 0.
type StateID int

// RegionID is a dense integer identifying an interior region (composite or
// orthogonal), assigned by pre-order traversal at build time.
type RegionID int

// ForkID identifies a region by kind and index: a positive value +k names
// the k-th composite region (1-based); a negative value -k names the k-th
// orthogonal region (1-based). Zero is reserved and never assigned to a
// real region.
type ForkID int

// Prong is the index of a child within its region's child list.
type Prong int

// InvalidStateID marks the absence of a state.
const InvalidStateID StateID = -1

// InvalidRegionID marks the absence of a region.
const InvalidRegionID RegionID = -1

// InvalidForkID marks the sentinel/root parent fork.
const InvalidForkID ForkID = 0

// InvalidProng marks "no prong selected" (e.g. a composite region that has
// never been entered, or one whose resumable slot was never recorded).
const InvalidProng Prong = -1

// isComposite reports whether a ForkID names a composite region.
func (f ForkID) isComposite() bool { return f > 0 }

// isOrthogonal reports whether a ForkID names an orthogonal region.
func (f ForkID) isOrthogonal() bool { return f < 0 }

// compoIndex converts a positive composite ForkID into a 0-based index into
// the composite-region tables. Callers must check isComposite first.
func (f ForkID) compoIndex() int { return int(f) - 1 }

// orthoIndex converts a negative orthogonal ForkID into a 0-based index into
// the orthogonal-region tables. Callers must check isOrthogonal first.
func (f ForkID) orthoIndex() int { return int(-f) - 1 }

// parent records which region a state belongs to, and its position in it.
// The root state carries the sentinel parent (InvalidForkID, InvalidProng).
type parent struct {
	fork  ForkID
	prong Prong
}

var sentinelParent = parent{fork: InvalidForkID, prong: InvalidProng}

func (p parent) isSentinel() bool { return p.fork == InvalidForkID }
