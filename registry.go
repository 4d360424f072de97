package hfsm

// stateRegistry answers activity queries and holds the pending-selection
// state mutated by transition requests, per §4.1. One stateRegistry is
// created per Machine instance; the static parent/shape tables it reads
// live on the shared, immutable Topology.
type stateRegistry struct {
	topo *Topology

	compoActive    []Prong // len compoCount
	compoResumable []Prong // len compoCount
	compoRequested []Prong // len compoCount; InvalidProng when untouched this pass
	compoRemains   bitArray // len compoCount

	orthoActive    bitArray // len orthoUnits; which child bits are active (always all-1 once entered)
	orthoResumable bitArray // len orthoUnits
	orthoRequested bitArray // len orthoUnits; which child bits are part of the current pass
}

func newStateRegistry(topo *Topology) *stateRegistry {
	r := &stateRegistry{
		topo:           topo,
		compoActive:    make([]Prong, topo.compoCount),
		compoResumable: make([]Prong, topo.compoCount),
		compoRequested: make([]Prong, topo.compoCount),
		compoRemains:   newBitArray(topo.compoCount),
		orthoActive:    newBitArray(topo.orthoUnits),
		orthoResumable: newBitArray(topo.orthoUnits),
		orthoRequested: newBitArray(topo.orthoUnits),
	}
	for c := range r.compoActive {
		r.compoActive[c] = InvalidProng
		r.compoResumable[c] = InvalidProng
		r.compoRequested[c] = InvalidProng
	}
	return r
}

func (r *stateRegistry) orthoSlice(region int) bitSlice {
	off, width := r.topo.orthoUnitOffsets[region], r.topo.orthoWidths[region]
	return bitSlice{arr: &r.orthoActive, unit: off, width: width}
}
func (r *stateRegistry) orthoResumableSlice(region int) bitSlice {
	off, width := r.topo.orthoUnitOffsets[region], r.topo.orthoWidths[region]
	return bitSlice{arr: &r.orthoResumable, unit: off, width: width}
}
func (r *stateRegistry) orthoRequestedSlice(region int) bitSlice {
	off, width := r.topo.orthoUnitOffsets[region], r.topo.orthoWidths[region]
	return bitSlice{arr: &r.orthoRequested, unit: off, width: width}
}

// IsActive walks from stateID to the root, comparing each ancestor's prong
// against the live selection. The root state is always active (subject to
// Machine's entered guard applied one level up, see machine.go).
func (r *stateRegistry) IsActive(id StateID) bool {
	return r.walk(id, func(fork ForkID, prong Prong) bool {
		if fork.isComposite() {
			return r.compoActive[fork.compoIndex()] == prong
		}
		return r.orthoSlice(fork.orthoIndex()).get(prong)
	})
}

// IsResumable mirrors IsActive but against the resumable snapshot.
func (r *stateRegistry) IsResumable(id StateID) bool {
	return r.walk(id, func(fork ForkID, prong Prong) bool {
		if fork.isComposite() {
			return r.compoResumable[fork.compoIndex()] == prong
		}
		return r.orthoResumableSlice(fork.orthoIndex()).get(prong)
	})
}

// IsPendingChange reports whether stateID's immediate region has a
// requested prong different from the currently active one.
func (r *stateRegistry) IsPendingChange(id StateID) bool {
	p := r.topo.stateParents[id]
	if p.isSentinel() {
		return false
	}
	if p.fork.isComposite() {
		c := p.fork.compoIndex()
		req := r.compoRequested[c]
		return req != InvalidProng && req != r.compoActive[c]
	}
	o := p.fork.orthoIndex()
	return r.orthoRequestedSlice(o).get(p.prong)
}

// IsPendingEnter reports whether stateID's prong is the requested one but
// not currently the active one (it is about to become active).
func (r *stateRegistry) IsPendingEnter(id StateID) bool {
	p := r.topo.stateParents[id]
	if p.isSentinel() {
		return false
	}
	if p.fork.isComposite() {
		c := p.fork.compoIndex()
		return r.compoRequested[c] == p.prong && r.compoActive[c] != p.prong
	}
	o := p.fork.orthoIndex()
	return r.orthoRequestedSlice(o).get(p.prong) && !r.orthoSlice(o).get(p.prong)
}

// IsPendingExit reports whether stateID's prong is currently active but a
// different prong has been requested (it is about to become inactive).
func (r *stateRegistry) IsPendingExit(id StateID) bool {
	p := r.topo.stateParents[id]
	if p.isSentinel() {
		return false
	}
	if p.fork.isComposite() {
		c := p.fork.compoIndex()
		return r.compoActive[c] == p.prong && r.compoRequested[c] != InvalidProng && r.compoRequested[c] != p.prong
	}
	// Orthogonal children never individually exit without the whole region
	// exiting: there is no partial-exit relation to report here.
	return false
}

// walk climbs from id to the root, calling test at every composite/ortho
// ancestor; it short-circuits false and returns true once it reaches the
// sentinel parent (the root is always considered active/resumable).
func (r *stateRegistry) walk(id StateID, test func(fork ForkID, prong Prong) bool) bool {
	for {
		p := r.topo.stateParents[id]
		if p.isSentinel() {
			return true
		}
		if !test(p.fork, p.prong) {
			return false
		}
		if p.fork.isComposite() {
			id = r.topo.compoHead[p.fork.compoIndex()]
		} else {
			id = r.topo.orthoHead[p.fork.orthoIndex()]
		}
	}
}

// requestImmediate implements §4.1's three-phase upward walk. It returns
// false only for stateID == 0 (the root cannot be requested).
func (r *stateRegistry) requestImmediate(stateID StateID) bool {
	if stateID == 0 {
		return false
	}
	p := r.topo.stateParents[stateID]
	phase := 1
	cur := stateID
	for !p.isSentinel() {
		switch phase {
		case 1:
			if p.fork.isComposite() {
				r.compoRequested[p.fork.compoIndex()] = p.prong
			} else {
				r.orthoRequestedSlice(p.fork.orthoIndex()).set(p.prong, true)
			}
			if p.fork.isComposite() {
				// First composite ancestor reached: phase 1 ends, phase 2 begins
				// at its own parent on the next iteration.
				phase = 2
			}
		case 2:
			if p.fork.isComposite() {
				c := p.fork.compoIndex()
				r.compoRemains.set(c, true)
				if r.compoActive[c] == p.prong {
					phase = 3
				} else {
					// This ancestor isn't already on the walked branch:
					// keep pinning compoRequested so the descent below
					// doesn't get re-resolved through its own strategy.
					r.compoRequested[c] = p.prong
				}
			} else {
				r.orthoRequestedSlice(p.fork.orthoIndex()).set(p.prong, true)
			}
		case 3:
			if p.fork.isComposite() {
				r.compoRemains.set(p.fork.compoIndex(), true)
			} else {
				r.orthoRequestedSlice(p.fork.orthoIndex()).set(p.prong, true)
			}
		}
		if p.fork.isComposite() {
			cur = r.topo.compoHead[p.fork.compoIndex()]
		} else {
			cur = r.topo.orthoHead[p.fork.orthoIndex()]
		}
		p = r.topo.stateParents[cur]
	}
	return true
}

// requestScheduled sets the resumable slot of stateID's immediate parent
// without propagating anything further up the tree (§4.1 Schedule).
func (r *stateRegistry) requestScheduled(stateID StateID) {
	p := r.topo.stateParents[stateID]
	if p.isSentinel() {
		return
	}
	if p.fork.isComposite() {
		r.compoResumable[p.fork.compoIndex()] = p.prong
	} else {
		r.orthoResumableSlice(p.fork.orthoIndex()).set(p.prong, true)
	}
}

// clearRequests zeroes compoRemains and every requested field, per §4.1.
func (r *stateRegistry) clearRequests() {
	r.compoRemains.clearAll()
	r.orthoRequested.clearAll()
	for c := range r.compoRequested {
		r.compoRequested[c] = InvalidProng
	}
}

// snapshotRequested captures requested.compo/ortho for substitution-pass
// rollback on guard cancellation (§4.5's `undo` snapshot).
type requestedSnapshot struct {
	compo []Prong
	ortho bitArray
}

func (r *stateRegistry) snapshotRequested() requestedSnapshot {
	compo := make([]Prong, len(r.compoRequested))
	copy(compo, r.compoRequested)
	return requestedSnapshot{compo: compo, ortho: r.orthoRequested.clone()}
}

func (r *stateRegistry) restoreRequested(s requestedSnapshot) {
	copy(r.compoRequested, s.compo)
	r.orthoRequested = s.ortho
}
