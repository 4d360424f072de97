package hfsm

import "github.com/google/uuid"

// SubstitutionLimit bounds the number of guard-driven re-resolution passes
// processTransitions performs per Update/React call before giving up and
// committing whatever selection survived (§4.5, §7.2).
const SubstitutionLimit = 4

// Machine is the root driver over a compiled Topology: one instance per
// running state tree. A Topology may be shared by many Machines; all
// per-instance mutable state lives here, in registry and plan.
//
// Unlike a networked actor that ticks across goroutines under a mutex,
// Machine is single-threaded and reentrant only from the call that invoked
// it: Update/React/ChangeTo and friends must not be called concurrently
// from multiple goroutines, nor recursively from within a lifecycle
// callback (§1's "single-threaded ticking" non-goal rules out the
// concurrent model this engine's ancestor supported).
type Machine struct {
	id  uuid.UUID
	topo *Topology

	registry *stateRegistry
	plan     *planData

	userContext any
	logger      Logger
	random      Random

	stateData []any
	entered   bool

	pending []Request
	locked  bool
}

// Option configures a Machine at construction time.
type Option func(*Machine)

// WithContext attaches an opaque value every Control.Context() call returns.
func WithContext(ctx any) Option {
	return func(m *Machine) { m.userContext = ctx }
}

// WithLogger attaches a Logger. Default: NopLogger.
func WithLogger(l Logger) Option {
	return func(m *Machine) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithRandom attaches a Random source consumed by RandomUtil regions.
// Default: DefaultRandom.
func WithRandom(r Random) Option {
	return func(m *Machine) {
		if r != nil {
			m.random = r
		}
	}
}

// NewMachine constructs a Machine over topo. The machine is built but not
// yet entered; call Start to run the initial-entry sequence.
func NewMachine(topo *Topology, opts ...Option) (*Machine, error) {
	if topo == nil || topo.root == nil {
		return nil, newError(ErrCodeNotBuilt, "hfsm: NewMachine called with a nil/unbuilt Topology")
	}
	id, err := uuid.NewRandom()
	if err != nil {
		id = uuid.Nil
	}
	m := &Machine{
		id:        id,
		topo:      topo,
		registry:  newStateRegistry(topo),
		plan:      newPlanData(topo),
		logger:    NopLogger{},
		random:    DefaultRandom{},
		stateData: make([]any, topo.stateCount),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// ID returns the machine's instance identifier.
func (m *Machine) ID() uuid.UUID { return m.id }

// StateName returns the build-time debug label for id.
func (m *Machine) StateName(id StateID) string { return m.topo.StateName(id) }

// IsActive reports whether id is currently active.
func (m *Machine) IsActive(id StateID) bool {
	if id == 0 {
		return m.entered
	}
	return m.entered && m.registry.IsActive(id)
}

// IsResumable reports whether id is its region's recorded resumable prong
// and every ancestor is likewise its own region's resumable prong, up to
// the root.
func (m *Machine) IsResumable(id StateID) bool { return m.registry.IsResumable(id) }

// SetStateData stashes an arbitrary payload against a state. A non-nil
// Request.Payload is stored in the same slot when its request is applied.
func (m *Machine) SetStateData(id StateID, data any) error {
	if err := m.topo.validateStateID(id); err != nil {
		return err
	}
	m.stateData[id] = data
	return nil
}

// GetStateData returns the payload previously stashed via SetStateData.
func (m *Machine) GetStateData(id StateID) any {
	if int(id) < 0 || int(id) >= len(m.stateData) {
		return nil
	}
	return m.stateData[id]
}

// IsStateDataSet reports whether a non-nil payload is currently stored for
// id, whether by SetStateData or by a request payload.
func (m *Machine) IsStateDataSet(id StateID) bool {
	return m.GetStateData(id) != nil
}

// ResetStateData clears a previously stashed payload.
func (m *Machine) ResetStateData(id StateID) error {
	if err := m.topo.validateStateID(id); err != nil {
		return err
	}
	m.stateData[id] = nil
	return nil
}

func (m *Machine) enqueueTop(kind Kind, state StateID) error {
	if state == 0 {
		return NewRootRequestRejectedError()
	}
	if err := m.topo.validateStateID(state); err != nil {
		return err
	}
	m.pending = append(m.pending, newRequest(kind, state, nil))
	m.logger.RecordTransition(InvalidStateID, kind, state)
	return nil
}

// ChangeTo requests state via its region's configured strategy.
func (m *Machine) ChangeTo(state StateID) error { return m.enqueueTop(Change, state) }

// Restart requests state's region reset to its first prong.
func (m *Machine) Restart(state StateID) error { return m.enqueueTop(Restart, state) }

// Resume requests state's region restored to its last-active prong.
func (m *Machine) Resume(state StateID) error { return m.enqueueTop(Resume, state) }

// Utilize requests state's region resolved via the Utilitarian strategy.
func (m *Machine) Utilize(state StateID) error { return m.enqueueTop(Utilize, state) }

// Randomize requests state's region resolved via the RandomUtil strategy.
func (m *Machine) Randomize(state StateID) error { return m.enqueueTop(Randomize, state) }

// Schedule records state as its region's resumable prong without
// propagating any change.
func (m *Machine) Schedule(state StateID) error { return m.enqueueTop(Schedule, state) }

// Start runs the initial-entry sequence: seeds prong-0 selections down
// every composite spine via an apex-level Restart request, then enters the
// whole tree. Calling Start twice is a no-op.
func (m *Machine) Start() {
	if m.entered {
		return
	}
	root := m.rootControl()
	m.topo.root.request(root, Restart)
	pc := newPlanControl(root)
	m.topo.root.enter(pc)
	m.entered = true
}

// Stop exits the whole tree. Calling Stop before Start, or twice, is a no-op.
func (m *Machine) Stop() {
	if !m.entered {
		return
	}
	root := m.rootControl()
	pc := newPlanControl(root)
	m.topo.root.exit(pc)
	m.entered = false
}

func (m *Machine) rootControl() Control {
	return newControl(m, RegionID(0), 0, span{first: 0, size: m.topo.stateCount})
}

// Update runs one tick: every active state's Update, then the substitution
// loop over whatever got queued, then plan advancement — repeated until a
// round produces no further requests.
func (m *Machine) Update() {
	if !m.entered {
		return
	}
	root := m.rootControl()
	fc := newFullControl(newPlanControl(root), &m.pending, &m.locked)
	m.topo.root.update(fc)
	m.runToQuiescence()
}

// React dispatches event to every active state's React, then runs the same
// substitution-loop and plan-advancement machinery as Update.
func (m *Machine) React(event any) {
	if !m.entered {
		return
	}
	root := m.rootControl()
	fc := newFullControl(newPlanControl(root), &m.pending, &m.locked)
	m.topo.root.react(event, fc)
	m.runToQuiescence()
}

// runToQuiescence alternates processTransitions (resolve whatever is
// currently pending) and advancePlans (which may queue the next task in a
// plan's sequence) until neither has anything left to do.
func (m *Machine) runToQuiescence() {
	for {
		m.processTransitions()
		if !m.advancePlans() {
			return
		}
	}
}

// processTransitions implements §4.5's bounded substitution loop: apply
// whatever was queued, let entry/exit guards run, roll back and retry (up
// to SubstitutionLimit times) if any guard calls CancelPendingTransitions.
func (m *Machine) processTransitions() {
	for pass := 0; pass < SubstitutionLimit; pass++ {
		if len(m.pending) == 0 {
			return
		}
		requests := m.pending
		m.pending = nil

		snapshot := m.registry.snapshotRequested()
		m.registry.clearRequests()

		for _, req := range requests {
			if !req.Kind.isChangeLike() {
				m.registry.requestScheduled(req.State)
				continue
			}
			root := m.rootControl()
			// requestImmediate pins the exact ancestor chain down to
			// req.State; forwardActive then walks that chain, switching
			// into request mode the moment it hits a pinned branch
			// (§4.5). The false case (root state requested) can't occur
			// through the public API (enqueueTop rejects it earlier),
			// but is still handled per the original driver's shape.
			if m.registry.requestImmediate(req.State) {
				m.topo.root.forwardActive(root, req.Kind)
			} else {
				m.topo.root.request(root, req.Kind)
			}
			if req.Payload != nil {
				m.stateData[req.State] = req.Payload
			}
		}

		cancelled := false
		root := m.rootControl()
		fc := newFullControl(newPlanControl(root), &m.pending, &m.locked)
		gc := newGuardControl(fc, &cancelled)
		m.topo.root.forwardEntryGuard(gc)
		m.topo.root.forwardExitGuard(gc)

		if cancelled {
			m.registry.restoreRequested(snapshot)
			m.logger.RecordCancelledPending(InvalidStateID)
			continue
		}

		m.locked = true
		m.changeToRequested()
		m.locked = false
	}
	m.pending = m.pending[:0]
}

// changeToRequested walks the tree, exiting branches whose requested prong
// differs from the active one and entering/reentering the requested branch,
// then clears the requested bookkeeping for the next pass.
func (m *Machine) changeToRequested() {
	root := m.rootControl()
	pc := newPlanControl(root)
	exitStaleBranches(m.topo.root, pc)
	enterRequestedBranches(m.topo.root, pc)
	m.registry.clearRequests()
}

// exitStaleBranches recurses down, exiting any composite/orthogonal child
// branch whose active prong no longer matches what's requested, bottom-up.
func exitStaleBranches(n Node, pc PlanControl) {
	switch node := n.(type) {
	case *compositeNode:
		m := pc.m
		req := m.registry.compoRequested[node.compoIndex]
		active := m.registry.compoActive[node.compoIndex]
		if active == InvalidProng {
			return
		}
		if req == InvalidProng {
			// This composite's own branch wasn't pinned (it already
			// matched the walk, per requestImmediate's phase 2->3
			// switch), but compoRemains marks it as an ancestor of a
			// deeper change: keep walking its still-active branch to
			// find it instead of stopping the recursion here.
			if !m.registry.compoRemains.get(node.compoIndex) {
				return
			}
			childPC := pc.scopedTo(node.regionID, node.children[active].headState(), node.span)
			exitStaleBranches(node.children[active], childPC)
			return
		}
		childPC := pc.scopedTo(node.regionID, node.children[active].headState(), node.span)
		if req != active {
			node.children[active].exit(childPC)
			return
		}
		exitStaleBranches(node.children[active], childPC)
	case *orthogonalNode:
		m := pc.m
		active := m.registry.orthoSlice(node.orthoIndex)
		req := m.registry.orthoRequestedSlice(node.orthoIndex)
		for i, child := range node.children {
			if !active.get(Prong(i)) {
				continue
			}
			childPC := pc.scopedTo(node.regionID, child.headState(), node.span)
			if req.get(Prong(i)) {
				exitStaleBranches(child, childPC)
			}
		}
	}
}

// enterRequestedBranches recurses down, entering any branch that was just
// vacated by exitStaleBranches (active==Invalid, requested!=Invalid) and
// recursing into branches whose requested prong matches what was already
// active. A branch that was already active is not re-entered: neither
// enter nor reenter is called on it.
func enterRequestedBranches(n Node, pc PlanControl) {
	switch node := n.(type) {
	case *compositeNode:
		m := pc.m
		req := m.registry.compoRequested[node.compoIndex]
		if req == InvalidProng {
			// Same unpinned-but-remains case as exitStaleBranches: this
			// composite's own selection didn't change, but requestImmediate
			// marked it as being on the path of a deeper change; keep
			// walking its active branch to reach it.
			active := m.registry.compoActive[node.compoIndex]
			if active == InvalidProng || !m.registry.compoRemains.get(node.compoIndex) {
				return
			}
			childPC := pc.scopedTo(node.regionID, node.children[active].headState(), node.span)
			enterRequestedBranches(node.children[active], childPC)
			return
		}
		active := m.registry.compoActive[node.compoIndex]
		childPC := pc.scopedTo(node.regionID, node.children[req].headState(), node.span)
		if active == req {
			enterRequestedBranches(node.children[req], childPC)
			return
		}
		// resumable records the prong that was active immediately before
		// this switch (§4.1's "last-active" recency), not the one just
		// entered: a region switched twice (A -> B -> A) must resume back
		// into B, the one displaced by the final switch, not re-affirm A.
		m.registry.compoResumable[node.compoIndex] = active
		m.registry.compoActive[node.compoIndex] = req
		node.children[req].enter(childPC)
	case *orthogonalNode:
		m := pc.m
		req := m.registry.orthoRequestedSlice(node.orthoIndex)
		active := m.registry.orthoSlice(node.orthoIndex)
		resumable := m.registry.orthoResumableSlice(node.orthoIndex)
		for i, child := range node.children {
			if !req.get(Prong(i)) {
				continue
			}
			childPC := pc.scopedTo(node.regionID, child.headState(), node.span)
			if active.get(Prong(i)) {
				enterRequestedBranches(child, childPC)
				continue
			}
			active.set(Prong(i), true)
			resumable.set(Prong(i), true)
			child.enter(childPC)
		}
	}
}

// advancePlans walks every region with an outstanding plan, consuming the
// head task's recorded success/failure bit and appending the task's own
// request (its Kind and Destination) or clearing the plan on failure (§4.2). It reports
// whether any new request was queued, so the caller knows whether another
// processTransitions round is needed.
func (m *Machine) advancePlans() bool {
	queued := false
	for r := 0; r < m.topo.regionCount; r++ {
		region := RegionID(r)
		for {
			task, ok := m.plan.headTask(region)
			if !ok {
				break
			}
			if !m.registry.IsActive(task.Origin) {
				break
			}
			succeeded := m.plan.taskSucceeded.get(int(task.Origin))
			failed := m.plan.taskFailed.get(int(task.Origin))
			if !succeeded && !failed {
				break
			}
			m.plan.taskSucceeded.set(int(task.Origin), false)
			m.plan.taskFailed.set(int(task.Origin), false)
			m.plan.remove(region, task.Index)
			m.logger.RecordPlanStatus(region, statusEventFor(succeeded))

			drained := !m.plan.Exists(region)
			root := m.rootControl()
			fc := newFullControl(newPlanControl(root), &m.pending, &m.locked)
			if succeeded {
				m.pending = append(m.pending, newRequest(task.Kind, task.Destination, nil))
				queued = true
				if drained {
					m.topo.regionNode[region].planSucceeded(fc)
				}
			} else {
				m.plan.Clear(region)
				m.topo.regionNode[region].planFailed(fc)
				break
			}
		}
	}
	return queued
}

func statusEventFor(succeeded bool) StatusEvent {
	if succeeded {
		return StatusSucceeded
	}
	return StatusFailed
}
