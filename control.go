package hfsm

// Control is the least privileged context, built for rank/utility queries
// (§4.3). It is a plain value — copying it and changing regionID/originID
// is how the engine implements the "scoped identifier stack" as it
// recurses down the tree, rather than literal push/pop bookkeeping.
type Control struct {
	m           *Machine
	regionID    RegionID
	originID    StateID
	regionIndex StateID
	regionSize  int
}

func newControl(m *Machine, regionID RegionID, originID StateID, span span) Control {
	return Control{m: m, regionID: regionID, originID: originID, regionIndex: span.first, regionSize: span.size}
}

// scopedTo returns a copy of c narrowed to a descendant region/origin,
// implementing the save/restore-via-value-copy behavior described in §4.3.
func (c Control) scopedTo(regionID RegionID, originID StateID, sp span) Control {
	c2 := c
	c2.regionID, c2.originID, c2.regionIndex, c2.regionSize = regionID, originID, sp.first, sp.size
	return c2
}

// Origin returns the StateID whose lifecycle callback is currently executing.
func (c Control) Origin() StateID { return c.originID }

// Region returns the narrowest region enclosing the executing callback.
func (c Control) Region() RegionID { return c.regionID }

// Context returns the opaque user context value supplied at construction.
func (c Control) Context() any { return c.m.userContext }

// IsActive reports whether id is currently active.
func (c Control) IsActive(id StateID) bool { return c.m.registry.IsActive(id) }

// IsResumable reports whether id, and every ancestor up to the root, is the
// recorded resumable prong of its region.
func (c Control) IsResumable(id StateID) bool { return c.m.registry.IsResumable(id) }

// IsPendingChange reports whether id's region has a different prong requested.
func (c Control) IsPendingChange(id StateID) bool { return c.m.registry.IsPendingChange(id) }

// IsPendingEnter reports whether id is about to become active.
func (c Control) IsPendingEnter(id StateID) bool { return c.m.registry.IsPendingEnter(id) }

// IsPendingExit reports whether id is about to become inactive.
func (c Control) IsPendingExit(id StateID) bool { return c.m.registry.IsPendingExit(id) }

// Plan returns a read-only snapshot of the enclosing region's task list.
func (c Control) Plan() []Task { return c.m.plan.Tasks(c.regionID) }

// PlanExists reports whether the enclosing region currently has a plan.
func (c Control) PlanExists() bool { return c.m.plan.Exists(c.regionID) }

func (c Control) log() Logger { return c.m.logger }

// isOuter reports whether target falls outside the enclosing region's span.
func (c Control) isOuter(target StateID) bool {
	return target < c.regionIndex || target >= c.regionIndex+StateID(c.regionSize)
}

// PlanControl adds mutable plan access, available during enter/reenter/exit.
type PlanControl struct {
	Control
}

func newPlanControl(c Control) PlanControl { return PlanControl{Control: c} }

func (pc PlanControl) scopedTo(regionID RegionID, originID StateID, sp span) PlanControl {
	return PlanControl{Control: pc.Control.scopedTo(regionID, originID, sp)}
}

// AppendTask appends a task to the enclosing region's plan.
func (pc PlanControl) AppendTask(kind Kind, origin, destination StateID) bool {
	ok := pc.m.plan.Append(pc.regionID, kind, origin, destination)
	return ok
}

// ClearPlan discards every task in the enclosing region's plan.
func (pc PlanControl) ClearPlan() { pc.m.plan.Clear(pc.regionID) }

// RemoveTask removes a single task by index from the enclosing region's plan.
func (pc PlanControl) RemoveTask(index int) { pc.m.plan.remove(pc.regionID, index) }

// FullControl adds transition requests and task outcome signalling,
// available during update/react (§4.3).
type FullControl struct {
	PlanControl
	requests *[]Request
	locked   *bool
}

func newFullControl(pc PlanControl, requests *[]Request, locked *bool) FullControl {
	return FullControl{PlanControl: pc, requests: requests, locked: locked}
}

func (fc FullControl) scopedTo(regionID RegionID, originID StateID, sp span) FullControl {
	fc2 := fc
	fc2.PlanControl = newPlanControl(fc.Control.scopedTo(regionID, originID, sp))
	return fc2
}

func (fc FullControl) enqueue(kind Kind, state StateID, payload any) Status {
	if fc.locked != nil && *fc.locked {
		return Status{}
	}
	*fc.requests = append(*fc.requests, newRequest(kind, state, payload))
	fc.log().RecordTransition(fc.originID, kind, state)
	if fc.isOuter(state) {
		return Status{OuterTransition: true}
	}
	return Status{}
}

// ChangeTo requests state via the region's configured selection strategy.
func (fc FullControl) ChangeTo(state StateID, payload ...any) Status {
	return fc.enqueue(Change, state, firstPayload(payload))
}

// Restart requests state's region reset to its first (default) prong.
func (fc FullControl) Restart(state StateID, payload ...any) Status {
	return fc.enqueue(Restart, state, firstPayload(payload))
}

// Resume requests state's region restored to its last-active prong.
func (fc FullControl) Resume(state StateID, payload ...any) Status {
	return fc.enqueue(Resume, state, firstPayload(payload))
}

// Utilize requests state's region resolved via the Utilitarian strategy.
func (fc FullControl) Utilize(state StateID, payload ...any) Status {
	return fc.enqueue(Utilize, state, firstPayload(payload))
}

// Randomize requests state's region resolved via the RandomUtil strategy.
func (fc FullControl) Randomize(state StateID, payload ...any) Status {
	return fc.enqueue(Randomize, state, firstPayload(payload))
}

// Schedule records state as the resumable prong of its region without
// propagating a request (§4.1).
func (fc FullControl) Schedule(state StateID, payload ...any) Status {
	return fc.enqueue(Schedule, state, firstPayload(payload))
}

// Succeed marks the executing origin's task as succeeded; plan advancement
// consumes this on the next tick-loop phase (§4.2).
func (fc FullControl) Succeed() Status {
	fc.m.plan.taskSucceeded.set(int(fc.originID), true)
	fc.log().RecordTaskStatus(fc.regionID, fc.originID, StatusSucceeded)
	return Status{Result: Success}
}

// Fail marks the executing origin's task as failed.
func (fc FullControl) Fail() Status {
	fc.m.plan.taskFailed.set(int(fc.originID), true)
	fc.log().RecordTaskStatus(fc.regionID, fc.originID, StatusFailed)
	return Status{Result: Failure}
}

func firstPayload(p []any) any {
	if len(p) == 0 {
		return nil
	}
	return p[0]
}

// GuardControl adds cancellation and read access to the pending request
// queue, available during entry/exit guards (§4.3).
type GuardControl struct {
	FullControl
	cancelled *bool
}

func newGuardControl(fc FullControl, cancelled *bool) GuardControl {
	return GuardControl{FullControl: fc, cancelled: cancelled}
}

func (gc GuardControl) scopedTo(regionID RegionID, originID StateID, sp span) GuardControl {
	gc2 := gc
	gc2.FullControl = fc2scope(gc.FullControl, regionID, originID, sp)
	return gc2
}

func fc2scope(fc FullControl, regionID RegionID, originID StateID, sp span) FullControl {
	return fc.scopedTo(regionID, originID, sp)
}

// CancelPendingTransitions trips the current substitution pass's cancelled
// flag, causing the root driver to roll back requested selections (§4.5, §5).
func (gc GuardControl) CancelPendingTransitions() {
	if gc.cancelled != nil {
		*gc.cancelled = true
	}
	gc.log().RecordCancelledPending(gc.originID)
}

// PendingRequests returns the requests queued so far in the current pass.
func (gc GuardControl) PendingRequests() []Request {
	return append([]Request(nil), (*gc.requests)...)
}
