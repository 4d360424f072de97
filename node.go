package hfsm

// Node is the deep operation set (§4.4) implemented by every tree element:
// leaves, composite regions, and orthogonal regions. The root driver and
// composite/orthogonal parents call these methods on their children without
// needing to know which kind of node they are talking to.
type Node interface {
	// headState returns the StateID this node represents (its own id for a
	// leaf, or the region's head state for composite/orthogonal nodes).
	headState() StateID

	// forwardEntryGuard/entryGuard run the two guard passes of an entry:
	// forwardEntryGuard recurses into the branch that is about to be
	// entered without evaluating this node's own guard; entryGuard
	// evaluates this node's own guard (and, for composite/orthogonal
	// nodes, its children's) top-down.
	forwardEntryGuard(gc GuardControl)
	entryGuard(gc GuardControl)

	enter(pc PlanControl)
	reenter(pc PlanControl)

	update(fc FullControl) Status
	react(event any, fc FullControl) Status

	forwardExitGuard(gc GuardControl)
	exitGuard(gc GuardControl)
	exit(pc PlanControl)

	// forwardActive is the root driver's post-requestImmediate dispatch
	// (§4.5): it walks down using requested where a branch has been
	// pinned and active otherwise, without resolving anything new, until
	// it reaches a node whose own selection was pinned, at which point it
	// switches to forwardRequest. For orthogonal regions, children whose
	// ortho bit wasn't marked by requestImmediate receive Remain instead
	// of kind, preserving sibling independence (§4.4.2).
	forwardActive(c Control, kind Kind)

	// forwardRequest continues a forwardActive/forwardRequest walk one
	// level down: if this node's own branch is pinned, it recurses into
	// it with kind; otherwise it resolves a fresh branch via request. For
	// orthogonal regions, children outside the current pass receive
	// Remain instead of kind.
	forwardRequest(c Control, kind Kind)

	// request resolves and applies kind to this node's own subtree: for a
	// leaf this is a no-op, for composite it picks a prong via the
	// strategy mapped to kind (honoring an existing pin) and recurses
	// into it, for orthogonal it recurses the same kind into every
	// child. Remain leaves an already-entered selection untouched. c
	// carries the owning Machine and is scoped to this node's own
	// region/origin.
	request(c Control, kind Kind)

	// rank/utility are consulted by the parent composite region's
	// strategy when resolving Utilize/Randomize requests that target
	// (or pass through) this node.
	rank(c Control) int8
	utility(c Control) float32

	// planSucceeded/planFailed notify a region's head state when its plan
	// drains (on success) or is cleared (on failure); see advancePlans in
	// machine.go. The default, absent an explicit PlanSucceeder/PlanFailer,
	// is to call fc.Succeed()/fc.Fail() directly.
	planSucceeded(fc FullControl) Status
	planFailed(fc FullControl) Status
}
