package hfsm

// compositeNode is a composite region (§4.4.1): exactly one child prong is
// active at a time, chosen by Strategy for Change requests or by one of the
// four fixed algorithms for Restart/Resume/Utilize/Randomize. Like a leaf,
// a composite region's head state may itself carry a State and Mixins.
type compositeNode struct {
	id       StateID
	name     string
	state    State
	mixins   []Mixin
	children []Node
	strategy Strategy

	regionID   RegionID
	compoIndex int
	span       span
}

func (n *compositeNode) headState() StateID { return n.id }

func (n *compositeNode) own(c Control) Control {
	return c.scopedTo(n.regionID, n.id, n.span)
}

func (n *compositeNode) liveBranch(m *Machine) Prong {
	if req := m.registry.compoRequested[n.compoIndex]; req != InvalidProng {
		return req
	}
	return m.registry.compoActive[n.compoIndex]
}

func (n *compositeNode) resolveBranch(c Control, kind Kind) Prong {
	m := c.m
	ctx := SelectContext{
		Control:   c,
		Head:      n.id,
		Children:  n.children,
		Active:    m.registry.compoActive[n.compoIndex],
		Resumable: m.registry.compoResumable[n.compoIndex],
		Random:    m.random,
	}
	switch kind {
	case Restart:
		return RestartStrategy{}.Select(ctx)
	case Resume:
		return ResumableStrategy{}.Select(ctx)
	case Utilize:
		return UtilitarianStrategy{}.Select(ctx)
	case Randomize:
		return RandomUtilStrategy{}.Select(ctx)
	default:
		return n.strategy.Select(ctx)
	}
}

func (n *compositeNode) forwardEntryGuard(gc GuardControl) {
	m := gc.m
	branch := n.liveBranch(m)
	if branch == InvalidProng {
		return
	}
	child := n.children[branch]
	childGC := gc.scopedTo(n.regionID, child.headState(), n.span)
	child.entryGuard(childGC)
}

func (n *compositeNode) entryGuard(gc GuardControl) {
	own := gc.scopedTo(n.regionID, n.id, n.span)
	own.log().RecordMethod(n.id, MethodEntryGuard)
	runPreEntryGuard(own.Context(), n.mixins)
	if g, ok := n.state.(EntryGuarder); ok {
		g.EntryGuard(own)
	}
	n.forwardEntryGuard(own)
}

func (n *compositeNode) enter(pc PlanControl) {
	own := pc.scopedTo(n.regionID, n.id, n.span)
	own.log().RecordMethod(n.id, MethodEnter)
	runPreEnter(own.Context(), n.mixins)
	if e, ok := n.state.(Enterer); ok {
		e.Enter(own)
	}
	m := own.m
	branch := m.registry.compoRequested[n.compoIndex]
	if branch == InvalidProng {
		branch = n.resolveBranch(own.Control, Restart)
	}
	m.registry.compoActive[n.compoIndex] = branch
	m.registry.compoResumable[n.compoIndex] = branch
	child := n.children[branch]
	childPC := own.scopedTo(n.regionID, child.headState(), n.span)
	child.enter(childPC)
}

func (n *compositeNode) reenter(pc PlanControl) {
	own := pc.scopedTo(n.regionID, n.id, n.span)
	own.log().RecordMethod(n.id, MethodReenter)
	runPreReenter(own.Context(), n.mixins)
	if e, ok := n.state.(Reenterer); ok {
		e.Reenter(own)
	}
	m := own.m
	branch := m.registry.compoActive[n.compoIndex]
	if branch == InvalidProng {
		branch = 0
	}
	child := n.children[branch]
	childPC := own.scopedTo(n.regionID, child.headState(), n.span)
	child.reenter(childPC)
}

func (n *compositeNode) update(fc FullControl) Status {
	own := fc.scopedTo(n.regionID, n.id, n.span)
	own.log().RecordMethod(n.id, MethodUpdate)
	headStatus := Status{}
	if u, ok := n.state.(Updater); ok {
		headStatus = u.Update(own)
	}
	m := own.m
	branch := m.registry.compoActive[n.compoIndex]
	if branch == InvalidProng {
		return headStatus
	}
	child := n.children[branch]
	childFC := own.scopedTo(n.regionID, child.headState(), n.span)
	// A non-empty head status locks further transition requests for the
	// rest of this update pass, but the child still runs (for its own
	// plan/logging side effects) and only the head's status is reported
	// upward — an outer-transition request deeper in the child is
	// suppressed here rather than merged into what the head decided.
	if !headStatus.empty() {
		wasLocked := *own.locked
		*own.locked = true
		child.update(childFC)
		*own.locked = wasLocked
		return headStatus
	}
	subStatus := child.update(childFC)
	if subStatus.OuterTransition {
		return Status{OuterTransition: true}
	}
	return subStatus
}

func (n *compositeNode) react(event any, fc FullControl) Status {
	own := fc.scopedTo(n.regionID, n.id, n.span)
	own.log().RecordMethod(n.id, MethodReact)
	status := Status{}
	if r, ok := n.state.(Reactor); ok {
		status = status.combine(r.React(event, own))
	}
	m := own.m
	branch := m.registry.compoActive[n.compoIndex]
	if branch == InvalidProng {
		return status
	}
	child := n.children[branch]
	childFC := own.scopedTo(n.regionID, child.headState(), n.span)
	status = status.combine(child.react(event, childFC))
	return status
}

func (n *compositeNode) forwardExitGuard(gc GuardControl) {
	m := gc.m
	branch := m.registry.compoActive[n.compoIndex]
	if branch == InvalidProng {
		return
	}
	child := n.children[branch]
	childGC := gc.scopedTo(n.regionID, child.headState(), n.span)
	child.exitGuard(childGC)
}

func (n *compositeNode) exitGuard(gc GuardControl) {
	own := gc.scopedTo(n.regionID, n.id, n.span)
	own.log().RecordMethod(n.id, MethodExitGuard)
	runPreExitGuard(own.Context(), n.mixins)
	if g, ok := n.state.(ExitGuarder); ok {
		g.ExitGuard(own)
	}
	n.forwardExitGuard(own)
}

func (n *compositeNode) exit(pc PlanControl) {
	own := pc.scopedTo(n.regionID, n.id, n.span)
	own.log().RecordMethod(n.id, MethodExit)
	m := own.m
	branch := m.registry.compoActive[n.compoIndex]
	if branch != InvalidProng {
		child := n.children[branch]
		childPC := own.scopedTo(n.regionID, child.headState(), n.span)
		child.exit(childPC)
	}
	if e, ok := n.state.(Exiter); ok {
		e.Exit(own)
	}
	runPostExit(own.Context(), n.mixins)
	m.plan.clearRegionExit(n.regionID, n.span.first, n.span.size)
	// A region exiting freezes resumable at whatever was active, overriding
	// whatever in-session "last-active" bookkeeping enterRequestedBranches
	// had been tracking (§4.1's resumable-recency invariant).
	if branch != InvalidProng {
		m.registry.compoResumable[n.compoIndex] = branch
	}
	m.registry.compoActive[n.compoIndex] = InvalidProng
}

// forwardActive walks down using the currently active branch (§4.5): a
// composite reached in forwardActive mode has not itself been pinned by
// requestImmediate, so it is merely being passed through on the way to a
// deeper request. Once a pinned branch is found (compoRequested set),
// recursion switches to forwardRequest for the rest of the spine.
func (n *compositeNode) forwardActive(c Control, kind Kind) {
	own := n.own(c)
	m := own.m
	if req := m.registry.compoRequested[n.compoIndex]; req != InvalidProng {
		child := n.children[req]
		childC := own.scopedTo(n.regionID, child.headState(), n.span)
		child.forwardRequest(childC, kind)
		return
	}
	active := m.registry.compoActive[n.compoIndex]
	if active == InvalidProng {
		return
	}
	child := n.children[active]
	childC := own.scopedTo(n.regionID, child.headState(), n.span)
	child.forwardActive(childC, kind)
}

// forwardRequest continues a pinned walk one level down: if this
// composite's own branch was pinned by requestImmediate, recurse into it;
// otherwise this composite was never on the walk (a sibling branch freshly
// entered as part of the same pass), so resolve it fresh via request.
func (n *compositeNode) forwardRequest(c Control, kind Kind) {
	own := n.own(c)
	branch := own.m.registry.compoRequested[n.compoIndex]
	if branch == InvalidProng {
		n.request(own, kind)
		return
	}
	child := n.children[branch]
	childC := own.scopedTo(n.regionID, child.headState(), n.span)
	child.forwardRequest(childC, kind)
}

func (n *compositeNode) request(c Control, kind Kind) {
	own := n.own(c)
	m := own.m
	if kind == Remain {
		// A never-entered composite reached with REMAIN still needs a
		// default selection so enter() has something to descend into;
		// an already-active one is left untouched.
		if m.registry.compoActive[n.compoIndex] == InvalidProng && m.registry.compoRequested[n.compoIndex] == InvalidProng {
			m.registry.compoRequested[n.compoIndex] = 0
		}
		return
	}
	// requestImmediate already pins the exact branch leading to a named
	// target at the one composite directly enclosing it (§4.1's phase-1
	// walk); honor that pin instead of re-resolving it through strategy,
	// which would otherwise clobber an explicit changeTo(leaf) with
	// whatever the region's default strategy picks.
	branch := m.registry.compoRequested[n.compoIndex]
	if branch == InvalidProng {
		branch = n.resolveBranch(own, kind)
		m.registry.compoRequested[n.compoIndex] = branch
	}
	child := n.children[branch]
	childC := own.scopedTo(n.regionID, child.headState(), n.span)
	child.forwardRequest(childC, kind)
}

func (n *compositeNode) rank(c Control) int8 {
	c.log().RecordMethod(n.id, MethodRank)
	return defaultRank(c, n.state)
}

func (n *compositeNode) utility(c Control) float32 {
	c.log().RecordMethod(n.id, MethodUtility)
	return defaultUtility(c, n.state)
}

func (n *compositeNode) planSucceeded(fc FullControl) Status {
	own := fc.scopedTo(n.regionID, n.id, n.span)
	own.log().RecordMethod(n.id, MethodPlanSucceeded)
	if p, ok := n.state.(PlanSucceeder); ok {
		return p.PlanSucceeded(own)
	}
	return own.Succeed()
}

func (n *compositeNode) planFailed(fc FullControl) Status {
	own := fc.scopedTo(n.regionID, n.id, n.span)
	own.log().RecordMethod(n.id, MethodPlanFailed)
	if p, ok := n.state.(PlanFailer); ok {
		return p.PlanFailed(own)
	}
	return own.Fail()
}
