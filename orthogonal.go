package hfsm

// orthogonalNode is an orthogonal (parallel) region (§4.4.2): every child is
// active simultaneously. Like composite/leaf, the region's own head state
// may carry a State and Mixins.
type orthogonalNode struct {
	id       StateID
	name     string
	state    State
	mixins   []Mixin
	children []Node

	regionID   RegionID
	orthoIndex int
	span       span
}

func (n *orthogonalNode) headState() StateID { return n.id }

func (n *orthogonalNode) own(c Control) Control {
	return c.scopedTo(n.regionID, n.id, n.span)
}

func (n *orthogonalNode) forwardEntryGuard(gc GuardControl) {
	own := gc.scopedTo(n.regionID, n.id, n.span)
	req := own.m.registry.orthoRequestedSlice(n.orthoIndex)
	for i, child := range n.children {
		if !req.get(Prong(i)) {
			continue
		}
		childGC := own.scopedTo(n.regionID, child.headState(), n.span)
		child.entryGuard(childGC)
	}
}

func (n *orthogonalNode) entryGuard(gc GuardControl) {
	own := gc.scopedTo(n.regionID, n.id, n.span)
	own.log().RecordMethod(n.id, MethodEntryGuard)
	runPreEntryGuard(own.Context(), n.mixins)
	if g, ok := n.state.(EntryGuarder); ok {
		g.EntryGuard(own)
	}
	n.forwardEntryGuard(own)
}

func (n *orthogonalNode) enter(pc PlanControl) {
	own := pc.scopedTo(n.regionID, n.id, n.span)
	own.log().RecordMethod(n.id, MethodEnter)
	runPreEnter(own.Context(), n.mixins)
	if e, ok := n.state.(Enterer); ok {
		e.Enter(own)
	}
	m := own.m
	active := m.registry.orthoSlice(n.orthoIndex)
	resumable := m.registry.orthoResumableSlice(n.orthoIndex)
	for i, child := range n.children {
		active.set(Prong(i), true)
		resumable.set(Prong(i), true)
		childPC := own.scopedTo(n.regionID, child.headState(), n.span)
		child.enter(childPC)
	}
}

func (n *orthogonalNode) reenter(pc PlanControl) {
	own := pc.scopedTo(n.regionID, n.id, n.span)
	own.log().RecordMethod(n.id, MethodReenter)
	runPreReenter(own.Context(), n.mixins)
	if e, ok := n.state.(Reenterer); ok {
		e.Reenter(own)
	}
	for _, child := range n.children {
		childPC := own.scopedTo(n.regionID, child.headState(), n.span)
		child.reenter(childPC)
	}
}

func (n *orthogonalNode) update(fc FullControl) Status {
	own := fc.scopedTo(n.regionID, n.id, n.span)
	own.log().RecordMethod(n.id, MethodUpdate)
	headStatus := Status{}
	if u, ok := n.state.(Updater); ok {
		headStatus = u.Update(own)
	}
	if !headStatus.empty() {
		wasLocked := *own.locked
		*own.locked = true
		for _, child := range n.children {
			childFC := own.scopedTo(n.regionID, child.headState(), n.span)
			child.update(childFC)
		}
		*own.locked = wasLocked
		return headStatus
	}
	status := Status{}
	for _, child := range n.children {
		childFC := own.scopedTo(n.regionID, child.headState(), n.span)
		status = status.combine(child.update(childFC))
	}
	return status
}

func (n *orthogonalNode) react(event any, fc FullControl) Status {
	own := fc.scopedTo(n.regionID, n.id, n.span)
	own.log().RecordMethod(n.id, MethodReact)
	status := Status{}
	if r, ok := n.state.(Reactor); ok {
		status = status.combine(r.React(event, own))
	}
	for _, child := range n.children {
		childFC := own.scopedTo(n.regionID, child.headState(), n.span)
		status = status.combine(child.react(event, childFC))
	}
	return status
}

func (n *orthogonalNode) forwardExitGuard(gc GuardControl) {
	own := gc.scopedTo(n.regionID, n.id, n.span)
	active := own.m.registry.orthoSlice(n.orthoIndex)
	for i, child := range n.children {
		if !active.get(Prong(i)) {
			continue
		}
		childGC := own.scopedTo(n.regionID, child.headState(), n.span)
		child.exitGuard(childGC)
	}
}

func (n *orthogonalNode) exitGuard(gc GuardControl) {
	own := gc.scopedTo(n.regionID, n.id, n.span)
	own.log().RecordMethod(n.id, MethodExitGuard)
	runPreExitGuard(own.Context(), n.mixins)
	if g, ok := n.state.(ExitGuarder); ok {
		g.ExitGuard(own)
	}
	n.forwardExitGuard(own)
}

func (n *orthogonalNode) exit(pc PlanControl) {
	own := pc.scopedTo(n.regionID, n.id, n.span)
	own.log().RecordMethod(n.id, MethodExit)
	m := own.m
	active := m.registry.orthoSlice(n.orthoIndex)
	for i, child := range n.children {
		if !active.get(Prong(i)) {
			continue
		}
		childPC := own.scopedTo(n.regionID, child.headState(), n.span)
		child.exit(childPC)
	}
	if e, ok := n.state.(Exiter); ok {
		e.Exit(own)
	}
	runPostExit(own.Context(), n.mixins)
	m.plan.clearRegionExit(n.regionID, n.span.first, n.span.size)
	active.clearAll()
}

// forwardActive dispatches kind only to children whose ortho bit was
// marked by requestImmediate; every other child gets Remain instead,
// preserving its own independently-resolved selection (§4.4.2). Every
// child is always visited, since orthogonal prongs are all simultaneously
// active — only which request kind they see differs.
func (n *orthogonalNode) forwardActive(c Control, kind Kind) {
	own := n.own(c)
	req := own.m.registry.orthoRequestedSlice(n.orthoIndex)
	for i, child := range n.children {
		local := Remain
		if req.get(Prong(i)) {
			local = kind
		}
		childC := own.scopedTo(n.regionID, child.headState(), n.span)
		child.forwardActive(childC, local)
	}
}

// forwardRequest mirrors forwardActive's Remain-gating, but continues the
// walk via forwardRequest on marked children instead of forwardActive. If
// this orthogonal has no marked bits at all, it was never touched by
// requestImmediate (a freshly-entered sibling branch), so every child
// takes kind uniformly via request.
func (n *orthogonalNode) forwardRequest(c Control, kind Kind) {
	own := n.own(c)
	req := own.m.registry.orthoRequestedSlice(n.orthoIndex)
	if !req.any() {
		n.request(own, kind)
		return
	}
	for i, child := range n.children {
		local := Remain
		if req.get(Prong(i)) {
			local = kind
		}
		childC := own.scopedTo(n.regionID, child.headState(), n.span)
		child.forwardRequest(childC, local)
	}
}

// request applies kind uniformly to every child: an orthogonal region has
// no branch choice of its own, so a fresh (unmarked) request just pushes
// the same kind into all of its concurrently-active prongs.
func (n *orthogonalNode) request(c Control, kind Kind) {
	if kind == Remain {
		return
	}
	own := n.own(c)
	for _, child := range n.children {
		childC := own.scopedTo(n.regionID, child.headState(), n.span)
		child.forwardRequest(childC, kind)
	}
}

func (n *orthogonalNode) rank(c Control) int8 {
	c.log().RecordMethod(n.id, MethodRank)
	return defaultRank(c, n.state)
}

func (n *orthogonalNode) utility(c Control) float32 {
	c.log().RecordMethod(n.id, MethodUtility)
	return defaultUtility(c, n.state)
}

func (n *orthogonalNode) planSucceeded(fc FullControl) Status {
	own := fc.scopedTo(n.regionID, n.id, n.span)
	own.log().RecordMethod(n.id, MethodPlanSucceeded)
	if p, ok := n.state.(PlanSucceeder); ok {
		return p.PlanSucceeded(own)
	}
	return own.Succeed()
}

func (n *orthogonalNode) planFailed(fc FullControl) Status {
	own := fc.scopedTo(n.regionID, n.id, n.span)
	own.log().RecordMethod(n.id, MethodPlanFailed)
	if p, ok := n.state.(PlanFailer); ok {
		return p.PlanFailed(own)
	}
	return own.Fail()
}
