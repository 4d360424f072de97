package hfsm

// leafNode is a Node with no children: a single user State plus whatever
// Mixins were declared alongside it at build time (§4.4).
type leafNode struct {
	id     StateID
	name   string
	state  State
	mixins []Mixin
}

func (l *leafNode) headState() StateID { return l.id }

func (l *leafNode) forwardEntryGuard(gc GuardControl) {}

func (l *leafNode) entryGuard(gc GuardControl) {
	gc.log().RecordMethod(l.id, MethodEntryGuard)
	runPreEntryGuard(gc.Context(), l.mixins)
	if g, ok := l.state.(EntryGuarder); ok {
		g.EntryGuard(gc)
	}
}

func (l *leafNode) enter(pc PlanControl) {
	pc.log().RecordMethod(l.id, MethodEnter)
	runPreEnter(pc.Context(), l.mixins)
	if e, ok := l.state.(Enterer); ok {
		e.Enter(pc)
	}
}

func (l *leafNode) reenter(pc PlanControl) {
	pc.log().RecordMethod(l.id, MethodReenter)
	runPreReenter(pc.Context(), l.mixins)
	if e, ok := l.state.(Reenterer); ok {
		e.Reenter(pc)
	}
}

func (l *leafNode) update(fc FullControl) Status {
	fc.log().RecordMethod(l.id, MethodUpdate)
	runPreUpdate(fc.Context(), l.mixins)
	if u, ok := l.state.(Updater); ok {
		return u.Update(fc)
	}
	return Status{}
}

func (l *leafNode) react(event any, fc FullControl) Status {
	fc.log().RecordMethod(l.id, MethodReact)
	runPreReact(fc.Context(), event, l.mixins)
	if r, ok := l.state.(Reactor); ok {
		return r.React(event, fc)
	}
	return Status{}
}

func (l *leafNode) forwardExitGuard(gc GuardControl) {}

func (l *leafNode) exitGuard(gc GuardControl) {
	gc.log().RecordMethod(l.id, MethodExitGuard)
	runPreExitGuard(gc.Context(), l.mixins)
	if g, ok := l.state.(ExitGuarder); ok {
		g.ExitGuard(gc)
	}
}

func (l *leafNode) exit(pc PlanControl) {
	pc.log().RecordMethod(l.id, MethodExit)
	if e, ok := l.state.(Exiter); ok {
		e.Exit(pc)
	}
	runPostExit(pc.Context(), l.mixins)
}

func (l *leafNode) forwardActive(c Control, kind Kind) {}

func (l *leafNode) forwardRequest(c Control, kind Kind) {}

func (l *leafNode) request(c Control, kind Kind) {}

func (l *leafNode) rank(c Control) int8 {
	c.log().RecordMethod(l.id, MethodRank)
	return defaultRank(c, l.state)
}

func (l *leafNode) utility(c Control) float32 {
	c.log().RecordMethod(l.id, MethodUtility)
	return defaultUtility(c, l.state)
}

// planSucceeded/planFailed complete the Node interface. advancePlans only
// calls them on region nodes (composite/orthogonal heads), so the engine
// never invokes them on a leaf.
func (l *leafNode) planSucceeded(fc FullControl) Status {
	fc.log().RecordMethod(l.id, MethodPlanSucceeded)
	if p, ok := l.state.(PlanSucceeder); ok {
		return p.PlanSucceeded(fc)
	}
	return fc.Succeed()
}

func (l *leafNode) planFailed(fc FullControl) Status {
	fc.log().RecordMethod(l.id, MethodPlanFailed)
	if p, ok := l.state.(PlanFailer); ok {
		return p.PlanFailed(fc)
	}
	return fc.Fail()
}
