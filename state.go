package hfsm

// State is the marker type for user-supplied leaf and head behavior: any Go
// value may be used as a State. The engine discovers which lifecycle
// callbacks a State implements via the optional interfaces below, invoking
// only those present — "no dynamic dispatch is required; the set is fixed
// per state type" (§9).
type State any

// Ranker reports an integer rank consumed by the RandomUtil strategy's
// rank-gate. Default: 0.
type Ranker interface {
	Rank(c Control) int8
}

// Utilitor reports a non-negative utility score consumed by the
// Utilitarian and RandomUtil strategies. Default: 1.0.
type Utilitor interface {
	Utility(c Control) float32
}

// EntryGuarder may veto an impending entry by calling
// GuardControl.CancelPendingTransitions.
type EntryGuarder interface {
	EntryGuard(gc GuardControl)
}

// Enterer runs when this state's prong is newly selected.
type Enterer interface {
	Enter(pc PlanControl)
}

// Reenterer is called by a region's reenter walk. The transition pass does
// not run that walk: a state whose prong is requested while already active
// receives neither Enter nor Reenter.
type Reenterer interface {
	Reenter(pc PlanControl)
}

// Updater runs once per tick for every currently active state.
type Updater interface {
	Update(fc FullControl) Status
}

// Reactor runs once per React(event) call for every currently active state.
type Reactor interface {
	React(event any, fc FullControl) Status
}

// ExitGuarder may veto an impending exit by calling
// GuardControl.CancelPendingTransitions.
type ExitGuarder interface {
	ExitGuard(gc GuardControl)
}

// Exiter runs when this state's prong is being deactivated.
type Exiter interface {
	Exit(pc PlanControl)
}

// PlanSucceeder runs when this state's region's plan empties out after a
// successful advancement. Default: fc.Succeed().
type PlanSucceeder interface {
	PlanSucceeded(fc FullControl) Status
}

// PlanFailer runs when this state's region's plan is cleared on failure.
// Default: fc.Fail().
type PlanFailer interface {
	PlanFailed(fc FullControl) Status
}

// Mixin is a composable capability object a State may declare zero or more
// of at build time (§9's "pre/post user hook chains"). The engine invokes
// each mixin's Pre/Post hooks, in declaration order, around the state's own
// method.
type Mixin any

type preEntryGuardHook interface{ PreEntryGuard(ctx any) }
type preEnterHook interface{ PreEnter(ctx any) }
type preReenterHook interface{ PreReenter(ctx any) }
type preUpdateHook interface{ PreUpdate(ctx any) }
type preReactHook interface{ PreReact(ctx any, event any) }
type preExitGuardHook interface{ PreExitGuard(ctx any) }
type postExitHook interface{ PostExit(ctx any) }

func runPreEntryGuard(ctx any, mixins []Mixin) {
	for _, m := range mixins {
		if h, ok := m.(preEntryGuardHook); ok {
			h.PreEntryGuard(ctx)
		}
	}
}
func runPreEnter(ctx any, mixins []Mixin) {
	for _, m := range mixins {
		if h, ok := m.(preEnterHook); ok {
			h.PreEnter(ctx)
		}
	}
}
func runPreReenter(ctx any, mixins []Mixin) {
	for _, m := range mixins {
		if h, ok := m.(preReenterHook); ok {
			h.PreReenter(ctx)
		}
	}
}
func runPreUpdate(ctx any, mixins []Mixin) {
	for _, m := range mixins {
		if h, ok := m.(preUpdateHook); ok {
			h.PreUpdate(ctx)
		}
	}
}
func runPreReact(ctx any, event any, mixins []Mixin) {
	for _, m := range mixins {
		if h, ok := m.(preReactHook); ok {
			h.PreReact(ctx, event)
		}
	}
}
func runPreExitGuard(ctx any, mixins []Mixin) {
	for _, m := range mixins {
		if h, ok := m.(preExitGuardHook); ok {
			h.PreExitGuard(ctx)
		}
	}
}
func runPostExit(ctx any, mixins []Mixin) {
	for _, m := range mixins {
		if h, ok := m.(postExitHook); ok {
			h.PostExit(ctx)
		}
	}
}

func defaultRank(c Control, s State) int8 {
	if r, ok := s.(Ranker); ok {
		return r.Rank(c)
	}
	return 0
}

func defaultUtility(c Control, s State) float32 {
	if u, ok := s.(Utilitor); ok {
		return u.Utility(c)
	}
	return 1.0
}
