package hfsmtest

import "github.com/sceneforge/hfsm"

// MethodCall records one Logger.RecordMethod invocation.
type MethodCall struct {
	State  hfsm.StateID
	Method hfsm.Method
}

// TransitionCall records one Logger.RecordTransition invocation.
type TransitionCall struct {
	Origin hfsm.StateID
	Kind   hfsm.Kind
	Target hfsm.StateID
}

// TaskStatusCall records one Logger.RecordTaskStatus invocation.
type TaskStatusCall struct {
	Region hfsm.RegionID
	Origin hfsm.StateID
	Event  hfsm.StatusEvent
}

// PlanStatusCall records one Logger.RecordPlanStatus invocation.
type PlanStatusCall struct {
	Region hfsm.RegionID
	Event  hfsm.StatusEvent
}

// UtilityResolutionCall records one Logger.RecordUtilityResolution invocation.
type UtilityResolutionCall struct {
	Head    hfsm.StateID
	Prong   hfsm.Prong
	Utility float32
}

// RandomResolutionCall records one Logger.RecordRandomResolution invocation.
type RandomResolutionCall struct {
	Head  hfsm.StateID
	Prong hfsm.Prong
	Rand  float64
}

// RecordingLogger is an in-memory Logger that appends every call to its own
// slice, for scenario tests that want to assert on the exact sequence of
// engine activity rather than just the final active set.
type RecordingLogger struct {
	Methods            []MethodCall
	Transitions        []TransitionCall
	TaskStatuses       []TaskStatusCall
	PlanStatuses       []PlanStatusCall
	CancelledPending   []hfsm.StateID
	UtilityResolutions []UtilityResolutionCall
	RandomResolutions  []RandomResolutionCall
}

var _ hfsm.Logger = (*RecordingLogger)(nil)

func (l *RecordingLogger) RecordMethod(state hfsm.StateID, method hfsm.Method) {
	l.Methods = append(l.Methods, MethodCall{State: state, Method: method})
}

func (l *RecordingLogger) RecordTransition(origin hfsm.StateID, kind hfsm.Kind, target hfsm.StateID) {
	l.Transitions = append(l.Transitions, TransitionCall{Origin: origin, Kind: kind, Target: target})
}

func (l *RecordingLogger) RecordTaskStatus(region hfsm.RegionID, origin hfsm.StateID, event hfsm.StatusEvent) {
	l.TaskStatuses = append(l.TaskStatuses, TaskStatusCall{Region: region, Origin: origin, Event: event})
}

func (l *RecordingLogger) RecordPlanStatus(region hfsm.RegionID, event hfsm.StatusEvent) {
	l.PlanStatuses = append(l.PlanStatuses, PlanStatusCall{Region: region, Event: event})
}

func (l *RecordingLogger) RecordCancelledPending(origin hfsm.StateID) {
	l.CancelledPending = append(l.CancelledPending, origin)
}

func (l *RecordingLogger) RecordUtilityResolution(head hfsm.StateID, prong hfsm.Prong, utility float32) {
	l.UtilityResolutions = append(l.UtilityResolutions, UtilityResolutionCall{Head: head, Prong: prong, Utility: utility})
}

func (l *RecordingLogger) RecordRandomResolution(head hfsm.StateID, prong hfsm.Prong, rand float64) {
	l.RandomResolutions = append(l.RandomResolutions, RandomResolutionCall{Head: head, Prong: prong, Rand: rand})
}

// LastMethod returns the most recently recorded method call for state, and
// whether one was found.
func (l *RecordingLogger) LastMethod(state hfsm.StateID) (hfsm.Method, bool) {
	for i := len(l.Methods) - 1; i >= 0; i-- {
		if l.Methods[i].State == state {
			return l.Methods[i].Method, true
		}
	}
	return 0, false
}
