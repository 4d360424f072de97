package hfsm

// Method enumerates the lifecycle callback kinds a Logger can record.
type Method int

const (
	MethodRank Method = iota
	MethodUtility
	MethodEntryGuard
	MethodEnter
	MethodReenter
	MethodUpdate
	MethodReact
	MethodExitGuard
	MethodExit
	MethodPlanSucceeded
	MethodPlanFailed
)

func (m Method) String() string {
	switch m {
	case MethodRank:
		return "RANK"
	case MethodUtility:
		return "UTILITY"
	case MethodEntryGuard:
		return "ENTRY_GUARD"
	case MethodEnter:
		return "ENTER"
	case MethodReenter:
		return "REENTER"
	case MethodUpdate:
		return "UPDATE"
	case MethodReact:
		return "REACT"
	case MethodExitGuard:
		return "EXIT_GUARD"
	case MethodExit:
		return "EXIT"
	case MethodPlanSucceeded:
		return "PLAN_SUCCEEDED"
	case MethodPlanFailed:
		return "PLAN_FAILED"
	default:
		return "UNKNOWN"
	}
}

// StatusEvent enumerates the outcomes recorded against a task or plan.
type StatusEvent int

const (
	StatusSucceeded StatusEvent = iota
	StatusFailed
)

func (e StatusEvent) String() string {
	if e == StatusSucceeded {
		return "SUCCEEDED"
	}
	return "FAILED"
}

// Logger is the external collaborator that records engine activity. The
// engine only ever calls these methods and never interprets their return
// (there is none). All implementations, including the zero value of
// NopLogger, must be safe to call from every tick-loop phase.
type Logger interface {
	RecordMethod(state StateID, method Method)
	RecordTransition(origin StateID, kind Kind, target StateID)
	RecordTaskStatus(region RegionID, origin StateID, event StatusEvent)
	RecordPlanStatus(region RegionID, event StatusEvent)
	RecordCancelledPending(origin StateID)
	RecordUtilityResolution(head StateID, prong Prong, utility float32)
	RecordRandomResolution(head StateID, prong Prong, rand float64)
}

// NopLogger is the zero-cost default Logger: every method is a no-op. It is
// the Logger a Machine uses when none is supplied, the same no-op-default
// shape as an Observer's BaseObserver.
type NopLogger struct{}

var _ Logger = NopLogger{}

func (NopLogger) RecordMethod(StateID, Method)                           {}
func (NopLogger) RecordTransition(StateID, Kind, StateID)                 {}
func (NopLogger) RecordTaskStatus(RegionID, StateID, StatusEvent)         {}
func (NopLogger) RecordPlanStatus(RegionID, StatusEvent)                  {}
func (NopLogger) RecordCancelledPending(StateID)                         {}
func (NopLogger) RecordUtilityResolution(StateID, Prong, float32)         {}
func (NopLogger) RecordRandomResolution(StateID, Prong, float64)          {}
