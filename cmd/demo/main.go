// Command demo drives a small sentry AI over a few ticks: patrol until an
// intruder is sighted, investigate on a short plan, then hold an orthogonal
// combat stance (aiming and repositioning at once) until the intruder is
// lost.
package main

import (
	"fmt"

	"github.com/sceneforge/hfsm"
)

type printLogger struct{}

func (printLogger) RecordMethod(hfsm.StateID, hfsm.Method)            {}
func (printLogger) RecordTaskStatus(hfsm.RegionID, hfsm.StateID, hfsm.StatusEvent) {}
func (printLogger) RecordPlanStatus(hfsm.RegionID, hfsm.StatusEvent)  {}
func (printLogger) RecordUtilityResolution(hfsm.StateID, hfsm.Prong, float32) {}
func (printLogger) RecordRandomResolution(hfsm.StateID, hfsm.Prong, float64) {}

func (printLogger) RecordTransition(origin hfsm.StateID, kind hfsm.Kind, target hfsm.StateID) {
	fmt.Printf("transition: %s -> %d (%s)\n", kind, target, originLabel(origin))
}

func (printLogger) RecordCancelledPending(origin hfsm.StateID) {
	fmt.Printf("transition vetoed at state %d\n", origin)
}

func originLabel(origin hfsm.StateID) string {
	if origin == hfsm.InvalidStateID {
		return "top-level request"
	}
	return fmt.Sprintf("requested by %d", origin)
}

type patrolState struct{}

func (patrolState) Enter(pc hfsm.PlanControl) { fmt.Println("patrol: resuming route") }
func (patrolState) Exit(pc hfsm.PlanControl)  { fmt.Println("patrol: breaking off") }

// investigateState appends a one-step plan that, once its task succeeds,
// escalates the sentry straight into combat.
type investigateState struct{}

func (investigateState) Enter(pc hfsm.PlanControl) {
	fmt.Println("investigate: moving to last known position")
	if !pc.AppendTask(hfsm.Change, pc.Origin(), combatID) {
		panic("demo: plan pool exhausted")
	}
}

func (investigateState) Update(fc hfsm.FullControl) hfsm.Status {
	fmt.Println("investigate: position confirmed clear")
	return fc.Succeed()
}

type aimState struct{}

func (aimState) Update(fc hfsm.FullControl) hfsm.Status {
	fmt.Println("aim: tracking target")
	return hfsm.Status{}
}

type repositionState struct{}

func (repositionState) Update(fc hfsm.FullControl) hfsm.Status {
	fmt.Println("reposition: circling for cover")
	return hfsm.Status{}
}

// sentryEntryGuard vetoes entry into combat while the sentry is disarmed.
type sentryEntryGuard struct {
	disarmed *bool
}

func (g sentryEntryGuard) EntryGuard(gc hfsm.GuardControl) {
	if *g.disarmed {
		fmt.Println("combat: entry vetoed, sentry is disarmed")
		gc.CancelPendingTransitions()
	}
}

var combatID hfsm.StateID

func main() {
	disarmed := false

	topo, err := hfsm.Build(hfsm.Composite("Sentry", nil, nil,
		hfsm.Leaf("Patrol", patrolState{}),
		hfsm.Leaf("Investigate", investigateState{}),
		hfsm.Composite("Combat", sentryEntryGuard{disarmed: &disarmed}, nil,
			hfsm.Orthogonal("Stance", nil,
				hfsm.Leaf("Aim", aimState{}),
				hfsm.Leaf("Reposition", repositionState{}),
			),
		),
	))
	if err != nil {
		panic(err)
	}
	combatID = 3 // Sentry=0, Patrol=1, Investigate=2, Combat=3

	m, err := hfsm.NewMachine(topo, hfsm.WithLogger(printLogger{}))
	if err != nil {
		panic(err)
	}

	m.Start()
	fmt.Println("--- tick 1: sighted an intruder ---")
	if err := m.ChangeTo(2); err != nil { // Investigate
		panic(err)
	}
	m.Update()

	fmt.Println("--- tick 2: investigation succeeds, plan escalates to combat ---")
	m.Update()

	fmt.Println("--- tick 3: holding combat stance ---")
	m.Update()

	fmt.Println("--- tick 4: intruder lost, back to patrol ---")
	if err := m.ChangeTo(1); err != nil { // Patrol
		panic(err)
	}
	m.Update()

	m.Stop()
}
