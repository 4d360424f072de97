package hfsm

import "testing"

func TestMachineStartIsIdempotent(t *testing.T) {
	enters := 0
	topo, err := Build(Composite("Root", nil, nil,
		Leaf("A", &countingEnterState{count: &enters}),
		Leaf("B", nil),
	))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	m, err := NewMachine(topo)
	if err != nil {
		t.Fatalf("NewMachine: %v", err)
	}
	m.Start()
	m.Start()
	if enters != 1 {
		t.Fatalf("calling Start twice should only enter once, got %d", enters)
	}
}

type countingEnterState struct{ count *int }

func (s *countingEnterState) Enter(pc PlanControl) { *s.count++ }

func TestMachineStopBeforeStartIsNoOp(t *testing.T) {
	topo, err := Build(Leaf("Root", nil))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	m, err := NewMachine(topo)
	if err != nil {
		t.Fatalf("NewMachine: %v", err)
	}
	m.Stop() // must not panic
	if m.IsActive(0) {
		t.Fatalf("a never-started machine should report inactive")
	}
}

func TestMachineStateDataLifecycle(t *testing.T) {
	topo, err := Build(Leaf("Root", nil))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	m, err := NewMachine(topo)
	if err != nil {
		t.Fatalf("NewMachine: %v", err)
	}
	if m.IsStateDataSet(0) {
		t.Fatalf("fresh machine should report no state data set")
	}
	if err := m.SetStateData(0, "payload"); err != nil {
		t.Fatalf("SetStateData: %v", err)
	}
	if got := m.GetStateData(0); got != "payload" {
		t.Fatalf("GetStateData() = %v, want %q", got, "payload")
	}
	if !m.IsStateDataSet(0) {
		t.Fatalf("IsStateDataSet should report true once data is set")
	}
	if err := m.ResetStateData(0); err != nil {
		t.Fatalf("ResetStateData: %v", err)
	}
	if m.IsStateDataSet(0) {
		t.Fatalf("IsStateDataSet should report false after ResetStateData")
	}
}

func TestMachineSetStateDataRejectsInvalidID(t *testing.T) {
	topo, err := Build(Leaf("Root", nil))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	m, err := NewMachine(topo)
	if err != nil {
		t.Fatalf("NewMachine: %v", err)
	}
	if err := m.SetStateData(99, "x"); err == nil {
		t.Fatalf("SetStateData should reject an out-of-range StateID")
	}
}

type vetoingState struct{}

func (vetoingState) EntryGuard(gc GuardControl) { gc.CancelPendingTransitions() }

func TestMachineGuardVetoLeavesActiveSetUnchanged(t *testing.T) {
	topo, err := Build(Composite("Root", nil, nil,
		Leaf("A", nil),
		Leaf("B", vetoingState{}),
	))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	m, err := NewMachine(topo)
	if err != nil {
		t.Fatalf("NewMachine: %v", err)
	}
	m.Start()
	if err := m.ChangeTo(2); err != nil {
		t.Fatalf("ChangeTo: %v", err)
	}
	m.Update()
	if !m.IsActive(1) || m.IsActive(2) {
		t.Fatalf("a vetoing entry guard should leave the active set unchanged (A active, B not)")
	}
}

func TestMachineScheduleSetsResumableWithoutChangingActive(t *testing.T) {
	topo, err := Build(Composite("Root", nil, nil,
		Leaf("A", nil),
		Leaf("B", nil),
	))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	m, err := NewMachine(topo)
	if err != nil {
		t.Fatalf("NewMachine: %v", err)
	}
	m.Start()
	if err := m.Schedule(2); err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	m.Update()
	if !m.IsActive(1) || m.IsActive(2) {
		t.Fatalf("Schedule must not change the active branch")
	}
	if !m.IsResumable(2) || m.IsResumable(1) {
		t.Fatalf("Schedule should record B as the resumable prong")
	}
}

type planAdvanceState struct{}

func (planAdvanceState) Enter(pc PlanControl) {
	if !pc.AppendTask(Change, 1, 2) {
		panic("plan pool exhausted in test fixture")
	}
}

func (planAdvanceState) Update(fc FullControl) Status { return fc.Succeed() }

func TestMachinePlanAdvancesOnTaskSuccessWithinOneUpdate(t *testing.T) {
	topo, err := Build(Composite("Root", nil, nil,
		Leaf("A", planAdvanceState{}),
		Leaf("B", nil),
	))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	m, err := NewMachine(topo)
	if err != nil {
		t.Fatalf("NewMachine: %v", err)
	}
	m.Start()
	m.Update()
	if m.IsActive(1) || !m.IsActive(2) {
		t.Fatalf("a succeeded plan task should drive the region from A to B within one Update call")
	}
}

type planFailState struct{}

func (planFailState) Enter(pc PlanControl) {
	if !pc.AppendTask(Change, 1, 2) {
		panic("plan pool exhausted in test fixture")
	}
}

func (planFailState) Update(fc FullControl) Status { return fc.Fail() }

func TestMachinePlanFailureClearsPlanAndLeavesActiveBranchAlone(t *testing.T) {
	topo, err := Build(Composite("Root", nil, nil,
		Leaf("A", planFailState{}),
		Leaf("B", nil),
	))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	m, err := NewMachine(topo)
	if err != nil {
		t.Fatalf("NewMachine: %v", err)
	}
	m.Start()
	m.Update()
	if !m.IsActive(1) || m.IsActive(2) {
		t.Fatalf("a failed plan task must not drive any transition; A should remain active")
	}
	if m.topo.regionNode[0] == nil {
		t.Fatalf("sanity: region 0 should resolve to Root's node")
	}
}
