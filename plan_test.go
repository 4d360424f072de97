package hfsm

import "testing"

func newTestPlanTopology(taskCapacity, regionCount, stateCount int) *Topology {
	return &Topology{taskCapacity: taskCapacity, regionCount: regionCount, stateCount: stateCount}
}

func TestPlanAppendAndTasksOrder(t *testing.T) {
	topo := newTestPlanTopology(4, 1, 4)
	p := newPlanData(topo)

	if !p.Append(0, Change, 0, 1) {
		t.Fatalf("Append should succeed with capacity available")
	}
	if !p.Append(0, Change, 1, 2) {
		t.Fatalf("Append should succeed with capacity available")
	}
	if !p.Exists(0) {
		t.Fatalf("Exists should report true after Append")
	}

	tasks := p.Tasks(0)
	if len(tasks) != 2 || tasks[0].Destination != 1 || tasks[1].Destination != 2 {
		t.Fatalf("Tasks() = %+v, want insertion order [dest=1, dest=2]", tasks)
	}
}

func TestPlanPoolExhaustion(t *testing.T) {
	topo := newTestPlanTopology(2, 1, 4)
	p := newPlanData(topo)

	if !p.Append(0, Change, 0, 1) || !p.Append(0, Change, 1, 2) {
		t.Fatalf("first two appends should succeed with capacity 2")
	}
	if p.Append(0, Change, 2, 3) {
		t.Fatalf("Append beyond capacity should fail")
	}
}

func TestPlanRemoveFixesBounds(t *testing.T) {
	topo := newTestPlanTopology(4, 1, 4)
	p := newPlanData(topo)
	p.Append(0, Change, 0, 1)
	p.Append(0, Change, 1, 2)
	p.Append(0, Change, 2, 3)

	mid := p.Tasks(0)[1].Index
	p.remove(0, mid)

	tasks := p.Tasks(0)
	if len(tasks) != 2 || tasks[0].Destination != 1 || tasks[1].Destination != 3 {
		t.Fatalf("Tasks() after removing the middle task = %+v", tasks)
	}

	// The freed slot must be reusable.
	if !p.Append(0, Change, 3, 9) {
		t.Fatalf("Append should reuse the slot freed by remove")
	}
}

func TestPlanRemoveAllClearsExists(t *testing.T) {
	topo := newTestPlanTopology(4, 1, 4)
	p := newPlanData(topo)
	p.Append(0, Change, 0, 1)
	idx := p.Tasks(0)[0].Index
	p.remove(0, idx)

	if p.Exists(0) {
		t.Fatalf("Exists should be false once a region's last task is removed")
	}
	if _, ok := p.headTask(0); ok {
		t.Fatalf("headTask should report false for an empty region")
	}
}

func TestPlanClear(t *testing.T) {
	topo := newTestPlanTopology(4, 2, 4)
	p := newPlanData(topo)
	p.Append(0, Change, 0, 1)
	p.Append(0, Change, 1, 2)
	p.Append(1, Change, 2, 3)

	p.Clear(0)
	if p.Exists(0) {
		t.Fatalf("Exists(0) should be false after Clear(0)")
	}
	if !p.Exists(1) {
		t.Fatalf("Clear(0) should not affect region 1's plan")
	}

	// Freed slots from Clear must be reusable.
	if !p.Append(0, Change, 0, 1) || !p.Append(0, Change, 1, 2) {
		t.Fatalf("Append should reuse slots freed by Clear")
	}
}

func TestPlanClearRegionExitResetsTaskBits(t *testing.T) {
	topo := newTestPlanTopology(4, 1, 4)
	p := newPlanData(topo)
	p.Append(0, Change, 0, 1)
	p.taskSucceeded.set(0, true)
	p.taskFailed.set(1, true)

	p.clearRegionExit(0, 0, 4)

	if p.Exists(0) {
		t.Fatalf("clearRegionExit should clear the region's plan")
	}
	for s := 0; s < 4; s++ {
		if p.taskSucceeded.get(s) || p.taskFailed.get(s) {
			t.Fatalf("clearRegionExit left task bits set for state %d", s)
		}
	}
}

func TestPlanClearRegionExitIsSafeWhenNoPlanExisted(t *testing.T) {
	topo := newTestPlanTopology(4, 1, 4)
	p := newPlanData(topo)
	// No Append was ever called: clearRegionExit must still be a no-op, not
	// a double-record or a panic.
	p.clearRegionExit(0, 0, 4)
	if p.Exists(0) {
		t.Fatalf("Exists should remain false")
	}
}
