package hfsm

import "testing"

func newTestMachine(t *testing.T) *Machine {
	t.Helper()
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
	return m
}

func TestControlIsOuter(t *testing.T) {
	m := newTestMachine(t)
	// Root's region spans the whole tree [0,3): nothing is outer from there.
	c := m.rootControl()
	if c.isOuter(0) || c.isOuter(1) || c.isOuter(2) {
		t.Fatalf("no state should be outer to the root's own span")
	}

	// Scope down to a single-state span and confirm siblings register outer.
	narrow := c.scopedTo(0, 1, span{first: 1, size: 1})
	if narrow.isOuter(1) {
		t.Fatalf("the origin itself should not be outer to its own span")
	}
	if !narrow.isOuter(2) {
		t.Fatalf("a sibling outside a single-state span should be outer")
	}
}

func TestFullControlEnqueueSetsOuterTransition(t *testing.T) {
	m := newTestMachine(t)
	c := m.rootControl().scopedTo(0, 1, span{first: 1, size: 1})
	fc := newFullControl(newPlanControl(c), &m.pending, &m.locked)

	status := fc.ChangeTo(2)
	if !status.OuterTransition {
		t.Fatalf("enqueueing a destination outside the scoped span should set OuterTransition")
	}
	if len(m.pending) != 1 || m.pending[0].Kind != Change || m.pending[0].State != 2 {
		t.Fatalf("ChangeTo should append a Change request, got %+v", m.pending)
	}
}

func TestFullControlEnqueueNoOpsWhenLocked(t *testing.T) {
	m := newTestMachine(t)
	m.locked = true
	c := m.rootControl()
	fc := newFullControl(newPlanControl(c), &m.pending, &m.locked)

	fc.ChangeTo(1)
	if len(m.pending) != 0 {
		t.Fatalf("a locked FullControl must not enqueue any request")
	}
}

func TestFullControlSucceedFailSetBits(t *testing.T) {
	m := newTestMachine(t)
	c := m.rootControl().scopedTo(0, 1, span{first: 1, size: 1})
	fc := newFullControl(newPlanControl(c), &m.pending, &m.locked)

	status := fc.Succeed()
	if status.Result != Success || !m.plan.taskSucceeded.get(1) {
		t.Fatalf("Succeed() should set the origin's taskSucceeded bit and report Success")
	}

	status = fc.Fail()
	if status.Result != Failure || !m.plan.taskFailed.get(1) {
		t.Fatalf("Fail() should set the origin's taskFailed bit and report Failure")
	}
}

func TestGuardControlCancelPendingTransitions(t *testing.T) {
	m := newTestMachine(t)
	c := m.rootControl()
	fc := newFullControl(newPlanControl(c), &m.pending, &m.locked)
	cancelled := false
	gc := newGuardControl(fc, &cancelled)

	gc.ChangeTo(1)
	gc.CancelPendingTransitions()
	if !cancelled {
		t.Fatalf("CancelPendingTransitions should trip the shared cancelled flag")
	}

	pending := gc.PendingRequests()
	if len(pending) != 1 || pending[0].State != 1 {
		t.Fatalf("PendingRequests should return what was enqueued so far, got %+v", pending)
	}
	// The returned slice must be a copy: mutating it must not affect gc's view.
	pending[0].State = 99
	if gc.PendingRequests()[0].State != 1 {
		t.Fatalf("PendingRequests must return a defensive copy")
	}
}
