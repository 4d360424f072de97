package hfsm

import "testing"

func TestOrthogonalEntersAllChildrenSimultaneously(t *testing.T) {
	topo, err := Build(Orthogonal("Par", nil,
		Leaf("X", nil),
		Leaf("Y", nil),
		Leaf("Z", nil),
	))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	m, err := NewMachine(topo)
	if err != nil {
		t.Fatalf("NewMachine: %v", err)
	}
	m.Start()
	if !m.IsActive(1) || !m.IsActive(2) || !m.IsActive(3) {
		t.Fatalf("every orthogonal child should be active after entry")
	}
}

func TestOrthogonalUpdateReachesEveryChild(t *testing.T) {
	x := &compoTestState{}
	y := &compoTestState{}
	topo, err := Build(Orthogonal("Par", nil,
		Leaf("X", x),
		Leaf("Y", y),
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
	if x.updated != 1 || y.updated != 1 {
		t.Fatalf("both orthogonal children should update every tick, got x=%d y=%d", x.updated, y.updated)
	}
}

func TestOrthogonalExitClearsAllChildren(t *testing.T) {
	x := &compoTestState{}
	y := &compoTestState{}
	topo, err := Build(Orthogonal("Par", nil,
		Leaf("X", x),
		Leaf("Y", y),
	))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	m, err := NewMachine(topo)
	if err != nil {
		t.Fatalf("NewMachine: %v", err)
	}
	m.Start()
	m.Stop()
	if x.exited != 1 || y.exited != 1 {
		t.Fatalf("both orthogonal children should exit on Stop, got x=%d y=%d", x.exited, y.exited)
	}
	if m.IsActive(1) || m.IsActive(2) {
		t.Fatalf("no orthogonal child should remain active after Stop")
	}
}

func TestOrthogonalNestedInsideCompositeSwitchesWithParent(t *testing.T) {
	topo, err := Build(Composite("Root", nil, nil,
		Orthogonal("Par", nil,
			Leaf("X", nil),
			Leaf("Y", nil),
		),
		Leaf("Solo", nil),
	))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	m, err := NewMachine(topo)
	if err != nil {
		t.Fatalf("NewMachine: %v", err)
	}
	m.Start()
	if !m.IsActive(2) || !m.IsActive(3) {
		t.Fatalf("Par's children should be active once Root enters its default prong 0")
	}
	if err := m.ChangeTo(4); err != nil { // Solo
		t.Fatalf("ChangeTo(Solo): %v", err)
	}
	m.Update()
	if m.IsActive(2) || m.IsActive(3) {
		t.Fatalf("switching Root away from Par should exit every Par child")
	}
	if !m.IsActive(4) {
		t.Fatalf("Solo should be active after ChangeTo")
	}
}
