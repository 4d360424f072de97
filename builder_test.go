package hfsm

import "testing"

func TestBuildAssignsPreOrderStateIDs(t *testing.T) {
	topo, err := Build(Composite("Root", nil, nil,
		Leaf("A", nil),
		Composite("Sub", nil, nil,
			Leaf("B", nil),
			Leaf("C", nil),
		),
	))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	want := []string{"Root", "A", "Sub", "B", "C"}
	for id, name := range want {
		if got := topo.StateName(StateID(id)); got != name {
			t.Fatalf("StateName(%d) = %q, want %q", id, got, name)
		}
	}
	if topo.StateCount() != 5 {
		t.Fatalf("StateCount() = %d, want 5", topo.StateCount())
	}
	if topo.RegionCount() != 2 {
		t.Fatalf("RegionCount() = %d, want 2", topo.RegionCount())
	}
}

func TestBuildRejectsNilRoot(t *testing.T) {
	if _, err := Build(nil); err == nil {
		t.Fatalf("Build(nil) should return an error")
	}
}

func TestBuildRejectsDuplicateNames(t *testing.T) {
	_, err := Build(Composite("Root", nil, nil,
		Leaf("A", nil),
		Leaf("A", nil),
	))
	if err == nil {
		t.Fatalf("Build should reject duplicate state names")
	}
	herr, ok := err.(*Error)
	if !ok || herr.Code != ErrCodeDuplicateStateName {
		t.Fatalf("expected ErrCodeDuplicateStateName, got %#v", err)
	}
}

func TestBuildRejectsEmptyRegion(t *testing.T) {
	_, err := Build(Composite("Root", nil, nil))
	if err == nil {
		t.Fatalf("Build should reject a region with no children")
	}
	herr, ok := err.(*Error)
	if !ok || herr.Code != ErrCodeEmptyRegion {
		t.Fatalf("expected ErrCodeEmptyRegion, got %#v", err)
	}
}

func TestBuildRejectsLeafWithChildren(t *testing.T) {
	leaf := Leaf("A", nil)
	leaf.children = []*NodeSpec{Leaf("B", nil)}
	_, err := Build(leaf)
	if err == nil {
		t.Fatalf("Build should reject a leaf spec carrying children")
	}
}

func TestBuildDefaultTaskCapacity(t *testing.T) {
	topo, err := Build(Leaf("Root", nil))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if topo.TaskCapacity() != 0 {
		t.Fatalf("TaskCapacity() = %d, want default 0 (a lone leaf has no composite prongs)", topo.TaskCapacity())
	}
}

func TestBuildWithTaskCapacity(t *testing.T) {
	topo, err := Build(Leaf("Root", nil), WithTaskCapacity(8))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if topo.TaskCapacity() != 8 {
		t.Fatalf("TaskCapacity() = %d, want 8", topo.TaskCapacity())
	}
}

func TestBuildRegionNodeTableAligned(t *testing.T) {
	topo, err := Build(Composite("Root", nil, nil,
		Orthogonal("Par", nil,
			Leaf("X", nil),
			Leaf("Y", nil),
		),
		Leaf("Z", nil),
	))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	// Root's region (index 0, pre-order) and Par's region (index 1) must
	// each resolve to the node that actually owns them, not be swapped by a
	// post-order append mismatch.
	if topo.regionNode[0] == nil || topo.regionNode[0].headState() != 0 {
		t.Fatalf("regionNode[0] should own StateID 0 (Root)")
	}
	if topo.regionNode[1] == nil || topo.regionNode[1].headState() != 1 {
		t.Fatalf("regionNode[1] should own StateID 1 (Par)")
	}
}

func TestBuildOrthogonalWidthAndWithMixins(t *testing.T) {
	spec := Orthogonal("Par", nil, Leaf("X", nil), Leaf("Y", nil), Leaf("Z", nil))
	spec.WithMixins()
	topo, err := Build(Composite("Root", nil, nil, spec, Leaf("Other", nil)))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if topo.orthoWidths[0] != 3 {
		t.Fatalf("orthoWidths[0] = %d, want 3", topo.orthoWidths[0])
	}
}
