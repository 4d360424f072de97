package hfsm

import "testing"

func TestBitArraySetGet(t *testing.T) {
	b := newBitArray(70) // spans two words
	if b.get(0) || b.get(69) {
		t.Fatalf("fresh bitArray should be all-zero")
	}
	b.set(0, true)
	b.set(69, true)
	if !b.get(0) || !b.get(69) {
		t.Fatalf("set bits did not read back true")
	}
	b.set(0, false)
	if b.get(0) {
		t.Fatalf("cleared bit still reads true")
	}
}

func TestBitArrayOutOfRangeIsNoOp(t *testing.T) {
	b := newBitArray(8)
	b.set(-1, true)
	b.set(100, true)
	if b.get(-1) || b.get(100) {
		t.Fatalf("out-of-range get should report false, not panic or read garbage")
	}
}

func TestBitArrayClearAll(t *testing.T) {
	b := newBitArray(16)
	for i := 0; i < 16; i++ {
		b.set(i, true)
	}
	b.clearAll()
	for i := 0; i < 16; i++ {
		if b.get(i) {
			t.Fatalf("bit %d still set after clearAll", i)
		}
	}
}

func TestBitArrayCloneIsIndependent(t *testing.T) {
	b := newBitArray(8)
	b.set(3, true)
	c := b.clone()
	c.set(3, false)
	c.set(5, true)
	if !b.get(3) || b.get(5) {
		t.Fatalf("mutating a clone affected the original")
	}
}

func TestBitSliceIsolatesItsRange(t *testing.T) {
	b := newBitArray(16)
	lo := bitSlice{arr: &b, unit: 0, width: 4}
	hi := bitSlice{arr: &b, unit: 4, width: 4}

	lo.set(1, true)
	if hi.get(1) {
		t.Fatalf("bitSlice.set leaked across an adjacent slice's range")
	}
	if !lo.any() || hi.any() {
		t.Fatalf("bitSlice.any() did not reflect slice-local state: lo=%v hi=%v", lo.any(), hi.any())
	}

	hi.set(2, true)
	hi.clearAll()
	if hi.any() {
		t.Fatalf("clearAll left a bit set")
	}
	if !lo.get(1) {
		t.Fatalf("clearAll on one slice affected an adjacent slice")
	}
}
