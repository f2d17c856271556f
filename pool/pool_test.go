package pool

import "testing"

type item struct {
	v int
}

func TestAcquireRelease(t *testing.T) {
	p := New[item](2, 4)

	if p.Cap() != 2 || p.Free() != 2 {
		t.Fatalf("Expected 2 warm slots, got cap=%d free=%d", p.Cap(), p.Free())
	}

	var handles []Handle
	for i := 0; i < 4; i++ {
		h, it, ok := p.Acquire()
		if !ok {
			t.Fatalf("Acquire %d failed", i)
		}
		it.v = i
		handles = append(handles, h)
	}

	if _, _, ok := p.Acquire(); ok {
		t.Error("Acquire beyond ceiling should fail")
	}
	if p.Live() != 4 || p.Cap() != 4 {
		t.Errorf("Expected live=4 cap=4, got live=%d cap=%d", p.Live(), p.Cap())
	}

	if !p.Release(handles[1]) {
		t.Error("Release of live handle should succeed")
	}
	if p.Release(handles[1]) {
		t.Error("Double release should be ignored")
	}
	if p.Get(handles[1]) != nil {
		t.Error("Get on released handle should return nil")
	}

	h, it, ok := p.Acquire()
	if !ok {
		t.Fatal("Acquire after release failed")
	}
	if h.Index() != handles[1].Index() {
		t.Errorf("Expected slot reuse at %d, got %d", handles[1].Index(), h.Index())
	}
	if it.v != 0 {
		t.Errorf("Reused slot should be zeroed, got %d", it.v)
	}
	if p.Get(handles[1]) != nil {
		t.Error("Stale handle must not alias reused slot")
	}
}

func TestConservation(t *testing.T) {
	const initial, ceiling = 8, 50
	p := New[item](initial, ceiling)

	for round := 0; round < 20; round++ {
		var hs []Handle
		for i := 0; i < 200; i++ {
			if h, _, ok := p.Acquire(); ok {
				hs = append(hs, h)
			}
		}
		if p.Live() > ceiling {
			t.Fatalf("Live %d exceeds ceiling %d", p.Live(), ceiling)
		}
		if p.Cap() > ceiling+initial {
			t.Fatalf("Allocated %d exceeds %d", p.Cap(), ceiling+initial)
		}
		for _, h := range hs[:len(hs)/2] {
			p.Release(h)
		}
	}
}

func TestNoAllocationWhenWarm(t *testing.T) {
	p := New[item](16, 16)
	allocs := testing.AllocsPerRun(100, func() {
		h, _, _ := p.Acquire()
		p.Release(h)
	})
	if allocs != 0 {
		t.Errorf("Expected zero allocations on warm pool, got %f", allocs)
	}
}

func TestEachAndReset(t *testing.T) {
	p := New[item](0, 10)
	for i := 0; i < 5; i++ {
		_, it, _ := p.Acquire()
		it.v = i + 1
	}

	sum := 0
	p.Each(func(_ Handle, it *item) bool {
		sum += it.v
		return true
	})
	if sum != 15 {
		t.Errorf("Expected sum 15, got %d", sum)
	}

	visited := 0
	p.Each(func(_ Handle, _ *item) bool {
		visited++
		return visited < 2
	})
	if visited != 2 {
		t.Errorf("Early stop should visit 2, got %d", visited)
	}

	p.Reset()
	if p.Live() != 0 || p.Free() != 5 {
		t.Errorf("Reset should free all, live=%d free=%d", p.Live(), p.Free())
	}
}

func TestShrink(t *testing.T) {
	p := New[item](0, 10)
	var hs []Handle
	for i := 0; i < 6; i++ {
		h, _, _ := p.Acquire()
		hs = append(hs, h)
	}
	p.Release(hs[5])
	p.Release(hs[4])
	p.Release(hs[1])

	if dropped := p.Shrink(); dropped != 2 {
		t.Errorf("Expected 2 trailing slots dropped, got %d", dropped)
	}
	if p.Cap() != 4 || p.Free() != 1 {
		t.Errorf("Expected cap=4 free=1, got cap=%d free=%d", p.Cap(), p.Free())
	}
	if p.Get(hs[5]) != nil {
		t.Error("Handle into dropped slot should be invalid")
	}
	if p.Get(hs[3]) == nil {
		t.Error("Live handle should survive shrink")
	}
}

func TestShrinkRegrowKeepsGenerations(t *testing.T) {
	p := New[item](0, 4)
	var hs []Handle
	for i := 0; i < 3; i++ {
		h, _, _ := p.Acquire()
		hs = append(hs, h)
	}
	for _, h := range hs {
		p.Release(h)
	}

	if dropped := p.Shrink(); dropped != 3 {
		t.Fatalf("Expected 3 slots dropped, got %d", dropped)
	}
	if p.Grow(3) != 3 {
		t.Fatal("Grow after shrink failed")
	}

	for i := 0; i < 3; i++ {
		h, it, ok := p.Acquire()
		if !ok {
			t.Fatalf("Acquire %d failed", i)
		}
		it.v = i + 1
		for _, stale := range hs {
			if stale == h {
				t.Errorf("Regrown slot %d reissued stale handle %+v", h.Index(), stale)
			}
		}
	}
	for _, stale := range hs {
		if p.Get(stale) != nil {
			t.Errorf("Stale handle %+v aliases a new occupant", stale)
		}
		if p.Release(stale) {
			t.Errorf("Stale handle %+v released a new occupant", stale)
		}
	}
}
