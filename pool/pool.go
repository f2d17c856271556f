// Package pool provides a generic slot-map arena with an explicit free list
// Handles stay valid until released; a released slot is reused with a bumped
// generation so stale handles never alias the new occupant
package pool

// Handle addresses a pooled slot
type Handle struct {
	index uint32
	gen   uint32
}

// Index returns the slot index, stable for the lifetime of the handle
func (h Handle) Index() int { return int(h.index) }

type slot[T any] struct {
	value T
	gen   uint32
	live  bool
}

// Pool is a fixed-ceiling arena, not safe for concurrent use
type Pool[T any] struct {
	slots   []slot[T]
	free    []uint32 // LIFO stack of free slot indices
	live    int
	ceiling int
	retired []uint32 // generation of each slot index dropped by Shrink
}

// New creates a pool with initial pre-warmed slots and a hard growth ceiling
// Ceiling below initial is raised to initial
func New[T any](initial, ceiling int) *Pool[T] {
	if initial < 0 {
		initial = 0
	}
	if ceiling < initial {
		ceiling = initial
	}
	p := &Pool[T]{
		slots:   make([]slot[T], 0, ceiling),
		free:    make([]uint32, 0, ceiling),
		ceiling: ceiling,
	}
	p.Grow(initial)
	return p
}

// Grow pre-allocates up to n free slots without exceeding the ceiling
// Returns the number of slots added
func (p *Pool[T]) Grow(n int) int {
	added := 0
	for added < n && len(p.slots) < p.ceiling {
		var gen uint32
		if idx := len(p.slots); idx < len(p.retired) {
			gen = p.retired[idx]
		}
		p.slots = append(p.slots, slot[T]{gen: gen})
		// Push in reverse so the lowest index is handed out first
		p.free = append(p.free, uint32(len(p.slots)-1))
		added++
	}
	if added > 1 {
		tail := p.free[len(p.free)-added:]
		for i, j := 0, len(tail)-1; i < j; i, j = i+1, j-1 {
			tail[i], tail[j] = tail[j], tail[i]
		}
	}
	return added
}

// Acquire takes a free slot or grows the arena by one
// Returns false when the pool is at its ceiling with no free slot
func (p *Pool[T]) Acquire() (Handle, *T, bool) {
	if len(p.free) == 0 && p.Grow(1) == 0 {
		return Handle{}, nil, false
	}

	idx := p.free[len(p.free)-1]
	p.free = p.free[:len(p.free)-1]

	s := &p.slots[idx]
	var zero T
	s.value = zero
	s.live = true
	p.live++

	return Handle{index: idx, gen: s.gen}, &s.value, true
}

// Release returns a slot to the free list; stale or unknown handles are ignored
func (p *Pool[T]) Release(h Handle) bool {
	if int(h.index) >= len(p.slots) {
		return false
	}
	s := &p.slots[h.index]
	if !s.live || s.gen != h.gen {
		return false
	}
	s.live = false
	s.gen++
	p.live--
	p.free = append(p.free, h.index)
	return true
}

// Get returns the live value for h, nil if released or stale
func (p *Pool[T]) Get(h Handle) *T {
	if int(h.index) >= len(p.slots) {
		return nil
	}
	s := &p.slots[h.index]
	if !s.live || s.gen != h.gen {
		return nil
	}
	return &s.value
}

// Each visits live slots in index order until fn returns false
// fn must not Acquire or Release; collect handles and release after the pass
func (p *Pool[T]) Each(fn func(h Handle, v *T) bool) {
	for i := range p.slots {
		s := &p.slots[i]
		if !s.live {
			continue
		}
		if !fn(Handle{index: uint32(i), gen: s.gen}, &s.value) {
			return
		}
	}
}

// Reset releases every live slot, keeping allocated capacity
func (p *Pool[T]) Reset() {
	p.free = p.free[:0]
	for i := len(p.slots) - 1; i >= 0; i-- {
		s := &p.slots[i]
		if s.live {
			s.live = false
			s.gen++
		}
		p.free = append(p.free, uint32(i))
	}
	p.live = 0
}

// Shrink drops trailing free slots and returns how many were dropped
// Generations of dropped slots are remembered so a regrown slot starts past them
func (p *Pool[T]) Shrink() int {
	n := len(p.slots)
	for n > 0 && !p.slots[n-1].live {
		n--
	}
	dropped := len(p.slots) - n
	if dropped == 0 {
		return 0
	}
	for len(p.retired) < len(p.slots) {
		p.retired = append(p.retired, 0)
	}
	for i := n; i < len(p.slots); i++ {
		p.retired[i] = p.slots[i].gen
	}
	p.slots = p.slots[:n]

	kept := p.free[:0]
	for _, idx := range p.free {
		if int(idx) < n {
			kept = append(kept, idx)
		}
	}
	p.free = kept
	return dropped
}

// SetCeiling changes the growth limit; existing slots are kept
func (p *Pool[T]) SetCeiling(n int) {
	if n < 0 {
		n = 0
	}
	p.ceiling = n
}

// Live returns the number of acquired slots
func (p *Pool[T]) Live() int { return p.live }

// Free returns the number of slots ready for reuse
func (p *Pool[T]) Free() int { return len(p.free) }

// Cap returns the number of slots ever allocated and still held
func (p *Pool[T]) Cap() int { return len(p.slots) }

// Ceiling returns the growth limit
func (p *Pool[T]) Ceiling() int { return p.ceiling }
