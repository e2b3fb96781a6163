package container

import "strconv"

// Allocator issues the increasing identifiers that tags use to reference triggers.
// It is not safe for concurrent use; each build owns one.
type Allocator struct {
	next int
}

// NewAllocator returns an allocator whose first identifier is "1".
func NewAllocator() *Allocator {
	a := &Allocator{}
	a.Reset()
	return a
}

// Reset makes the next issued identifier "1" again.
func (a *Allocator) Reset() {
	a.next = 1
}

// Next returns the current identifier and advances the counter.
func (a *Allocator) Next() string {
	id := strconv.Itoa(a.next)
	a.next++
	return id
}
