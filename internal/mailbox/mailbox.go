// Package mailbox provides a fixed-size multi-producer, single-consumer queue.
package mailbox

import (
	"runtime"
	"sync/atomic"
)

type slot[T any] struct {
	seq atomic.Uint64
	val T
}

// Mailbox is a bounded MPSC ring buffer. Producers may run on any goroutine;
// only one goroutine may receive. It does not allocate after New.
type Mailbox[T any] struct {
	_     [0]func() // prevent accidental copying.
	head  atomic.Uint64
	tail  atomic.Uint64
	mask  uint64
	slots []slot[T]
}

// New returns a mailbox with room for at least capacity messages.
// Capacity is rounded up to a power of two.
func New[T any](capacity int) *Mailbox[T] {
	n := 2
	for n < capacity {
		n <<= 1
	}
	mb := &Mailbox[T]{mask: uint64(n - 1), slots: make([]slot[T], n)}
	for i := range mb.slots {
		mb.slots[i].seq.Store(uint64(i))
	}
	return mb
}

// Cap returns the number of slots.
func (mb *Mailbox[T]) Cap() int { return len(mb.slots) }

// Len returns the approximate number of queued messages.
func (mb *Mailbox[T]) Len() int {
	return int(mb.head.Load() - mb.tail.Load())
}

// TrySend attempts to enqueue v, returning false if the mailbox is full.
func (mb *Mailbox[T]) TrySend(v T) bool {
	for {
		head := mb.head.Load()
		s := &mb.slots[head&mb.mask]
		seq := s.seq.Load()
		switch {
		case seq == head:
			// Reserve the slot, then publish it by bumping seq.
			if !mb.head.CompareAndSwap(head, head+1) {
				continue
			}
			s.val = v
			s.seq.Store(head + 1)
			return true
		case seq < head:
			return false
		default:
			runtime.Gosched()
		}
	}
}

// Send enqueues v, yielding until it succeeds.
func (mb *Mailbox[T]) Send(v T) {
	for !mb.TrySend(v) {
		runtime.Gosched()
	}
}

// TryRecv dequeues one message, returning false if empty.
func (mb *Mailbox[T]) TryRecv() (T, bool) {
	var zero T
	tail := mb.tail.Load()
	s := &mb.slots[tail&mb.mask]
	if s.seq.Load() != tail+1 {
		return zero, false
	}
	v := s.val
	s.val = zero
	s.seq.Store(tail + mb.mask + 1)
	mb.tail.Store(tail + 1)
	return v, true
}

// Recv blocks until one message is available.
func (mb *Mailbox[T]) Recv() T {
	for {
		v, ok := mb.TryRecv()
		if ok {
			return v
		}
		runtime.Gosched()
	}
}
