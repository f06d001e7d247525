// ring.go: bounded single-producer/multi-consumer ring buffer, overwrite-on-full

package simtemp

import "sync"

// ringSize is the fixed capacity of the ring buffer (§3): a power of two
// no smaller than 64. The reference implementation uses 128.
const ringSize = 128

// ring is the bounded circular store of Samples described in §4.1. It is
// a plain-mutex ring rather than the teacher's lock-free MPSC ring
// (buffer.go's ringBuffer): the spec calls for overwrite-on-full and for
// a wait primitive blocked readers can suspend on, neither of which a
// CAS-reservation ring gives you for free, and the critical sections
// here (index arithmetic plus one Sample copy) are exactly the "short
// critical section spinlock" shape the teacher's own design notes favor.
//
// Waiters block on notifyCh rather than a sync.Cond so that Read/Poll can
// select on it alongside a context's Done channel (§5 Cancellation):
// sync.Cond has no way to interrupt a Wait() from outside. Every push
// closes the current notifyCh (broadcasting to all waiters) and installs
// a fresh one, guarded by the same mutex that protects head/tail.
type ring struct {
	mu       sync.Mutex
	buf      [ringSize]Sample
	head     uint32 // next write index
	tail     uint32 // next read index
	notifyCh chan struct{}
}

func newRing() *ring {
	return &ring{notifyCh: make(chan struct{})}
}

func (r *ring) isEmptyLocked() bool {
	return r.head == r.tail
}

func (r *ring) isFullLocked() bool {
	return (r.head+1)%ringSize == r.tail
}

// IsEmpty reports whether the ring currently holds no samples.
func (r *ring) IsEmpty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.isEmptyLocked()
}

// IsFull reports whether the ring is at capacity.
func (r *ring) IsFull() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.isFullLocked()
}

// Push stores s, evicting the oldest Sample if the ring is full (§4.1).
// It never fails and always wakes any suspended readers after releasing
// the lock, per the deadlock-avoidance rule in §5 ("signaled after the
// lock is released").
func (r *ring) Push(s Sample) {
	r.mu.Lock()
	if r.isFullLocked() {
		r.tail = (r.tail + 1) % ringSize
	}
	r.buf[r.head] = s
	r.head = (r.head + 1) % ringSize
	ch := r.notifyCh
	r.notifyCh = make(chan struct{})
	r.mu.Unlock()

	close(ch)
}

// Pop removes and returns the oldest Sample. ok is false if the ring was
// empty.
func (r *ring) Pop() (s Sample, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.isEmptyLocked() {
		return Sample{}, false
	}
	s = r.buf[r.tail]
	r.tail = (r.tail + 1) % ringSize
	return s, true
}

// waitChan returns the channel that will be closed the next time Push
// runs, snapshotted under the lock so it never misses a concurrent push.
func (r *ring) waitChan() chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.notifyCh
}

// fill returns the number of samples currently buffered, used only for
// the buffer-fill metrics gauge; it is an instantaneous snapshot.
func (r *ring) fill() uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return (r.head - r.tail + ringSize) % ringSize
}
