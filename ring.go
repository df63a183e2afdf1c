package jobsys

import "sync"

// ringBuffer is a fixed-capacity circular buffer of jobs guarded by a single
// mutex. Both operations take a short critical section and never wait on a
// condition, so callers decide what to do when the buffer is full or empty.
//
// head is the next write position and tail the next read position. One slot
// is always kept empty so that head == tail means empty and
// (head+1) % capacity == tail means full; the buffer therefore holds at most
// capacity-1 jobs at once.
type ringBuffer struct {
	mu   sync.Mutex
	buf  []Job
	head int
	tail int
}

// newRingBuffer creates a ring buffer that can hold capacity-1 jobs.
// Capacity must be at least 2; Config.Validate enforces this.
func newRingBuffer(capacity int) *ringBuffer {
	return &ringBuffer{buf: make([]Job, capacity)}
}

// pushBack appends a job if there is free space. It returns false when the
// buffer is full; the job is not enqueued and the caller must retry.
func (r *ringBuffer) pushBack(job Job) bool {
	r.mu.Lock()
	next := (r.head + 1) % len(r.buf)
	if next == r.tail {
		r.mu.Unlock()
		return false
	}
	r.buf[r.head] = job
	r.head = next
	r.mu.Unlock()
	return true
}

// popFront removes and returns the oldest job, or false if the buffer is
// empty. The slot is cleared so the closure becomes collectable.
func (r *ringBuffer) popFront() (Job, bool) {
	r.mu.Lock()
	if r.tail == r.head {
		r.mu.Unlock()
		return nil, false
	}
	job := r.buf[r.tail]
	r.buf[r.tail] = nil
	r.tail = (r.tail + 1) % len(r.buf)
	r.mu.Unlock()
	return job, true
}

// len returns the number of jobs currently resident.
func (r *ringBuffer) len() int {
	r.mu.Lock()
	n := r.head - r.tail
	if n < 0 {
		n += len(r.buf)
	}
	r.mu.Unlock()
	return n
}

// cap returns the number of jobs the buffer can hold, which is one less
// than the allocated slot count.
func (r *ringBuffer) cap() int {
	return len(r.buf) - 1
}
