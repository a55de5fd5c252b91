package signal

import "container/heap"

// Priority levels for Scheduler.Schedule. Reactive signal propagation runs
// at ReactivePriority (drains first); the update loop's batched work runs
// at SystemUpdatePriority.
const (
	ReactivePriority     = 0
	SystemUpdatePriority = 1
)

// Scheduler is a cooperative priority queue of pending callbacks: lower
// priority values drain first, ties break by submission order (FIFO),
// mirroring dijkstra/dijkstra.go's nodePQ shape with "distance" replaced
// by "(priority, sequence)".
//
// Scheduler does not run callbacks on its own goroutine: a driver calls
// Drain (or DrainOne) to execute whatever is ready. This keeps the whole engine
// single-threaded and re-entrancy-free.
type Scheduler struct {
	pq   schedPQ
	seq  uint64
	runs map[string]bool // coalescing keys currently queued
}

// NewScheduler returns an empty Scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{runs: make(map[string]bool)}
}

// Schedule enqueues fn at the given priority. If key is non-empty and
// already has a pending (not yet drained) entry, the call is dropped, so
// repeated calls between ticks collapse into a single scheduled update.
// Pass an empty key to disable coalescing for this call.
func (s *Scheduler) Schedule(priority int, key string, fn func()) {
	if key != "" && s.runs[key] {
		return
	}
	if key != "" {
		s.runs[key] = true
	}
	s.seq++
	heap.Push(&s.pq, &schedItem{priority: priority, seq: s.seq, key: key, fn: fn})
}

// Pending reports whether any callback is queued.
func (s *Scheduler) Pending() bool { return s.pq.Len() > 0 }

// DrainOne pops and runs the single highest-priority (lowest value)
// pending callback, clearing its coalescing key first so a callback that
// re-schedules itself under the same key is accepted. It reports whether
// anything ran.
func (s *Scheduler) DrainOne() bool {
	if s.pq.Len() == 0 {
		return false
	}
	item := heap.Pop(&s.pq).(*schedItem)
	if item.key != "" {
		delete(s.runs, item.key)
	}
	item.fn()
	return true
}

// Drain runs every currently queued callback, including ones newly
// scheduled by earlier callbacks in this same Drain call, until the queue
// is empty.
func (s *Scheduler) Drain() {
	for s.DrainOne() {
	}
}

type schedItem struct {
	priority int
	seq      uint64
	key      string
	fn       func()
}

type schedPQ []*schedItem

func (pq schedPQ) Len() int { return len(pq) }
func (pq schedPQ) Less(i, j int) bool {
	if pq[i].priority != pq[j].priority {
		return pq[i].priority < pq[j].priority
	}
	return pq[i].seq < pq[j].seq
}
func (pq schedPQ) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }
func (pq *schedPQ) Push(x interface{}) { *pq = append(*pq, x.(*schedItem)) }
func (pq *schedPQ) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}
