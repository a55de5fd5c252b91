package scheduler

import (
	"container/heap"
	"sort"

	"github.com/arvandi/propflow/cgraph"
	"github.com/arvandi/propflow/planner"
)

// StrengthComparer reports the relative strength of two constraint ids;
// satisfied by *planner.Planner's Compare method.
type StrengthComparer interface {
	Compare(a, b string) int
}

// Toposort returns sg's selected method ids in topological order: every
// method appears after every method that produces one of its (non-prior)
// inputs. Among methods with no remaining dependency, the one owned by
// the strongest constraint (per cmp) is emitted first; ties are broken by
// method id for determinism. A nil sg yields an empty order.
func Toposort(cg *cgraph.Graph, sg *planner.SGraph, cmp StrengthComparer) ([]string, error) {
	if sg == nil || len(sg.Selected) == 0 {
		return nil, nil
	}

	mids := make([]string, 0, len(sg.Selected))
	constraintOf := make(map[string]string, len(sg.Selected))
	for cid, mid := range sg.Selected {
		mids = append(mids, mid)
		constraintOf[mid] = cid
	}
	sort.Strings(mids) // deterministic base iteration order below

	// writer[v] names the selected method that writes v, if any.
	writer := make(map[string]string)
	for _, mid := range mids {
		for _, out := range cg.OutputsFor(mid) {
			writer[out] = mid
		}
	}

	dependents := make(map[string][]string, len(mids)) // writer -> readers it unblocks
	indegree := make(map[string]int, len(mids))
	seenDep := make(map[string]map[string]bool, len(mids))
	for _, mid := range mids {
		indegree[mid] = 0
		seenDep[mid] = make(map[string]bool)
	}
	for _, mid := range mids {
		for _, in := range cg.InputsFor(mid) {
			if in.Prior {
				continue
			}
			w, ok := writer[in.Variable]
			if !ok || w == mid || seenDep[mid][w] {
				continue
			}
			seenDep[mid][w] = true
			indegree[mid]++
			dependents[w] = append(dependents[w], mid)
		}
	}

	pq := &readyPQ{cmp: cmp}
	heap.Init(pq)
	for _, mid := range mids {
		if indegree[mid] == 0 {
			heap.Push(pq, &readyItem{mid: mid, cid: constraintOf[mid]})
		}
	}

	order := make([]string, 0, len(mids))
	for pq.Len() > 0 {
		item := heap.Pop(pq).(*readyItem)
		order = append(order, item.mid)
		for _, reader := range dependents[item.mid] {
			indegree[reader]--
			if indegree[reader] == 0 {
				heap.Push(pq, &readyItem{mid: reader, cid: constraintOf[reader]})
			}
		}
	}

	if len(order) != len(mids) {
		return nil, ErrCycleDetected
	}
	return order, nil
}

// readyItem is a method eligible for scheduling (all its dependencies are
// already ordered), tagged with its owning constraint for strength
// comparison.
type readyItem struct {
	mid string
	cid string
}

// readyPQ is a priority queue of readyItems ordered strongest-constraint
// first, tie-broken by method id. Mirrors dijkstra.go's nodePQ shape with
// "distance" replaced by "strength rank".
type readyPQ struct {
	items []*readyItem
	cmp   StrengthComparer
}

func (pq *readyPQ) Len() int { return len(pq.items) }

func (pq *readyPQ) Less(i, j int) bool {
	a, b := pq.items[i], pq.items[j]
	switch pq.cmp.Compare(a.cid, b.cid) {
	case -1:
		return true
	case 1:
		return false
	default:
		return a.mid < b.mid
	}
}

func (pq *readyPQ) Swap(i, j int) { pq.items[i], pq.items[j] = pq.items[j], pq.items[i] }

func (pq *readyPQ) Push(x interface{}) { pq.items = append(pq.items, x.(*readyItem)) }

func (pq *readyPQ) Pop() interface{} {
	old := pq.items
	n := len(old)
	item := old[n-1]
	pq.items = old[:n-1]
	return item
}
