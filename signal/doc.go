// Package signal implements a small single-threaded pub/sub primitive
// plus the cooperative priority scheduler
// queue the update loop (C6) drains to coalesce repeated edits between
// ticks.
//
// Signal replays its last emitted value to a new subscriber, the same
// "subscribe late, still see current state" contract reactive engines in
// this space rely on. Scheduler ranks pending work by priority using a
// container/heap queue, the same lazy-priority-queue shape
// dijkstra/dijkstra.go's nodePQ uses for distance, here ranking by
// (priority, sequence) instead.
package signal
