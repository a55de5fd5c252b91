// Package engine implements the update loop (C6): the only component
// with write access to the constraint graph and the planner's strength
// order. It ingests add/remove/touch/change events, batches them into
// three pending sets (needUpdating, needEnforcing, needEvaluating), and
// drives plan -> schedule -> evaluate -> solved on a cooperative
// scheduler queue (signal.Scheduler), coalescing repeated edits between
// ticks.
//
// Options follows builder/options.go's functional-option idiom: Option
// constructors validate and mutate an Options struct, never the Engine
// directly.
package engine
