// Package tracker threads per-leaf log areas from one subdivision level to
// the next and records one Sample per level.
//
// The subdivision driver reports each level as a list of Child boxes, each
// expressed in its parent's own [-1,1]^n frame and pointing at the index
// of its parent in the previous level. The tracker resolves the ancestor
// log areas, aggregates the frontier with area.AggregateLogAreas and keeps
// the per-leaf result for the next call.
package tracker
