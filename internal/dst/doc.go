// Package dst implements the Data-Stream Transducer: the state/
// transition graph the AST compiler builds and the event-driven
// executor walks.
//
// GRAPH SHAPE:
//
// A DST is a labeled multigraph with cycles (looping patterns, relaxed
// ignore-shadows). States are arena-allocated, addressed by a stable
// global id minted from a monotonic counter (see NewState); Delta is
// indexed by source state id to a slice of outgoing transitions, so
// Outgoing(q) is an O(1) map lookup plus a slice copy-free iteration.
//
// CONFIGURATION SEMANTICS:
//
// A Configuration is a value-semantics snapshot (State, Eta, Ctx,
// LastTake). Eta and Ctx updates are copy-on-write in spirit: identity
// updates share the prior map, non-identity updates allocate a fresh
// one. Acceptance additionally requires LastTake, since an ignore or
// epsilon tail must never make an otherwise-final configuration
// accepting (see Accepts).
package dst
