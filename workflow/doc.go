// Package workflow implements the conversational orchestration engine: a
// typed state container with last-write-wins delta merging, a registry of
// node handlers, per-node routers constrained to declared edge sets, loop
// guards for the cyclic search/reflect subgraph, and the execution driver
// that runs a turn from intent analysis to the terminal response node.
//
// The engine guarantees termination: semantic loop counters bound the
// reflect cycle, a structural recursion ceiling bounds total node
// invocations, and a wall-clock deadline bounds the whole run. Every
// termination path, including guard exhaustion and timeout, still produces
// a user-facing response via a forced terminal invocation.
package workflow
