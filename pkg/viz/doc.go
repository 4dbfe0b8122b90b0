// Package viz implements the animated node model and the reversible commands
// that change it.
//
// # Nodes
//
// A [Node] is a visual entity with a logical [Key], colors, a highlight ring,
// an optional arrow or arc toward another node, and a discrete-step motion
// state. [Node.SetTarget] gives the node a destination and a tick budget;
// every call to [Node.Step] then moves it by
//
//	(target - position) / remaining
//
// using integer truncation, so the node lands exactly on its target after the
// budget is spent. Intermediate positions are deterministic, which keeps
// replays frame-identical.
//
// Nodes never hold pointers to each other. Arrows and arcs name their target
// by Key and are resolved through a [Lookup] at draw time.
//
// # Commands
//
// Every recorded mutation is captured as a [Command], a closed set of
// variants ([Link], [SetState], [Recolor], [Move], [Arrow], [Arc]) that carry
// both the previous and the new value. [Execute] and [Unexecute] apply a
// command in either direction against a [Host]:
//
//	Execute(h, c); Unexecute(h, c)   // restores the state before Execute
//	Unexecute(h, c); Execute(h, c)   // restores the state after Execute
//
// Recording is an explicit capability: mutating methods take a [Recorder],
// and a nil Recorder applies the change without recording it.
//
// # Animation
//
// A [Ticker] advances all nodes of a host once per interval. Methods that must
// wait for the animation (a node entering or leaving the viewport in
// SetTarget) block on a per-node notification channel and honor context
// cancellation.
package viz
