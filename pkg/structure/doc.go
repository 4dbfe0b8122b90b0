// Package structure provides the reference data-structure host: a keyed
// table of animated nodes with left/right child edges.
//
// [Tree] implements [viz.Host], so commands recorded against it can be
// replayed by a scenario. It also carries a binary-search-tree producer,
// [Tree.Insert] and [Tree.Search], that drives node motion and emits
// commands through a [viz.Recorder]. The CLI uses it to record demo
// scenarios without an interactive front end.
//
// The tree root is the right child of a hidden header node keyed
// [viz.Absent]. Changing the root is therefore an ordinary Link command and
// replays like any other edge change.
//
// # Lifecycle
//
// Node creation is not a command. Create every node up front with
// [Tree.AddNode] (they start off screen in state Up), capture the initial
// state with [Tree.Entries], then start recording.
package structure
