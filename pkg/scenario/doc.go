// Package scenario records reversible commands into a linear log and plays
// them back in either direction.
//
// A [Scenario] is created with [New] when recording starts. It implements
// [viz.Recorder], so it is handed to node and host mutations, which append a
// command before applying their change. Playback moves a cursor through the
// log: [Scenario.Forward] executes the command at the cursor and advances,
// [Scenario.Back] steps back and unexecutes it.
//
// # Recording policy
//
// Commands may only be appended while recording and while the cursor sits at
// the end of the log. Appending anywhere else fails with
// ILLEGAL_RECORDING_STATE. Callers that want to branch from an earlier point
// call [Scenario.Truncate] first, which discards the commands after the
// cursor. [Scenario.Stop] ends recording for good.
//
// # Exchange format
//
// [Scenario.Document] converts a scenario into a [Document], which encodes
// to JSON or YAML. [Import] decodes a document's commands against an
// existing host and fails as a whole if any command names a key the host
// does not hold. [Load] rebuilds the host from the document's node
// snapshot first, so a document can be replayed on its own.
package scenario
