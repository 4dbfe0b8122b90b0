// Package nodelink renders a structure snapshot as a Graphviz node-link
// diagram.
//
// Unlike the animated frame, which draws nodes where the motion model has
// put them, this view lets Graphviz lay the tree out. It is useful for
// checking the shape of the structure at a given playback step.
//
// # Usage
//
//	dot := nodelink.ToDOT(tree.Entries(), nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// Node fill and font colors follow the node's background and foreground
// colors; marked nodes get a bold outline. Invisible nodes are left out
// unless [Options.IncludeHidden] is set.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
