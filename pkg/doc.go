// Package pkg provides the core libraries for algoviz, a recorder and player
// for animated data structure walkthroughs.
//
// # Overview
//
// Algoviz records every visible change an algorithm makes to its nodes as a
// reversible command, so a run can be replayed forwards and backwards,
// exported, stored, and rendered frame by frame. The pkg directory is
// organized by concern:
//
//  1. [viz] - Keys, animated nodes, reversible commands and the ticker
//  2. [structure] - The binary search tree that records its operations
//  3. [scenario] - Command logs, playback and the exchange document
//  4. [render] - Drawing surfaces (SVG, braille canvas) and format conversion
//  5. [render/nodelink] - Graphviz diagrams of a tree's link structure
//  6. [store] - Document storage (file, badger, redis, mongo)
//  7. [server] - HTTP API over a store
//  8. [config], [errors], [metrics], [observability], [buildinfo] - Support
//
// # Architecture
//
// The typical data flow through algoviz:
//
//	Tree operation (insert, search, remove)
//	         ↓
//	    [viz] commands recorded into a [scenario]
//	         ↓
//	    Exchange document (JSON/YAML)
//	         ↓
//	    [store] / playback / [render] frames
//
// # Quick Start
//
// Record an insertion and export it:
//
//	import (
//	    "context"
//	    "os"
//
//	    "github.com/matzehuels/algoviz/pkg/scenario"
//	    "github.com/matzehuels/algoviz/pkg/structure"
//	    "github.com/matzehuels/algoviz/pkg/viz"
//	)
//
//	tree := structure.NewTree()
//	tree.AddNode(viz.IntKey(5))
//	sc := scenario.New(tree, scenario.WithName("demo"))
//	tree.Insert(context.Background(), sc, viz.IntKey(5))
//	sc.Stop()
//	sc.Export(os.Stdout, scenario.FormatJSON)
//
// Bounded trees animate their nodes, so Insert blocks until a [viz.Ticker]
// has moved them into place. See the package documentation for details.
package pkg
