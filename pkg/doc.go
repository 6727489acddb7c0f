// Package pkg provides the libraries behind treeideals, an enumerator of
// the ideals of rooted trees.
//
// # Overview
//
// An ideal of a rooted tree is a set of nodes that contains the parent of
// each of its members. treeideals lists every ideal that contains the root
// exactly once. The pkg directory is organized into four areas:
//
//  1. [forest] - Tree model and preprocessing (orders, sibling arrays, counting)
//  2. Engines - [kodaruskey], [popjumppush] and the parallel [partition]er,
//     selected through [enumerate]
//  3. Output - [ideal] views and sinks, [render] for DOT/SVG, [bench] reports
//  4. Infrastructure - [cache], [config], [errors], [observability], [io], [samples]
//
// # Architecture
//
// The typical data flow:
//
//	Sample name / tree file
//	         ↓
//	    [forest] package (validate, reorder, count)
//	         ↓
//	    [enumerate] package (prepare a layout for one engine)
//	         ↓
//	    engine walk → [ideal.Sink] per worker
//	         ↓
//	    listing, counts, benchmark report, rendered tree
//
// # Quick Start
//
//	tree := samples.MustGet("set_7Readme")
//	stats, err := enumerate.Run(ctx, enumerate.KodaRuskey, tree, enumerate.Options{},
//	    enumerate.Shared(ideal.NewWriter(os.Stdout, ideal.ModeLabels)))
//	if err != nil {
//	    return err
//	}
//	fmt.Println(stats.Ideals) // 30
//
// [forest]: github.com/matzehuels/treeideals/pkg/forest
// [kodaruskey]: github.com/matzehuels/treeideals/pkg/kodaruskey
// [popjumppush]: github.com/matzehuels/treeideals/pkg/popjumppush
// [partition]: github.com/matzehuels/treeideals/pkg/partition
// [enumerate]: github.com/matzehuels/treeideals/pkg/enumerate
// [ideal]: github.com/matzehuels/treeideals/pkg/ideal
// [ideal.Sink]: github.com/matzehuels/treeideals/pkg/ideal#Sink
// [render]: github.com/matzehuels/treeideals/pkg/render
// [bench]: github.com/matzehuels/treeideals/pkg/bench
// [cache]: github.com/matzehuels/treeideals/pkg/cache
// [config]: github.com/matzehuels/treeideals/pkg/config
// [errors]: github.com/matzehuels/treeideals/pkg/errors
// [observability]: github.com/matzehuels/treeideals/pkg/observability
// [io]: github.com/matzehuels/treeideals/pkg/io
// [samples]: github.com/matzehuels/treeideals/pkg/samples
package pkg
