// Package io reads and writes tree files.
//
// # Format
//
// A tree file holds the three parallel values of a [forest.Tree]. JSON,
// TOML and YAML carry the same fields:
//
//	{
//	  "root": 1,
//	  "parents":  [0, 1, 1, 1, 2, 2, 3],
//	  "children": [1, 2, 3, 4, 5, 6, 7]
//	}
//
// "children" may be omitted, in which case the nodes are labelled 1..N in
// order, the convention of the built-in samples.
//
// # Import
//
// [ImportFile] picks the decoder from the file extension (.json, .toml,
// .yaml, .yml). [Read] decodes from any io.Reader in an explicit [Format].
// Decoding failures carry the INVALID_FORMAT code, missing files
// FILE_NOT_FOUND, and shape problems the INVALID_TREE code from
// [forest.New].
//
// # Export
//
// [Write] and [ExportFile] produce the same layout, so an exported tree
// imports back unchanged.
package io
