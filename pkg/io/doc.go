// Package io reads box lists and reads/writes solved stacks.
//
// # Box Files
//
// Box lists may be written as JSON, TOML or YAML; the format is chosen from
// the file extension (.json, .toml, .yaml, .yml). All three share one shape,
// a top-level "boxes" list whose entries carry l, w and h:
//
//	{"boxes": [{"l": 4, "w": 4, "h": 2}, {"l": 3, "w": 3, "h": 3}]}
//
//	[[boxes]]
//	l = 4
//	w = 4
//	h = 2
//
//	boxes:
//	  - {l: 4, w: 4, h: 2}
//
// Every dimension must be a finite, strictly positive number. Input order is
// preserved: it decides ties between equally tall stacks.
//
// On the command line a box is written "LxWxH" ([ParseBoxFlag]), where each
// dimension uses the same narrow grammar as interactive entry: digits with at
// most one decimal point.
//
// # Solutions
//
// [WriteSolutionJSON] serializes a [stack.Solution] so it can be re-rendered
// later without repeating the search; [ReadSolutionJSON] loads and checks it.
package io
