// Package textgrid holds the in-memory model of a Praat TextGrid: a document
// with a global time range and an ordered list of named tiers, each tier
// holding either labeled intervals or labeled points.
//
// The package also carries the structural repair algorithms that operate on
// interval tiers (gap and overlap detection, boundary repair, gap filling)
// and the advisory warning channel shared with the reader.
//
// Nothing in this package performs I/O; see package praat for reading and
// writing the text format.
//
// A Document is not safe for concurrent mutation.
package textgrid
