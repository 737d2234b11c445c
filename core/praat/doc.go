// Package praat reads and writes the Praat "ooTextFile" TextGrid format.
//
// Decoding runs a fixed pipeline:
//
//	raw lines → NormalizeLines → Tokenize → decoder → *textgrid.Document
//
// The tokenizer keeps only quoted strings and numeric literals, dropping
// every field label, index and keyword. The decoder then walks that flat
// token queue and never trusts the sizes the file declares: a tier's
// children are read until the next tier class token ("IntervalTier" or
// "TextTier") appears at the front of the queue. Declared sizes that
// disagree with what was found only produce warnings.
//
// Encoding renders either the verbose ("long") layout Praat writes by
// default or the compact ("short") layout that carries only values.
package praat
