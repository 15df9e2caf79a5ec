// Package unirange parses textual Unicode range tokens (U+41, U+0-FF) into
// codepoint selections.
//
// A Selection is a compacted unicode.RangeTable, so membership tests, counts
// and ordered iteration stay cheap even for selections covering whole
// planes. Malformed tokens are configuration errors: a run must never go on
// with a selection that silently lost part of what was asked for.
package unirange
