// Package inspect reports font metadata: names, layout features, glyph count,
// style flags and variation axes.
//
// Files are parsed concurrently. A file that cannot be parsed yields a report
// carrying the error instead of aborting the others.
package inspect
