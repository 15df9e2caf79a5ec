// Package webfont packs subsetted sfnt fonts into web font containers.
//
// Only WOFF2 is produced. Tables are copied verbatim (glyf and loca use the
// null transform) and compressed together as one Brotli stream, which every
// conforming WOFF2 decoder accepts.
package webfont
