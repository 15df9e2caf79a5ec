// Package discovery finds the font files a run operates on: files with
// font-like extensions in the input directory, plus optional installed system
// fonts looked up by file name.
package discovery
