// Command fontsieve subsets font files to named Unicode ranges and writes
// WOFF/WOFF2 web fonts.
//
// The root command runs a batch over every font in the input directory.
// Subcommands browse the subset catalog, manage the configuration file, run
// preflight checks and show the run history. With --inspect the root command
// prints font metadata instead of subsetting.
package main
