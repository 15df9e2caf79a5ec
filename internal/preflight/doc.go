// Package preflight provides readiness checks for the directories and
// executables a subsetting run depends on.
//
// The "fontsieve check" command runs every applicable check and prints the
// results. Checks that depend on a setting only run when it is in effect:
// the subsetting executable is only required for the external backend.
package preflight
