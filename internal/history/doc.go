// Package history records completed subsetting runs in a SQLite database so
// earlier results can be listed and inspected from the CLI.
//
// The database lives under the configured state directory. The schema is
// embedded and versioned; a version mismatch is reported instead of being
// migrated, and the file can simply be deleted to start over.
package history
