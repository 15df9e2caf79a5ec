// Package faults defines the sentinel errors shared by the subsetting pipeline
// and the rules that decide whether a failure ends the run or only the file.
//
// Components tag their errors with Wrap so the batch orchestrator and the CLI
// can classify them with errors.Is without knowing which backend produced
// them.
package faults
