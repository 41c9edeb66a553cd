// Package statistics aggregates round and game results for the terminal
// footer and simulation reports.
package statistics
