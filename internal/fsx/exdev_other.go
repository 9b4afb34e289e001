//go:build !unix

package fsx

// Non-unix platforms report cross-volume renames with their own error codes;
// those surface as plain move failures.
func isEXDEV(error) bool { return false }

// CheckWritable is a no-op where access(2) is unavailable; move failures are
// reported per file instead.
func CheckWritable(string) error { return nil }
