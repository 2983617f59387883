package model

import "time"

// CheckRun represents a named check result attached to a commit
type CheckRun struct {
	ID        int64
	Name      string
	StartedAt time.Time
	SuiteID   int64
}

// CheckRunLookup is the result of searching the latest run of a named check
type CheckRunLookup struct {
	CheckName string
	Run       *CheckRun // nil when no run matched
}

// Found reports whether a matching run exists
func (l *CheckRunLookup) Found() bool {
	return l.Run != nil
}
