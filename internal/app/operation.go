package app

import "time"

// Operation tracks the CLI command being run. Its ID tags every log line
// written during the command.
type Operation struct {
	ID         string
	Command    string
	Parameters string
	Status     string // "success" or "error"
	StartedAt  time.Time
}

// NewOperation creates an operation for command started at now.
func NewOperation(command, parameters string, now time.Time) *Operation {
	return &Operation{
		ID:         now.UTC().Format("20060102T150405Z"),
		Command:    command,
		Parameters: parameters,
		Status:     "success",
		StartedAt:  now,
	}
}

// Record marks the operation as failed when err is non-nil and returns err.
func (op *Operation) Record(err error) error {
	if err != nil {
		op.Status = "error"
	}
	return err
}

// Failed reports whether any recorded step failed.
func (op *Operation) Failed() bool {
	return op.Status == "error"
}
