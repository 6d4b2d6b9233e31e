package sequence

import "fmt"

// StepError ties a failure to the step that produced it.
type StepError struct {
	Index int // zero-based position in the sequence
	Name  string
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%s): %v", e.Index+1, e.Name, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }
