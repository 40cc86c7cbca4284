package validator

import (
	"fmt"

	"hn-sort-checker/models"
)

// CountMismatchError reports a sequence of the wrong length
type CountMismatchError struct {
	Got  int
	Want int
}

func (e *CountMismatchError) Error() string {
	return fmt.Sprintf("article count is %d, want %d", e.Got, e.Want)
}

// OrderViolationError reports the first adjacent pair that is not newest-first.
// Index is 0-based and points at Current; Next is at Index+1.
type OrderViolationError struct {
	Index   int
	Current models.Timestamp
	Next    models.Timestamp
}

func (e *OrderViolationError) Error() string {
	return fmt.Sprintf("article at index %d is out of order: %d should be greater than or equal to %d (index %d)",
		e.Index, e.Current, e.Next, e.Index+1)
}

// Validator checks collected timestamps against the expected count and order
type Validator struct {
	expected int
}

// New creates a Validator expecting exactly expected timestamps
func New(expected int) *Validator {
	return &Validator{
		expected: expected,
	}
}

// Validate checks the count first and the order second, stopping at the first
// failure. The sequence is not modified.
func (v *Validator) Validate(timestamps models.Sequence) error {
	if len(timestamps) != v.expected {
		return &CountMismatchError{Got: len(timestamps), Want: v.expected}
	}

	for i := 0; i < len(timestamps)-1; i++ {
		current, next := timestamps[i], timestamps[i+1]
		if current < next {
			return &OrderViolationError{Index: i, Current: current, Next: next}
		}
	}

	return nil
}
