package register

import (
	"fmt"
	"strings"
)

// ValidationError reports an argument that a constructor or mutator refused.
type ValidationError struct {
	Field  string
	Reason string
}

func (err *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", err.Field, err.Reason)
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

type DuplicateError struct {
	TrainNumber int
}

func (err *DuplicateError) Error() string {
	return fmt.Sprintf("train number %d already exists", err.TrainNumber)
}

// MembershipError is returned by batch operations given an empty batch or
// train numbers that are not in the register.
type MembershipError struct {
	Missing []int
}

func (err *MembershipError) Error() string {
	if len(err.Missing) == 0 {
		return "no departures selected"
	}

	numbers := make([]string, len(err.Missing))
	for i, n := range err.Missing {
		numbers[i] = fmt.Sprint(n)
	}
	return fmt.Sprintf("train numbers not in register: %s", strings.Join(numbers, ", "))
}
