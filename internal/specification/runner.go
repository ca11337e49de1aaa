package specification

import (
	"errors"
	"fmt"
)

// ExampleRunner is implemented by fixture objects able to run examples.
type ExampleRunner interface {
	RunExample(name string) error
}

// ErrNotRunnable is returned when a fixture object cannot run examples.
var ErrNotRunnable = errors.New("fixture object does not implement RunExample")

// RunExample runs the named example against a fixture object.
func RunExample(fixture any, example string) error {
	runner, ok := fixture.(ExampleRunner)
	if !ok {
		return fmt.Errorf("example %q on %T: %w", example, fixture, ErrNotRunnable)
	}
	if err := runner.RunExample(example); err != nil {
		return fmt.Errorf("example %q: %w", example, err)
	}
	return nil
}
