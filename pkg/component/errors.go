package component

import "fmt"

// ArgumentError reports a caller mistake (null container, invalid stream
// index) that fails initialization fast, before any foreign resource is
// acquired.
type ArgumentError struct {
	Reason string
}

func (e *ArgumentError) Error() string { return "argument error: " + e.Reason }

// ContainerError reports a failure that aborts initialization after some
// foreign resources may already have been acquired; the caller guarantees
// every such resource is released before the error is returned.
type ContainerError struct {
	Reason string
}

func (e *ContainerError) Error() string { return "container error: " + e.Reason }

func containerErrorf(format string, args ...any) error {
	return &ContainerError{Reason: fmt.Sprintf(format, args...)}
}
