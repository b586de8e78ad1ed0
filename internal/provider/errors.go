package provider

import "errors"

var (
	// ErrUnsupportedOperation is returned by every contract operation the
	// Jira adapter does not implement.
	ErrUnsupportedOperation = errors.New("operation not supported by jira provider")

	// ErrUnsupportedMapping is returned when a resource has no matching
	// issue type in the target project.
	ErrUnsupportedMapping = errors.New("no jira issue type for resource")

	// ErrNotFound is returned when nothing matches the requested key.
	ErrNotFound = errors.New("not found")

	// ErrProjectRequired is returned when a save names no target project.
	ErrProjectRequired = errors.New("target project required")
)
