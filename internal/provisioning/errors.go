package provisioning

import "fmt"

// PreconditionError is returned when an operation is called before the state
// it depends on exists. No remote call has been made when it is returned.
type PreconditionError struct {
	Operation   string
	Requirement string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s requires %s", e.Operation, e.Requirement)
}

// EmptyResultError is returned when a listing that must not be empty is.
type EmptyResultError struct {
	Resource string
	Scope    string
}

func (e *EmptyResultError) Error() string {
	return fmt.Sprintf("no %s found in %s", e.Resource, e.Scope)
}
