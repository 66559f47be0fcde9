package stack

import (
	"context"
	"sort"
)

// Request describes a stack to create.
type Request struct {
	Name         string
	TemplateBody []byte
	Parameters   map[string]string
	Tags         map[string]string
}

// Result is a deployed stack.
type Result struct {
	StackID string
	Status  string
	Outputs map[string]string

	// Existing is true when a stack with the same name was adopted.
	Existing bool
}

// OutputNames returns the output keys in sorted order.
func (r *Result) OutputNames() []string {
	names := make([]string, 0, len(r.Outputs))
	for k := range r.Outputs {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Deployer creates an infrastructure stack and waits for it to complete.
type Deployer interface {
	Deploy(ctx context.Context, req Request) (*Result, error)
}

