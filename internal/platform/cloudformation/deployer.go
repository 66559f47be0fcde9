package cloudformation

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	cfn "github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
	"github.com/aws/smithy-go"

	"github.com/imamik/demolab/internal/stack"
)

// API is the subset of the CloudFormation client used by Deployer.
type API interface {
	CreateStack(ctx context.Context, params *cfn.CreateStackInput, optFns ...func(*cfn.Options)) (*cfn.CreateStackOutput, error)
	DescribeStacks(ctx context.Context, params *cfn.DescribeStacksInput, optFns ...func(*cfn.Options)) (*cfn.DescribeStacksOutput, error)
}

// Deployer implements stack.Deployer for CloudFormation.
type Deployer struct {
	api      API
	maxWait  time.Duration
	minDelay time.Duration
	maxDelay time.Duration
}

// Option configures a Deployer.
type Option func(*Deployer)

// WithMaxWait bounds how long Deploy waits for the stack to complete.
func WithMaxWait(d time.Duration) Option {
	return func(dep *Deployer) {
		if d > 0 {
			dep.maxWait = d
		}
	}
}

// WithWaitDelay sets the minimum and maximum delay between status checks.
func WithWaitDelay(minDelay, maxDelay time.Duration) Option {
	return func(dep *Deployer) {
		if minDelay > 0 && maxDelay >= minDelay {
			dep.minDelay = minDelay
			dep.maxDelay = maxDelay
		}
	}
}

// NewDeployer creates a Deployer backed by api.
func NewDeployer(api API, opts ...Option) *Deployer {
	d := &Deployer{
		api:      api,
		maxWait:  60 * time.Minute,
		minDelay: 15 * time.Second,
		maxDelay: 60 * time.Second,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// NewFromConfig creates a Deployer using the CloudFormation client for cfg.
func NewFromConfig(cfg aws.Config, opts ...Option) *Deployer {
	return NewDeployer(cfn.NewFromConfig(cfg), opts...)
}

// Deploy creates the stack and waits for it to reach CREATE_COMPLETE.
func (d *Deployer) Deploy(ctx context.Context, req stack.Request) (*stack.Result, error) {
	if req.Name == "" {
		return nil, errors.New("stack name is required")
	}

	result := &stack.Result{}

	out, err := d.api.CreateStack(ctx, &cfn.CreateStackInput{
		StackName:    aws.String(req.Name),
		TemplateBody: aws.String(string(req.TemplateBody)),
		Parameters:   parameters(req.Parameters),
		Tags:         tags(req.Tags),
		Capabilities: []types.Capability{
			types.CapabilityCapabilityIam,
			types.CapabilityCapabilityNamedIam,
		},
	})
	switch {
	case err == nil:
		result.StackID = aws.ToString(out.StackId)
	case IsAlreadyExists(err):
		result.Existing = true
	default:
		return nil, fmt.Errorf("failed to create stack %s: %w", req.Name, err)
	}

	current, err := d.describe(ctx, req.Name)
	if err != nil {
		return nil, err
	}
	if current.StackStatus != types.StackStatusCreateComplete {
		if err := d.wait(ctx, req.Name); err != nil {
			return nil, err
		}
		if current, err = d.describe(ctx, req.Name); err != nil {
			return nil, err
		}
	}

	if result.StackID == "" {
		result.StackID = aws.ToString(current.StackId)
	}
	result.Status = string(current.StackStatus)
	result.Outputs = outputs(current.Outputs)
	return result, nil
}

func (d *Deployer) wait(ctx context.Context, name string) error {
	waiter := cfn.NewStackCreateCompleteWaiter(d.api, func(o *cfn.StackCreateCompleteWaiterOptions) {
		o.MinDelay = d.minDelay
		o.MaxDelay = d.maxDelay
	})

	err := waiter.Wait(ctx, &cfn.DescribeStacksInput{StackName: aws.String(name)}, d.maxWait)
	if err == nil {
		return nil
	}

	// Surface the stack status reason rather than the generic waiter message.
	if current, derr := d.describe(ctx, name); derr == nil {
		return &StackError{
			Name:   name,
			Status: string(current.StackStatus),
			Reason: aws.ToString(current.StackStatusReason),
			Err:    err,
		}
	}
	return fmt.Errorf("failed waiting for stack %s: %w", name, err)
}

func (d *Deployer) describe(ctx context.Context, name string) (*types.Stack, error) {
	out, err := d.api.DescribeStacks(ctx, &cfn.DescribeStacksInput{StackName: aws.String(name)})
	if err != nil {
		return nil, fmt.Errorf("failed to describe stack %s: %w", name, err)
	}
	if len(out.Stacks) == 0 {
		return nil, fmt.Errorf("stack %s not found", name)
	}
	return &out.Stacks[0], nil
}

func parameters(params map[string]string) []types.Parameter {
	keys := sortedKeys(params)
	out := make([]types.Parameter, 0, len(keys))
	for _, k := range keys {
		out = append(out, types.Parameter{
			ParameterKey:   aws.String(k),
			ParameterValue: aws.String(params[k]),
		})
	}
	return out
}

func tags(t map[string]string) []types.Tag {
	keys := sortedKeys(t)
	out := make([]types.Tag, 0, len(keys))
	for _, k := range keys {
		out = append(out, types.Tag{Key: aws.String(k), Value: aws.String(t[k])})
	}
	return out
}

func outputs(in []types.Output) map[string]string {
	out := make(map[string]string, len(in))
	for _, o := range in {
		out[aws.ToString(o.OutputKey)] = aws.ToString(o.OutputValue)
	}
	return out
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// IsAlreadyExists reports whether err means the stack name is taken.
func IsAlreadyExists(err error) bool {
	var ae *types.AlreadyExistsException
	if errors.As(err, &ae) {
		return true
	}
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == "AlreadyExistsException"
}

// StackError reports a stack that did not reach CREATE_COMPLETE.
type StackError struct {
	Name   string
	Status string
	Reason string
	Err    error
}

func (e *StackError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("stack %s ended in %s: %s", e.Name, e.Status, e.Reason)
	}
	return fmt.Sprintf("stack %s ended in %s: %v", e.Name, e.Status, e.Err)
}

func (e *StackError) Unwrap() error {
	return e.Err
}
