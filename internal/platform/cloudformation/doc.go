// Package cloudformation deploys lab stacks with AWS CloudFormation.
//
// A Deployer creates the stack, waits for CREATE_COMPLETE and returns the
// stack outputs. Re-running with the same stack name adopts the existing
// stack instead of failing.
package cloudformation
