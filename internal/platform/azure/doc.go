// Package azure deploys lab stacks as Azure Deployment Stacks at
// subscription scope.
package azure
