package azure

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armdeploymentstacks"
)

// StacksClient adapts armdeploymentstacks.Client to StacksAPI.
type StacksClient struct {
	client *armdeploymentstacks.Client
}

// NewStacksClient creates a subscription-scoped deployment stacks client.
func NewStacksClient(subscriptionID string, cred azcore.TokenCredential) (*StacksClient, error) {
	client, err := armdeploymentstacks.NewClient(subscriptionID, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create deployment stacks client: %w", err)
	}
	return &StacksClient{client: client}, nil
}

// Get returns the deployment stack called name.
func (c *StacksClient) Get(ctx context.Context, name string) (*armdeploymentstacks.DeploymentStack, error) {
	resp, err := c.client.GetAtSubscription(ctx, name, nil)
	if err != nil {
		return nil, err
	}
	return &resp.DeploymentStack, nil
}

// CreateOrUpdate submits ds and polls until the operation completes.
func (c *StacksClient) CreateOrUpdate(ctx context.Context, name string, ds armdeploymentstacks.DeploymentStack) (*armdeploymentstacks.DeploymentStack, error) {
	poller, err := c.client.BeginCreateOrUpdateAtSubscription(ctx, name, ds, nil)
	if err != nil {
		return nil, fmt.Errorf("begin subscription deployment stack creation: %w", err)
	}
	resp, err := poller.PollUntilDone(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &resp.DeploymentStack, nil
}
