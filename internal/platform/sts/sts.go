// Package sts resolves the AWS identity a launch runs as.
package sts

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// API is the subset of the STS client used here.
type API interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// Identity is the caller's AWS identity.
type Identity struct {
	Account string
	ARN     string
	UserID  string
}

// Name returns the last path element of the ARN, e.g. the IAM user or the
// assumed-role session name.
func (i Identity) Name() string {
	if idx := strings.LastIndex(i.ARN, "/"); idx >= 0 {
		return i.ARN[idx+1:]
	}
	return i.ARN
}

// Client wraps the STS client.
type Client struct {
	api API
}

// NewClient creates a Client backed by api.
func NewClient(api API) *Client {
	return &Client{api: api}
}

// NewFromConfig creates a Client for cfg.
func NewFromConfig(cfg aws.Config, optFns ...func(*sts.Options)) *Client {
	return NewClient(sts.NewFromConfig(cfg, optFns...))
}

// CallerIdentity verifies the configured credentials and returns who they belong to.
func (c *Client) CallerIdentity(ctx context.Context) (Identity, error) {
	out, err := c.api.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return Identity{}, fmt.Errorf("failed to get AWS caller identity: %w", err)
	}
	return Identity{
		Account: aws.ToString(out.Account),
		ARN:     aws.ToString(out.Arn),
		UserID:  aws.ToString(out.UserId),
	}, nil
}
