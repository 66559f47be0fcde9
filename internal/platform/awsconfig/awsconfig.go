// Package awsconfig loads the AWS SDK configuration shared by the
// CloudFormation, STS and S3 clients.
package awsconfig

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"

	"github.com/imamik/demolab/internal/config"
)

// Load resolves region and credentials for c.
//
// Static keys win over the profile, which wins over the default chain.
func Load(ctx context.Context, c config.AWSConfig) (aws.Config, error) {
	opts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(c.Region),
	}

	switch {
	case c.HasStaticCredentials():
		opts = append(opts, awscfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(c.AccessKeyID, c.SecretAccessKey, c.SessionToken),
		))
	case c.Profile != "":
		opts = append(opts, awscfg.WithSharedConfigProfile(c.Profile))
	}

	cfg, err := awscfg.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return cfg, nil
}
