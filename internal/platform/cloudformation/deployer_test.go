package cloudformation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	cfn "github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/demolab/internal/stack"
	"github.com/imamik/demolab/internal/util/labels"
)

type fakeCFN struct {
	mu        sync.Mutex
	createErr error
	statuses  []types.StackStatus
	reason    string
	outputs   []types.Output

	created   *cfn.CreateStackInput
	describes int
}

func (f *fakeCFN) CreateStack(_ context.Context, in *cfn.CreateStackInput, _ ...func(*cfn.Options)) (*cfn.CreateStackOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = in
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &cfn.CreateStackOutput{StackId: aws.String("arn:aws:cloudformation:us-east-1:123:stack/" + aws.ToString(in.StackName) + "/1")}, nil
}

func (f *fakeCFN) DescribeStacks(_ context.Context, in *cfn.DescribeStacksInput, _ ...func(*cfn.Options)) (*cfn.DescribeStacksOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	status := f.statuses[min(f.describes, len(f.statuses)-1)]
	f.describes++
	return &cfn.DescribeStacksOutput{Stacks: []types.Stack{{
		StackId:           aws.String("arn:aws:cloudformation:us-east-1:123:stack/" + aws.ToString(in.StackName) + "/0"),
		StackName:         in.StackName,
		StackStatus:       status,
		StackStatusReason: aws.String(f.reason),
		Outputs:           f.outputs,
	}}}, nil
}

func newTestDeployer(api API) *Deployer {
	return NewDeployer(api, WithMaxWait(5*time.Second), WithWaitDelay(time.Millisecond, 2*time.Millisecond))
}

func testRequest() stack.Request {
	return stack.Request{
		Name:         "jdoe-kafka-1760788800",
		TemplateBody: []byte("Resources: {}"),
		Parameters: map[string]string{
			"SingleStoreConnDetails": `{"ws1":{}}`,
			"KeyName":                "demo",
		},
		Tags: map[string]string{
			labels.KeyTemplateName: "Kafka Pipeline Demo",
			labels.KeyOwnerEmail:   "j.doe@example.com",
		},
	}
}

func TestDeploy_CreatesAndWaits(t *testing.T) {
	t.Parallel()
	api := &fakeCFN{
		statuses: []types.StackStatus{
			types.StackStatusCreateInProgress,
			types.StackStatusCreateInProgress,
			types.StackStatusCreateComplete,
		},
		outputs: []types.Output{{OutputKey: aws.String("PublicIP"), OutputValue: aws.String("203.0.113.7")}},
	}

	res, err := newTestDeployer(api).Deploy(context.Background(), testRequest())
	require.NoError(t, err)

	assert.False(t, res.Existing)
	assert.Contains(t, res.StackID, "/1")
	assert.Equal(t, "CREATE_COMPLETE", res.Status)
	assert.Equal(t, map[string]string{"PublicIP": "203.0.113.7"}, res.Outputs)

	in := api.created
	require.NotNil(t, in)
	assert.Equal(t, "jdoe-kafka-1760788800", aws.ToString(in.StackName))
	assert.Equal(t, "Resources: {}", aws.ToString(in.TemplateBody))
	assert.ElementsMatch(t, []types.Capability{types.CapabilityCapabilityIam, types.CapabilityCapabilityNamedIam}, in.Capabilities)

	require.Len(t, in.Parameters, 2)
	assert.Equal(t, "KeyName", aws.ToString(in.Parameters[0].ParameterKey))
	assert.Equal(t, "SingleStoreConnDetails", aws.ToString(in.Parameters[1].ParameterKey))
	assert.Equal(t, `{"ws1":{}}`, aws.ToString(in.Parameters[1].ParameterValue))

	require.Len(t, in.Tags, 2)
	assert.Equal(t, labels.KeyOwnerEmail, aws.ToString(in.Tags[0].Key))
	assert.Equal(t, "j.doe@example.com", aws.ToString(in.Tags[0].Value))
}

func TestDeploy_AdoptsExistingStack(t *testing.T) {
	t.Parallel()
	api := &fakeCFN{
		createErr: &types.AlreadyExistsException{Message: aws.String("Stack [jdoe-kafka-1760788800] already exists")},
		statuses:  []types.StackStatus{types.StackStatusCreateComplete},
	}

	res, err := newTestDeployer(api).Deploy(context.Background(), testRequest())
	require.NoError(t, err)
	assert.True(t, res.Existing)
	assert.Contains(t, res.StackID, "/0")
	assert.Equal(t, 1, api.describes, "completed stack is not waited on")
}

func TestDeploy_StackRollsBack(t *testing.T) {
	t.Parallel()
	api := &fakeCFN{
		statuses: []types.StackStatus{
			types.StackStatusCreateInProgress,
			types.StackStatusRollbackComplete,
		},
		reason: "The following resource(s) failed to create: [Instance]",
	}

	_, err := newTestDeployer(api).Deploy(context.Background(), testRequest())
	require.Error(t, err)

	var se *StackError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "ROLLBACK_COMPLETE", se.Status)
	assert.Contains(t, err.Error(), "failed to create: [Instance]")
}

func TestDeploy_CreateError(t *testing.T) {
	t.Parallel()
	api := &fakeCFN{
		createErr: &smithy.GenericAPIError{Code: "InsufficientCapabilitiesException", Message: "Requires capabilities"},
		statuses:  []types.StackStatus{types.StackStatusCreateComplete},
	}

	_, err := newTestDeployer(api).Deploy(context.Background(), testRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create stack jdoe-kafka-1760788800")
	assert.Zero(t, api.describes)
}

func TestDeploy_RequiresName(t *testing.T) {
	t.Parallel()
	_, err := newTestDeployer(&fakeCFN{}).Deploy(context.Background(), stack.Request{})
	require.Error(t, err)
}

func TestIsAlreadyExists(t *testing.T) {
	t.Parallel()
	assert.True(t, IsAlreadyExists(&types.AlreadyExistsException{}))
	assert.True(t, IsAlreadyExists(&smithy.GenericAPIError{Code: "AlreadyExistsException"}))
	assert.False(t, IsAlreadyExists(&smithy.GenericAPIError{Code: "ValidationError"}))
	assert.False(t, IsAlreadyExists(errors.New("boom")))
}

func TestOptionsIgnoreInvalidValues(t *testing.T) {
	t.Parallel()
	d := NewDeployer(&fakeCFN{}, WithMaxWait(0), WithWaitDelay(time.Second, time.Millisecond))
	assert.Equal(t, 60*time.Minute, d.maxWait)
	assert.Equal(t, 15*time.Second, d.minDelay)
}
