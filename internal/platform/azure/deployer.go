package azure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armdeploymentstacks"

	"sigs.k8s.io/yaml"

	"github.com/imamik/demolab/internal/stack"
)

// StacksAPI is the subset of deployment stack operations used by Deployer.
type StacksAPI interface {
	Get(ctx context.Context, name string) (*armdeploymentstacks.DeploymentStack, error)
	CreateOrUpdate(ctx context.Context, name string, ds armdeploymentstacks.DeploymentStack) (*armdeploymentstacks.DeploymentStack, error)
}

// Deployer implements stack.Deployer with Azure Deployment Stacks.
type Deployer struct {
	api      StacksAPI
	location string
	maxWait  time.Duration
}

// NewDeployer creates a Deployer that places stacks in location.
func NewDeployer(api StacksAPI, location string, maxWait time.Duration) *Deployer {
	if maxWait <= 0 {
		maxWait = 60 * time.Minute
	}
	return &Deployer{api: api, location: location, maxWait: maxWait}
}

// NewFromEnvironment creates a Deployer authenticated with the default
// Azure credential chain (environment, managed identity, Azure CLI).
func NewFromEnvironment(subscriptionID, location string, maxWait time.Duration) (*Deployer, error) {
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure credential: %w", err)
	}
	api, err := NewStacksClient(subscriptionID, cred)
	if err != nil {
		return nil, err
	}
	return NewDeployer(api, location, maxWait), nil
}

// Deploy creates or updates the deployment stack and waits for it.
// A stack that already succeeded under the same name is reused as is.
func (d *Deployer) Deploy(ctx context.Context, req stack.Request) (*stack.Result, error) {
	if req.Name == "" {
		return nil, errors.New("stack name is required")
	}

	ctx, cancel := context.WithTimeout(ctx, d.maxWait)
	defer cancel()

	existing, err := d.api.Get(ctx, req.Name)
	switch {
	case err == nil:
		if succeeded(existing) {
			res, err := result(existing)
			if err != nil {
				return nil, err
			}
			res.Existing = true
			return res, nil
		}
	case !IsNotFound(err):
		return nil, fmt.Errorf("failed to get deployment stack %s: %w", req.Name, err)
	}

	ds, err := d.deploymentStack(req)
	if err != nil {
		return nil, err
	}

	created, err := d.api.CreateOrUpdate(ctx, req.Name, ds)
	if err != nil {
		return nil, fmt.Errorf("deployment stack %s failed: %w", req.Name, err)
	}
	if !succeeded(created) {
		return nil, fmt.Errorf("deployment stack %s ended in state %s", req.Name, provisioningState(created))
	}
	return result(created)
}

func (d *Deployer) deploymentStack(req stack.Request) (armdeploymentstacks.DeploymentStack, error) {
	// ARM templates may be authored in YAML; the API only takes JSON.
	body, err := yaml.YAMLToJSON(req.TemplateBody)
	if err != nil {
		return armdeploymentstacks.DeploymentStack{}, fmt.Errorf("failed to parse ARM template: %w", err)
	}
	var template map[string]any
	if err := json.Unmarshal(body, &template); err != nil {
		return armdeploymentstacks.DeploymentStack{}, fmt.Errorf("ARM template must be a JSON object: %w", err)
	}

	parsed, err := stack.ParseTemplate(req.TemplateBody)
	if err != nil {
		return armdeploymentstacks.DeploymentStack{}, err
	}

	params := make(map[string]*armdeploymentstacks.DeploymentParameter, len(req.Parameters))
	for name, value := range req.Parameters {
		v, err := parameterValue(parsed.Parameters[name].Type, value)
		if err != nil {
			return armdeploymentstacks.DeploymentStack{}, fmt.Errorf("parameter %s: %w", name, err)
		}
		params[name] = &armdeploymentstacks.DeploymentParameter{Value: v}
	}

	tags := make(map[string]*string, len(req.Tags))
	for k, v := range req.Tags {
		tags[k] = to.Ptr(v)
	}

	return armdeploymentstacks.DeploymentStack{
		Location: to.Ptr(d.location),
		Properties: &armdeploymentstacks.DeploymentStackProperties{
			Template:   template,
			Parameters: params,
			ActionOnUnmanage: &armdeploymentstacks.ActionOnUnmanage{
				Resources:        to.Ptr(armdeploymentstacks.DeploymentStacksDeleteDetachEnumDelete),
				ResourceGroups:   to.Ptr(armdeploymentstacks.DeploymentStacksDeleteDetachEnumDelete),
				ManagementGroups: to.Ptr(armdeploymentstacks.DeploymentStacksDeleteDetachEnumDetach),
			},
			DenySettings: &armdeploymentstacks.DenySettings{
				Mode: to.Ptr(armdeploymentstacks.DenySettingsModeNone),
			},
		},
		Tags: tags,
	}, nil
}

// parameterValue converts value to the type the template declares.
// Undeclared parameters are passed as strings.
func parameterValue(armType, value string) (any, error) {
	switch strings.ToLower(armType) {
	case "object", "secureobject", "array":
		var v any
		if err := json.Unmarshal([]byte(value), &v); err != nil {
			return nil, fmt.Errorf("value for %s parameter is not JSON: %w", armType, err)
		}
		return v, nil
	case "int":
		return strconv.Atoi(value)
	case "bool":
		return strconv.ParseBool(value)
	default:
		return value, nil
	}
}

// succeeded compares the provisioning state case-insensitively.
func succeeded(ds *armdeploymentstacks.DeploymentStack) bool {
	return strings.EqualFold(provisioningState(ds), string(armdeploymentstacks.DeploymentStackProvisioningStateSucceeded))
}

func provisioningState(ds *armdeploymentstacks.DeploymentStack) string {
	if ds == nil || ds.Properties == nil || ds.Properties.ProvisioningState == nil {
		return ""
	}
	return string(*ds.Properties.ProvisioningState)
}

func result(ds *armdeploymentstacks.DeploymentStack) (*stack.Result, error) {
	res := &stack.Result{
		Status:  provisioningState(ds),
		Outputs: map[string]string{},
	}
	if ds.ID != nil {
		res.StackID = *ds.ID
	}
	if ds.Properties == nil || ds.Properties.Outputs == nil {
		return res, nil
	}

	outputsMap, ok := ds.Properties.Outputs.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("deployment stack outputs has unexpected type %T", ds.Properties.Outputs)
	}
	for key, value := range outputsMap {
		output, ok := value.(map[string]any)
		if !ok {
			continue
		}
		val, exists := output["value"]
		if !exists {
			continue
		}
		s, err := outputString(val)
		if err != nil {
			return nil, fmt.Errorf("output %s: %w", key, err)
		}
		res.Outputs[key] = s
	}
	return res, nil
}

func outputString(v any) (string, error) {
	if s, ok := v.(string); ok {
		return s, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// IsNotFound reports whether err is an ARM 404.
func IsNotFound(err error) bool {
	var respErr *azcore.ResponseError
	return errors.As(err, &respErr) && respErr.StatusCode == http.StatusNotFound
}
