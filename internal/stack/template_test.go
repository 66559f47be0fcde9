package stack

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/demolab/internal/config"
)

const cfnTemplate = `
AWSTemplateFormatVersion: '2010-09-09'
Description: Kafka pipeline demo
Parameters:
  KeyName:
    Type: AWS::EC2::KeyPair::KeyName
    Description: SSH key for the demo instance
  TTL:
    Type: Number
    Default: 4
  WorkspaceDetails:
    Type: String
    Default: '{"workspaces":[{"name":"ws1","size":"S-2","enableKai":true},{"name":"ws2"}]}'
  SingleStoreConnDetails:
    Type: String
    NoEcho: true
Resources:
  Instance:
    Type: AWS::EC2::Instance
    Properties:
      KeyName: !Ref KeyName
      UserData: !Base64
        Fn::Sub: |
          echo ${SingleStoreConnDetails}
Outputs:
  PublicIP:
    Value: !GetAtt Instance.PublicIp
`

const armTemplate = `{
  "$schema": "https://schema.management.azure.com/schemas/2018-05-01/subscriptionDeploymentTemplate.json#",
  "contentVersion": "1.0.0.0",
  "parameters": {
    "TTL": {"type": "string", "defaultValue": "2"},
    "WorkspaceDetails": {
      "type": "object",
      "defaultValue": {"workspaces": [{"name": "analytics", "size": "S-0"}]},
      "metadata": {"description": "Workspaces to create"}
    },
    "SingleStoreConnDetails": {"type": "securestring"}
  },
  "resources": []
}`

func TestParseTemplate_CloudFormation(t *testing.T) {
	t.Parallel()
	tmpl, err := ParseTemplate([]byte(cfnTemplate))
	require.NoError(t, err)

	assert.Equal(t, FormatCloudFormation, tmpl.Format)
	assert.Len(t, tmpl.Parameters, 4)
	assert.True(t, tmpl.Has("SingleStoreConnDetails"))
	assert.False(t, tmpl.Has("Missing"))
	assert.Equal(t, "SSH key for the demo instance", tmpl.Parameters["KeyName"].Description)
	assert.False(t, tmpl.Parameters["KeyName"].HasDefault())
	assert.Equal(t, []byte(cfnTemplate), tmpl.Body)

	specs, err := tmpl.WorkspaceSpecs()
	require.NoError(t, err)
	assert.Equal(t, []config.WorkspaceConfig{
		{Name: "ws1", Size: "S-2", EnableKai: true},
		{Name: "ws2"},
	}, specs)

	ttl, ok := tmpl.DefaultTTL()
	assert.True(t, ok)
	assert.Equal(t, 4, ttl)
}

func TestParseTemplate_ARM(t *testing.T) {
	t.Parallel()
	tmpl, err := ParseTemplate([]byte(armTemplate))
	require.NoError(t, err)

	assert.Equal(t, FormatARM, tmpl.Format)
	assert.Equal(t, "securestring", tmpl.Parameters["SingleStoreConnDetails"].Type)
	assert.Equal(t, "Workspaces to create", tmpl.Parameters["WorkspaceDetails"].Description)

	specs, err := tmpl.WorkspaceSpecs()
	require.NoError(t, err)
	assert.Equal(t, []config.WorkspaceConfig{{Name: "analytics", Size: "S-0"}}, specs)

	ttl, ok := tmpl.DefaultTTL()
	assert.True(t, ok)
	assert.Equal(t, 2, ttl)
}

func TestParseTemplate_Invalid(t *testing.T) {
	t.Parallel()
	_, err := ParseTemplate([]byte("Parameters: [unterminated"))
	require.Error(t, err)
}

func TestWorkspaceSpecs_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		body        string
		wantMissing bool
	}{
		{name: "no parameter", body: "Parameters:\n  TTL:\n    Type: Number\n", wantMissing: true},
		{name: "no default", body: "Parameters:\n  WorkspaceDetails:\n    Type: String\n", wantMissing: true},
		{name: "invalid json", body: "Parameters:\n  WorkspaceDetails:\n    Type: String\n    Default: 'not json'\n"},
		{name: "empty list", body: "Parameters:\n  WorkspaceDetails:\n    Type: String\n    Default: '{\"workspaces\":[]}'\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tmpl, err := ParseTemplate([]byte(tt.body))
			require.NoError(t, err)

			_, err = tmpl.WorkspaceSpecs()
			require.Error(t, err)
			assert.Equal(t, tt.wantMissing, errors.Is(err, ErrNoWorkspaceDetails))
		})
	}
}

func TestDefaultTTL_Absent(t *testing.T) {
	t.Parallel()

	for _, body := range []string{
		"Parameters: {}\n",
		"Parameters:\n  TTL:\n    Type: Number\n",
		"Parameters:\n  TTL:\n    Type: String\n    Default: forever\n",
		"Parameters:\n  TTL:\n    Type: Number\n    Default: 0\n",
	} {
		tmpl, err := ParseTemplate([]byte(body))
		require.NoError(t, err)
		_, ok := tmpl.DefaultTTL()
		assert.False(t, ok, body)
	}
}
