package handlers

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/imamik/demolab/internal/config"
	"github.com/imamik/demolab/internal/stack"
	testhelpers "github.com/imamik/demolab/internal/testing"
)

const testTemplate = `
Parameters:
  KeyName:
    Type: AWS::EC2::KeyPair::KeyName
  TTL:
    Type: Number
    Default: 2
  WorkspaceDetails:
    Type: String
    Default: '{"workspaces":[{"name":"ws1"},{"name":"ws2","enableKai":true}]}'
  SingleStoreConnDetails:
    Type: String
    NoEcho: true
Resources:
  Bucket:
    Type: AWS::S3::Bucket
`

type fakeDeployer struct {
	requests []stack.Request
	err      error
}

func (f *fakeDeployer) Deploy(_ context.Context, req stack.Request) (*stack.Result, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return &stack.Result{
		StackID: "arn:aws:cloudformation:us-east-1:123:stack/" + req.Name + "/1",
		Status:  "CREATE_COMPLETE",
		Outputs: map[string]string{"BucketName": req.Name + "-data"},
	}, nil
}

type handlerEnv struct {
	api        *testhelpers.FakeSingleStore
	out        *bytes.Buffer
	errOut     *bytes.Buffer
	deployer   *fakeDeployer
	dir        string
	configPath string
	identity   func(context.Context) (string, error)
	cloudErr   error
}

// setupHandlers swaps the package factories for fakes. Tests using it must
// not run in parallel.
func setupHandlers(t *testing.T) *handlerEnv {
	t.Helper()

	origStdout, origStderr := stdout, stderr
	origCloud, origInteractive := newCloud, isInteractive
	t.Cleanup(func() {
		stdout, stderr = origStdout, origStderr
		newCloud, isInteractive = origCloud, origInteractive
	})

	env := &handlerEnv{
		api:      testhelpers.NewFakeSingleStore(t),
		out:      &bytes.Buffer{},
		errOut:   &bytes.Buffer{},
		deployer: &fakeDeployer{},
		dir:      t.TempDir(),
		identity: func(context.Context) (string, error) {
			return "arn:aws:sts::123456789012:assumed-role/Demo/jroe", nil
		},
	}
	env.api.AddRegion("aws-us-east-1", config.DefaultRegion)

	t.Setenv(config.EnvSingleStoreAPIKey, testhelpers.FakeAPIKey)
	t.Setenv(config.EnvAdminPassword, "S3cret!pw")

	templatePath := env.write(t, "kafka.yaml", testTemplate)
	env.write(t, "catalog.yaml", "stacks:\n  - name: Kafka Pipeline Demo\n    url: "+templatePath+"\n    description: Kafka into SingleStore\n")
	env.configPath = env.write(t, config.DefaultConfigFilename, `
owner_email: jane.roe@example.com
template:
  url: `+templatePath+`
  catalog: `+filepath.Join(env.dir, "catalog.yaml")+`
singlestore:
  api_url: `+env.api.URL()+`
stack:
  parameters:
    KeyName: demo-key
`)

	stdout = env.out
	stderr = env.errOut
	isInteractive = func() bool { return false }
	newCloud = func(context.Context, *config.Config) (*cloud, error) {
		if env.cloudErr != nil {
			return nil, env.cloudErr
		}
		return &cloud{
			fetcher:  stack.NewFetcher(),
			deployer: env.deployer,
			identity: env.identity,
		}, nil
	}

	return env
}

func (e *handlerEnv) write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(e.dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func (e *handlerEnv) opts() *Options {
	return &Options{ConfigPath: e.configPath, LogFormat: LogFormatJSON}
}
