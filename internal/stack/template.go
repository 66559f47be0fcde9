package stack

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/imamik/demolab/internal/config"
)

// Well-known template parameters.
const (
	ParamWorkspaceDetails = "WorkspaceDetails"
	ParamTTL              = "TTL"
)

// ErrNoWorkspaceDetails is returned when a template does not declare
// which workspaces it needs.
var ErrNoWorkspaceDetails = errors.New("template has no " + ParamWorkspaceDetails + " parameter")

// Format is the template dialect.
type Format string

const (
	FormatCloudFormation Format = "cloudformation"
	FormatARM            Format = "arm"
)

// Parameter is a declared template parameter.
type Parameter struct {
	Type        string
	Default     any
	Description string
}

// HasDefault reports whether the parameter declares a default value.
func (p Parameter) HasDefault() bool {
	return p.Default != nil
}

// DefaultString renders the default value as a string.
// Objects and lists are rendered as JSON.
func (p Parameter) DefaultString() (string, error) {
	switch v := p.Default.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case int, int64, float64, bool:
		return fmt.Sprint(v), nil
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("failed to encode default value: %w", err)
		}
		return string(b), nil
	}
}

// Template is a stack template body with its parsed parameters.
type Template struct {
	Body       []byte
	Format     Format
	Parameters map[string]Parameter
}

type rawParameter struct {
	Type         string `yaml:"Type"`
	Default      any    `yaml:"Default"`
	Description  string `yaml:"Description"`
	ARMType      string `yaml:"type"`
	DefaultValue any    `yaml:"defaultValue"`
	Metadata     struct {
		Description string `yaml:"description"`
	} `yaml:"metadata"`
}

// Only the parameter sections are decoded, so intrinsic function tags such
// as !Ref or !GetAtt elsewhere in the document are never interpreted.
type rawTemplate struct {
	CFNParameters map[string]rawParameter `yaml:"Parameters"`
	ARMParameters map[string]rawParameter `yaml:"parameters"`
	Schema        string                  `yaml:"$schema"`
}

// ParseTemplate parses a CloudFormation or ARM template, either in JSON or YAML.
func ParseTemplate(body []byte) (*Template, error) {
	var raw rawTemplate
	if err := yaml.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}

	t := &Template{
		Body:       body,
		Format:     FormatCloudFormation,
		Parameters: make(map[string]Parameter),
	}

	if raw.ARMParameters != nil || strings.Contains(raw.Schema, "deploymentTemplate") {
		t.Format = FormatARM
		for name, p := range raw.ARMParameters {
			t.Parameters[name] = Parameter{Type: p.ARMType, Default: p.DefaultValue, Description: p.Metadata.Description}
		}
		return t, nil
	}

	for name, p := range raw.CFNParameters {
		t.Parameters[name] = Parameter{Type: p.Type, Default: p.Default, Description: p.Description}
	}
	return t, nil
}

// Has reports whether the template declares parameter name.
func (t *Template) Has(name string) bool {
	_, ok := t.Parameters[name]
	return ok
}

type workspaceDetails struct {
	Workspaces []config.WorkspaceConfig `json:"workspaces"`
}

// WorkspaceSpecs returns the workspaces listed in the default value of the
// WorkspaceDetails parameter, e.g.
//
//	{"workspaces":[{"name":"ws1","size":"S-00","enableKai":true}]}
func (t *Template) WorkspaceSpecs() ([]config.WorkspaceConfig, error) {
	p, ok := t.Parameters[ParamWorkspaceDetails]
	if !ok || !p.HasDefault() {
		return nil, ErrNoWorkspaceDetails
	}

	raw, err := p.DefaultString()
	if err != nil {
		return nil, err
	}

	var details workspaceDetails
	if err := json.Unmarshal([]byte(raw), &details); err != nil {
		return nil, fmt.Errorf("invalid %s default: %w", ParamWorkspaceDetails, err)
	}
	if len(details.Workspaces) == 0 {
		return nil, fmt.Errorf("invalid %s default: no workspaces listed", ParamWorkspaceDetails)
	}
	return details.Workspaces, nil
}

// DefaultTTL returns the default of the TTL parameter in hours.
func (t *Template) DefaultTTL() (int, bool) {
	p, ok := t.Parameters[ParamTTL]
	if !ok || !p.HasDefault() {
		return 0, false
	}

	s, err := p.DefaultString()
	if err != nil {
		return 0, false
	}
	hours, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || hours <= 0 {
		return 0, false
	}
	return hours, true
}
