package provisioning

import (
	"encoding/json"
	"fmt"
	"maps"
	"net/url"
	"slices"
	"strings"
)

const (
	mongoPort  = "27017"
	mongoQuery = "authMechanism=PLAIN&tls=true&loadBalanced=true"
)

// ConnectionDetails is how a consumer reaches one workspace.
type ConnectionDetails struct {
	EndpointURL   string `json:"endpoint_url"`
	MongoEndpoint string `json:"mongo_endpoint"`
	Username      string `json:"username"`
	Password      string `json:"password"`
}

// Details maps workspace names to their connection details.
type Details map[string]ConnectionDetails

// JSON renders the details as the single stack parameter value.
// Keys are sorted, so the output is stable across runs.
func (d Details) JSON() (string, error) {
	b, err := json.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("failed to encode connection details: %w", err)
	}
	return string(b), nil
}

// Names returns the workspace names in the details, sorted.
func (d Details) Names() []string {
	return slices.Sorted(maps.Keys(d))
}

// NewConnectionDetails builds the details of a workspace from its SQL endpoint.
func NewConnectionDetails(endpoint, username, password string) ConnectionDetails {
	return ConnectionDetails{
		EndpointURL:   endpoint,
		MongoEndpoint: DeriveMongoEndpoint(endpoint, username, password),
		Username:      username,
		Password:      password,
	}
}

// DeriveMongoEndpoint turns a workspace SQL endpoint host into the connection
// string of its MongoDB-compatible (Kai) endpoint.
//
// The host label "-dml." becomes "-mongo." and port 27017 is appended.
// Credentials are percent-encoded. An empty endpoint yields "".
func DeriveMongoEndpoint(endpoint, username, password string) string {
	if endpoint == "" {
		return ""
	}

	host := strings.ReplaceAll(endpoint, "-dml.", "-mongo.") + ":" + mongoPort
	u := url.URL{
		Scheme:   "mongodb",
		User:     url.UserPassword(username, password),
		Host:     host,
		Path:     "/",
		RawQuery: mongoQuery,
	}
	return u.String()
}
