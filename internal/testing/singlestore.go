package testing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// FakeAPIKey is the bearer token accepted by FakeSingleStore.
const FakeAPIKey = "test-api-key"

// RecordedRequest is a request seen by FakeSingleStore.
type RecordedRequest struct {
	Method string
	Path   string
	Query  string
	Body   map[string]any
}

type fakeRegion struct {
	ID       string `json:"regionID"`
	Name     string `json:"region"`
	Provider string `json:"provider"`
}

type fakeGroup struct {
	ID             string   `json:"workspaceGroupID"`
	Name           string   `json:"name"`
	RegionID       string   `json:"regionID"`
	State          string   `json:"state"`
	FirewallRanges []string `json:"firewallRanges"`
	ExpiresAt      string   `json:"expiresAt,omitempty"`
	CreatedAt      string   `json:"createdAt"`

	polls int
}

type fakeWorkspace struct {
	ID       string `json:"workspaceID"`
	GroupID  string `json:"workspaceGroupID"`
	Name     string `json:"name"`
	State    string `json:"state"`
	Endpoint string `json:"endpoint,omitempty"`
	Size     string `json:"size"`

	polls int
}

// FakeSingleStore serves an in-memory SingleStore Management API.
//
// Created groups and workspaces start in CREATING and turn ACTIVE after
// ActivateAfter state fetches (GET by id). Zero means they are ACTIVE as
// soon as they are created.
type FakeSingleStore struct {
	// ActivateAfter is the number of GET-by-id calls before a creating resource becomes ACTIVE.
	ActivateAfter int

	// FailWorkspaceCreate maps workspace names to the HTTP status their create call returns.
	FailWorkspaceCreate map[string]int

	// FailGroupCreate, when non-zero, is returned by every group create call.
	FailGroupCreate int

	server     *httptest.Server
	mu         sync.Mutex
	regions    []fakeRegion
	groups     []*fakeGroup
	workspaces []*fakeWorkspace
	requests   []RecordedRequest
	nextID     int
}

// NewFakeSingleStore starts a fake API server that is closed when the test ends.
func NewFakeSingleStore(t testing.TB) *FakeSingleStore {
	t.Helper()

	f := &FakeSingleStore{FailWorkspaceCreate: map[string]int{}}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/regions", f.listRegions)
	mux.HandleFunc("GET /v1/workspaceGroups", f.listGroups)
	mux.HandleFunc("POST /v1/workspaceGroups", f.createGroup)
	mux.HandleFunc("GET /v1/workspaceGroups/{id}", f.getGroup)
	mux.HandleFunc("GET /v1/workspaces", f.listWorkspaces)
	mux.HandleFunc("POST /v1/workspaces", f.createWorkspace)
	mux.HandleFunc("GET /v1/workspaces/{id}", f.getWorkspace)

	f.server = httptest.NewServer(f.authenticate(mux))
	t.Cleanup(f.server.Close)

	return f
}

// URL returns the base URL of the fake API.
func (f *FakeSingleStore) URL() string {
	return f.server.URL
}

// AddRegion registers a region.
func (f *FakeSingleStore) AddRegion(id, name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.regions = append(f.regions, fakeRegion{ID: id, Name: name, Provider: "AWS"})
}

// AddGroup registers an existing workspace group and returns its id.
func (f *FakeSingleStore) AddGroup(name, state string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	g := &fakeGroup{ID: f.newID("group"), Name: name, State: state, CreatedAt: "2026-01-01T00:00:00Z"}
	f.groups = append(f.groups, g)
	return g.ID
}

// AddWorkspace registers an existing workspace and returns its id.
func (f *FakeSingleStore) AddWorkspace(groupID, name, state string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	ws := &fakeWorkspace{ID: f.newID("ws"), GroupID: groupID, Name: name, State: state, Size: "S-00"}
	ws.Endpoint = FakeEndpoint(ws.ID)
	f.workspaces = append(f.workspaces, ws)
	return ws.ID
}

// FakeEndpoint returns the endpoint the fake assigns to a workspace id.
func FakeEndpoint(workspaceID string) string {
	return fmt.Sprintf("svc-%s-dml.aws-virginia-6.svc.singlestore.com", workspaceID)
}

// Requests returns every request received so far.
func (f *FakeSingleStore) Requests() []RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]RecordedRequest(nil), f.requests...)
}

// Count returns the number of requests matching method and path.
// A path ending in "/" matches as a prefix.
func (f *FakeSingleStore) Count(method, path string) int {
	n := 0
	for _, r := range f.Requests() {
		if r.Method != method {
			continue
		}
		if r.Path == path || (strings.HasSuffix(path, "/") && strings.HasPrefix(r.Path, path)) {
			n++
		}
	}
	return n
}

// GroupCount returns how many groups carry name.
func (f *FakeSingleStore) GroupCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, g := range f.groups {
		if g.Name == name {
			n++
		}
	}
	return n
}

// WorkspaceNames returns the names of all workspaces in a group, in creation order.
func (f *FakeSingleStore) WorkspaceNames(groupID string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var names []string
	for _, ws := range f.workspaces {
		if ws.GroupID == groupID {
			names = append(names, ws.Name)
		}
	}
	return names
}

func (f *FakeSingleStore) newID(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s-%04d", prefix, f.nextID)
}

func (f *FakeSingleStore) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := RecordedRequest{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery}
		if r.Body != nil && r.Method == http.MethodPost {
			_ = json.NewDecoder(r.Body).Decode(&rec.Body)
		}
		f.mu.Lock()
		f.requests = append(f.requests, rec)
		f.mu.Unlock()

		if r.Header.Get("Authorization") != "Bearer "+FakeAPIKey {
			http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
			return
		}

		if rec.Body != nil {
			r = r.WithContext(withBody(r.Context(), rec.Body))
		}
		next.ServeHTTP(w, r)
	})
}

func (f *FakeSingleStore) listRegions(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	writeJSON(w, http.StatusOK, f.regions)
}

func (f *FakeSingleStore) listGroups(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]fakeGroup, 0, len(f.groups))
	for _, g := range f.groups {
		out = append(out, *g)
	}
	writeJSON(w, http.StatusOK, out)
}

func (f *FakeSingleStore) createGroup(w http.ResponseWriter, r *http.Request) {
	body := bodyFrom(r.Context())

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.FailGroupCreate != 0 {
		http.Error(w, `{"error":"group creation failed"}`, f.FailGroupCreate)
		return
	}

	g := &fakeGroup{
		ID:        f.newID("group"),
		Name:      stringField(body, "name"),
		RegionID:  stringField(body, "regionID"),
		State:     f.initialState(),
		ExpiresAt: stringField(body, "expiresAt"),
		CreatedAt: "2026-01-01T00:00:00Z",
	}
	if ranges, ok := body["firewallRanges"].([]any); ok {
		for _, r := range ranges {
			if s, ok := r.(string); ok {
				g.FirewallRanges = append(g.FirewallRanges, s)
			}
		}
	}
	f.groups = append(f.groups, g)
	writeJSON(w, http.StatusOK, map[string]string{"workspaceGroupID": g.ID})
}

func (f *FakeSingleStore) getGroup(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, g := range f.groups {
		if g.ID == r.PathValue("id") {
			g.polls++
			if g.State == "CREATING" && g.polls >= f.ActivateAfter {
				g.State = "ACTIVE"
			}
			writeJSON(w, http.StatusOK, g)
			return
		}
	}
	http.Error(w, `{"error":"workspace group not found"}`, http.StatusNotFound)
}

func (f *FakeSingleStore) listWorkspaces(w http.ResponseWriter, r *http.Request) {
	groupID := r.URL.Query().Get("workspaceGroupID")

	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]fakeWorkspace, 0)
	for _, ws := range f.workspaces {
		if groupID == "" || ws.GroupID == groupID {
			out = append(out, *ws)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (f *FakeSingleStore) createWorkspace(w http.ResponseWriter, r *http.Request) {
	body := bodyFrom(r.Context())
	name := stringField(body, "name")

	f.mu.Lock()
	defer f.mu.Unlock()

	if status, ok := f.FailWorkspaceCreate[name]; ok {
		http.Error(w, fmt.Sprintf(`{"error":"cannot create workspace %s"}`, name), status)
		return
	}

	ws := &fakeWorkspace{
		ID:      f.newID("ws"),
		GroupID: stringField(body, "workspaceGroupID"),
		Name:    name,
		State:   f.initialState(),
		Size:    stringField(body, "size"),
	}
	ws.Endpoint = FakeEndpoint(ws.ID)
	f.workspaces = append(f.workspaces, ws)
	writeJSON(w, http.StatusOK, map[string]string{"workspaceID": ws.ID})
}

func (f *FakeSingleStore) getWorkspace(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ws := range f.workspaces {
		if ws.ID == r.PathValue("id") {
			ws.polls++
			if ws.State == "CREATING" && ws.polls >= f.ActivateAfter {
				ws.State = "ACTIVE"
			}
			writeJSON(w, http.StatusOK, ws)
			return
		}
	}
	http.Error(w, `{"error":"workspace not found"}`, http.StatusNotFound)
}

func (f *FakeSingleStore) initialState() string {
	if f.ActivateAfter == 0 {
		return "ACTIVE"
	}
	return "CREATING"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func stringField(body map[string]any, key string) string {
	s, _ := body[key].(string)
	return s
}

type bodyKey struct{}

func withBody(ctx context.Context, body map[string]any) context.Context {
	return context.WithValue(ctx, bodyKey{}, body)
}

func bodyFrom(ctx context.Context) map[string]any {
	body, _ := ctx.Value(bodyKey{}).(map[string]any)
	if body == nil {
		return map[string]any{}
	}
	return body
}
