package provisioning

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/demolab/internal/config"
	"github.com/imamik/demolab/internal/platform/singlestore"
	testhelpers "github.com/imamik/demolab/internal/testing"
	"github.com/imamik/demolab/internal/util/poll"
)

const testRegion = "US East 1 (N. Virginia)"

type fixture struct {
	api      *testhelpers.FakeSingleStore
	clock    *testhelpers.FakeClock
	observer *MockObserver
	session  *Session
}

func newFixture(t *testing.T, workspaces ...string) *fixture {
	t.Helper()

	api := testhelpers.NewFakeSingleStore(t)
	api.AddRegion("aws-us-east-1", testRegion)

	r := validRequest()
	r.Workspaces = nil
	for _, name := range workspaces {
		r.Workspaces = append(r.Workspaces, config.WorkspaceConfig{Name: name})
	}

	var req *Request
	if len(workspaces) > 0 {
		var err error
		req, err = NewRequest(r, testNow)
		require.NoError(t, err)
	}

	f := &fixture{
		api:      api,
		clock:    testhelpers.NewFakeClock(testNow),
		observer: NewMockObserver(),
	}

	session, err := NewSession(testhelpers.FakeAPIKey, req,
		WithClientOptions(singlestore.WithBaseURL(api.URL())),
		WithObserver(f.observer),
		WithClock(f.clock),
		WithRunID("run-test"),
		WithTimeouts(&config.Timeouts{
			GroupActive:     30 * time.Second,
			WorkspaceActive: 20 * time.Second,
			PollInterval:    5 * time.Second,
		}),
	)
	require.NoError(t, err)
	f.session = session
	return f
}

func TestEnsureGroup_ReportsWaitOnSessionClock(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "ws1")
	f.api.ActivateAfter = 3

	_, err := f.session.Orchestrator().EnsureGroup(testhelpers.TestContext(t))
	require.NoError(t, err)

	ready := f.observer.EventsOfType(EventResourceReady)
	require.Len(t, ready, 1)
	assert.Equal(t, "workspace group is ACTIVE after 10s", ready[0].Message)
	assert.Equal(t, 10*time.Second, f.clock.Elapsed())
}

func TestNewSession_RequiresAPIKey(t *testing.T) {
	t.Parallel()
	_, err := NewSession("", nil)

	var verr *config.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "api_key", verr.Field)
}

func TestNewSession_Defaults(t *testing.T) {
	t.Parallel()
	s, err := NewSession("key", nil)
	require.NoError(t, err)

	assert.NotEmpty(t, s.RunID())
	assert.NotNil(t, s.Timeouts())
	assert.NotNil(t, s.Client())
	assert.Nil(t, s.Request())
	assert.Empty(t, s.Orchestrator().GroupID())
}

func TestEnsureGroup_CreatesNewGroup(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "ws1")
	f.api.ActivateAfter = 3

	id, err := f.session.Orchestrator().EnsureGroup(testhelpers.TestContext(t))
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	assert.Equal(t, 1, f.api.Count(http.MethodPost, "/v1/workspaceGroups"))
	assert.Equal(t, 1, f.api.Count(http.MethodGet, "/v1/regions"))
	assert.Equal(t, 3, f.api.Count(http.MethodGet, "/v1/workspaceGroups/"))
	assert.Equal(t, []time.Duration{5 * time.Second, 5 * time.Second}, f.clock.Sleeps())

	var body map[string]any
	for _, r := range f.api.Requests() {
		if r.Method == http.MethodPost {
			body = r.Body
		}
	}
	assert.Equal(t, "demo-lab", body["name"])
	assert.Equal(t, "aws-us-east-1", body["regionID"])
	assert.Equal(t, "2026-10-18T13:00:00Z", body["expiresAt"])

	assert.Len(t, f.observer.EventsOfType(EventResourceCreated), 1)
	assert.Len(t, f.observer.EventsOfType(EventResourceReady), 1)
	for _, e := range f.observer.Events() {
		assert.Equal(t, "run-test", e.Fields["run"])
	}
}

func TestEnsureGroup_AdoptsExistingActiveGroup(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "ws1")
	existing := f.api.AddGroup("demo-lab", "ACTIVE")

	o := f.session.Orchestrator()
	id, err := o.EnsureGroup(testhelpers.TestContext(t))
	require.NoError(t, err)

	assert.Equal(t, existing, id)
	assert.Equal(t, existing, o.GroupID())
	assert.Zero(t, f.api.Count(http.MethodPost, "/v1/workspaceGroups"))
	assert.Zero(t, f.api.Count(http.MethodGet, "/v1/regions"), "region is only resolved for creation")
	assert.Equal(t, 1, f.api.Count(http.MethodGet, "/v1/workspaceGroups/"), "exactly one state fetch")
	assert.Empty(t, f.clock.Sleeps())
	assert.Len(t, f.observer.EventsOfType(EventResourceExists), 1)
}

func TestEnsureGroup_Idempotent(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "ws1")
	ctx := testhelpers.TestContext(t)

	first, err := f.session.Orchestrator().EnsureGroup(ctx)
	require.NoError(t, err)
	second, err := f.session.Orchestrator().EnsureGroup(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, f.api.GroupCount("demo-lab"))
	assert.Equal(t, 1, f.api.Count(http.MethodPost, "/v1/workspaceGroups"))
}

func TestEnsureGroup_UnknownRegion(t *testing.T) {
	t.Parallel()
	api := testhelpers.NewFakeSingleStore(t)
	r := validRequest()
	r.RegionName = "Mars 1"
	req, err := NewRequest(r, testNow)
	require.NoError(t, err)

	s, err := NewSession(testhelpers.FakeAPIKey, req,
		WithClientOptions(singlestore.WithBaseURL(api.URL())),
		WithObserver(NewMockObserver()))
	require.NoError(t, err)

	_, err = s.Orchestrator().EnsureGroup(testhelpers.TestContext(t))
	require.Error(t, err)
	assert.True(t, singlestore.IsNotFound(err))
	assert.Zero(t, api.Count(http.MethodPost, "/v1/workspaceGroups"))
}

func TestEnsureGroup_Timeout(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "ws1")
	f.api.AddGroup("demo-lab", "CREATING")
	f.api.ActivateAfter = 1000

	_, err := f.session.Orchestrator().EnsureGroup(testhelpers.TestContext(t))

	var te *poll.TimeoutError
	require.True(t, errors.As(err, &te), "expected TimeoutError, got %v", err)
	assert.Equal(t, "CREATING", te.LastState)
	assert.LessOrEqual(t, f.clock.Elapsed(), 35*time.Second)
	assert.Len(t, f.observer.EventsOfType(EventResourceFailed), 1)
}

func TestEnsureGroup_CreateFails(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "ws1")
	f.api.FailGroupCreate = http.StatusForbidden

	o := f.session.Orchestrator()
	_, err := o.EnsureGroup(testhelpers.TestContext(t))
	require.Error(t, err)
	assert.True(t, singlestore.IsStatus(err, http.StatusForbidden))
	assert.Contains(t, err.Error(), "demo-lab")
	assert.Empty(t, o.GroupID())
}

func TestEnsureGroup_CancelledWhileWaiting(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "ws1")
	f.api.AddGroup("demo-lab", "CREATING")
	f.api.ActivateAfter = 1000

	ctx, cancel := context.WithCancel(testhelpers.TestContext(t))
	s, err := NewSession(testhelpers.FakeAPIKey, f.session.Request(),
		WithClientOptions(singlestore.WithBaseURL(f.api.URL())),
		WithObserver(&cancellingObserver{MockObserver: NewMockObserver(), cancel: cancel}),
		WithTimeouts(&config.Timeouts{GroupActive: time.Hour, PollInterval: time.Hour}),
	)
	require.NoError(t, err)

	_, err = s.Orchestrator().EnsureGroup(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, f.api.GroupCount("demo-lab"), "remote group untouched")
}

// cancellingObserver cancels the run on the first poll log line.
type cancellingObserver struct {
	*MockObserver
	cancel context.CancelFunc
}

func (c *cancellingObserver) Printf(format string, v ...interface{}) {
	c.MockObserver.Printf(format, v...)
	c.cancel()
}

func (c *cancellingObserver) WithFields(map[string]string) Observer {
	return c
}

func TestEnsureWorkspaces_CreatesInOrder(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "ws-b", "ws-a", "ws-c")
	f.api.ActivateAfter = 2

	o := f.session.Orchestrator()
	workspaces, err := o.EnsureWorkspaces(testhelpers.TestContext(t))
	require.NoError(t, err)

	require.Len(t, workspaces, 3)
	names := []string{workspaces[0].Name, workspaces[1].Name, workspaces[2].Name}
	assert.Equal(t, []string{"ws-b", "ws-a", "ws-c"}, names)
	assert.Equal(t, names, f.api.WorkspaceNames(o.GroupID()))

	for _, ws := range workspaces {
		assert.Equal(t, singlestore.StateActive, ws.State)
		assert.Equal(t, testhelpers.FakeEndpoint(ws.ID), ws.Endpoint)
	}
	assert.Len(t, f.observer.EventsOfType(EventProgress), 3)
}

func TestEnsureWorkspaces_AdoptsExisting(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "ws1", "ws2")
	groupID := f.api.AddGroup("demo-lab", "ACTIVE")
	existing := f.api.AddWorkspace(groupID, "ws1", "ACTIVE")

	workspaces, err := f.session.Orchestrator().EnsureWorkspaces(testhelpers.TestContext(t))
	require.NoError(t, err)

	require.Len(t, workspaces, 2)
	assert.Equal(t, existing, workspaces[0].ID)
	assert.Equal(t, 1, f.api.Count(http.MethodPost, "/v1/workspaces"))
	assert.Equal(t, []string{"ws1", "ws2"}, f.api.WorkspaceNames(groupID))
}

func TestEnsureWorkspaces_StopsAtFirstFailure(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "ws1", "ws2", "ws3")
	f.api.FailWorkspaceCreate["ws2"] = http.StatusInternalServerError

	o := f.session.Orchestrator()
	workspaces, err := o.EnsureWorkspaces(testhelpers.TestContext(t))
	require.Error(t, err)
	assert.Nil(t, workspaces, "no partial result")

	var apiErr *singlestore.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Contains(t, err.Error(), `"ws2"`)

	assert.Equal(t, []string{"ws1"}, f.api.WorkspaceNames(o.GroupID()), "ws1 left in place, ws3 never attempted")
	assert.Equal(t, 2, f.api.Count(http.MethodPost, "/v1/workspaces"))
}

func TestEnsureWorkspaces_FailedState(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "ws1")
	groupID := f.api.AddGroup("demo-lab", "ACTIVE")
	f.api.AddWorkspace(groupID, "ws1", "FAILED")

	_, err := f.session.Orchestrator().EnsureWorkspaces(testhelpers.TestContext(t))

	var se *poll.StateError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "FAILED", se.State)
	assert.Empty(t, f.clock.Sleeps())
}

func TestEnsureWorkspaces_RequiresRequest(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	_, err := f.session.Orchestrator().EnsureWorkspaces(testhelpers.TestContext(t))

	var pe *PreconditionError
	require.True(t, errors.As(err, &pe))
	assert.Empty(t, f.api.Requests())
}

func TestWorkspaceDetails_RequiresGroup(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "ws1")

	details, err := f.session.Orchestrator().WorkspaceDetails(testhelpers.TestContext(t))

	var pe *PreconditionError
	require.True(t, errors.As(err, &pe), "expected PreconditionError, got %v", err)
	assert.Equal(t, "WorkspaceDetails", pe.Operation)
	assert.Nil(t, details)
	assert.Empty(t, f.api.Requests(), "no HTTP calls")
}

func TestWorkspaceDetails_EmptyGroup(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "ws1")
	groupID := f.api.AddGroup("demo-lab", "ACTIVE")

	o := f.session.Orchestrator()
	o.AdoptGroup(groupID)
	_, err := o.WorkspaceDetails(testhelpers.TestContext(t))

	var ee *EmptyResultError
	require.True(t, errors.As(err, &ee))
	assert.Contains(t, ee.Scope, groupID)
}

func TestWorkspaceDetails_AfterProvisioning(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "ws1", "ws2")
	ctx := testhelpers.TestContext(t)

	o := f.session.Orchestrator()
	workspaces, err := o.EnsureWorkspaces(ctx)
	require.NoError(t, err)

	details, err := o.WorkspaceDetails(ctx)
	require.NoError(t, err)
	require.Len(t, details, 2)

	ws1 := details["ws1"]
	assert.Equal(t, testhelpers.FakeEndpoint(workspaces[0].ID), ws1.EndpointURL)
	assert.Equal(t, DeriveMongoEndpoint(ws1.EndpointURL, "admin", "Secret123"), ws1.MongoEndpoint)
	assert.Contains(t, ws1.MongoEndpoint, "-mongo.")
	assert.Equal(t, "admin", ws1.Username)
	assert.Equal(t, "Secret123", ws1.Password)
}

func TestWorkspaceDetails_AdminCredentialsWithoutRequest(t *testing.T) {
	t.Parallel()
	api := testhelpers.NewFakeSingleStore(t)
	groupID := api.AddGroup("demo-lab", "ACTIVE")
	api.AddWorkspace(groupID, "ws1", "ACTIVE")

	s, err := NewSession(testhelpers.FakeAPIKey, nil,
		WithClientOptions(singlestore.WithBaseURL(api.URL())),
		WithObserver(NewMockObserver()),
		WithAdminCredentials("root", "pw"))
	require.NoError(t, err)

	o := s.Orchestrator()
	o.AdoptGroup(groupID)
	details, err := o.WorkspaceDetails(testhelpers.TestContext(t))
	require.NoError(t, err)
	assert.Equal(t, "root", details["ws1"].Username)
}
