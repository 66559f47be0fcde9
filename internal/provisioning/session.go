package provisioning

import (
	"github.com/google/uuid"

	"github.com/imamik/demolab/internal/config"
	"github.com/imamik/demolab/internal/platform/singlestore"
	"github.com/imamik/demolab/internal/util/poll"
)

// Session holds everything one provisioning run needs.
// It replaces process-wide state: build one per run and pass it along.
type Session struct {
	client        *singlestore.Client
	clientOpts    []singlestore.ClientOption
	request       *Request
	observer      Observer
	timeouts      *config.Timeouts
	clock         poll.Clock
	runID         string
	adminUsername string
	adminPassword string
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithClientOptions passes options to the SingleStore client.
func WithClientOptions(opts ...singlestore.ClientOption) SessionOption {
	return func(s *Session) {
		s.clientOpts = append(s.clientOpts, opts...)
	}
}

// WithObserver sets the observer. Defaults to a ConsoleObserver.
func WithObserver(o Observer) SessionOption {
	return func(s *Session) {
		if o != nil {
			s.observer = o
		}
	}
}

// WithTimeouts sets wait timeouts and the poll interval. Defaults to config.LoadTimeouts().
func WithTimeouts(t *config.Timeouts) SessionOption {
	return func(s *Session) {
		if t != nil {
			s.timeouts = t
		}
	}
}

// WithClock replaces the wall clock used while waiting.
func WithClock(c poll.Clock) SessionOption {
	return func(s *Session) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithRunID overrides the generated run ID.
func WithRunID(id string) SessionOption {
	return func(s *Session) {
		if id != "" {
			s.runID = id
		}
	}
}

// WithAdminCredentials sets the credentials reported in connection details
// when the session has no request, e.g. when only reading details of an
// existing group.
func WithAdminCredentials(username, password string) SessionOption {
	return func(s *Session) {
		s.adminUsername = username
		s.adminPassword = password
	}
}

// NewSession creates a session authenticated with apiKey.
// req may be nil for sessions that only read existing resources.
func NewSession(apiKey string, req *Request, opts ...SessionOption) (*Session, error) {
	if apiKey == "" {
		return nil, &config.ValidationError{Field: "api_key", Message: "required (set " + config.EnvSingleStoreAPIKey + ")"}
	}

	s := &Session{
		request:  req,
		observer: NewConsoleObserver(),
		clock:    poll.SystemClock,
		runID:    uuid.NewString(),
	}
	if req != nil {
		s.adminUsername = req.AdminUsername
		s.adminPassword = req.AdminPassword
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.timeouts == nil {
		s.timeouts = config.LoadTimeouts()
	}

	s.client = singlestore.NewClient(apiKey, s.clientOpts...)
	s.observer = s.observer.WithFields(map[string]string{"run": s.runID})
	return s, nil
}

// Client returns the SingleStore API client.
func (s *Session) Client() *singlestore.Client {
	return s.client
}

// Request returns the validated request, or nil.
func (s *Session) Request() *Request {
	return s.request
}

// Observer returns the session observer, tagged with the run ID.
func (s *Session) Observer() Observer {
	return s.observer
}

// Timeouts returns the wait configuration.
func (s *Session) Timeouts() *config.Timeouts {
	return s.timeouts
}

// RunID identifies this run in logs.
func (s *Session) RunID() string {
	return s.runID
}

// Orchestrator returns a new orchestrator bound to this session.
func (s *Session) Orchestrator() *Orchestrator {
	return &Orchestrator{session: s}
}
