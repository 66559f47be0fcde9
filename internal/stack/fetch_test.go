package stack

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/demolab/internal/util/retry"
)

func fastRetry() FetcherOption {
	return WithRetry(retry.WithMaxAttempts(3), retry.WithInitialDelay(time.Millisecond))
}

type fakeObjects struct {
	uri  string
	data []byte
}

func (f *fakeObjects) Fetch(_ context.Context, uri string) ([]byte, error) {
	f.uri = uri
	return f.data, nil
}

func TestFetch_HTTP(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(cfnTemplate))
	}))
	defer srv.Close()

	tmpl, err := NewFetcher(fastRetry()).LoadTemplate(context.Background(), srv.URL+"/kafka.yaml")
	require.NoError(t, err)
	assert.True(t, tmpl.Has(ParamWorkspaceDetails))
}

func TestFetch_HTTPRetriesServerErrors(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	data, err := NewFetcher(fastRetry()).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(data))
	assert.Equal(t, int32(3), calls.Load())
}

func TestFetch_HTTPClientErrorNotRetried(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		http.Error(w, "no such template", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewFetcher(fastRetry()).Fetch(context.Background(), srv.URL+"/missing.yaml")
	require.Error(t, err)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
	assert.Equal(t, "no such template", se.Body)
	assert.Equal(t, int32(1), calls.Load())
}

func TestFetch_HTTPGivesUp(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewFetcher(fastRetry()).Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestFetch_S3(t *testing.T) {
	t.Parallel()
	objects := &fakeObjects{data: []byte(catalogYAML)}

	c, err := NewFetcher(WithObjectFetcher(objects)).LoadCatalog(context.Background(), "s3://demo/stacks.yaml")
	require.NoError(t, err)
	assert.Equal(t, "s3://demo/stacks.yaml", objects.uri)
	assert.Len(t, c.Stacks, 2)

	_, err = NewFetcher().Fetch(context.Background(), "s3://demo/stacks.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no S3 client configured")
}

func TestFetch_LocalFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "template.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfnTemplate), 0o600))

	for _, source := range []string{path, "file://" + path} {
		data, err := NewFetcher().Fetch(context.Background(), source)
		require.NoError(t, err, source)
		assert.Equal(t, cfnTemplate, string(data))
	}

	_, err := NewFetcher().Fetch(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestFetch_UnsupportedScheme(t *testing.T) {
	t.Parallel()
	_, err := NewFetcher().Fetch(context.Background(), "ftp://example.com/t.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported")
}
