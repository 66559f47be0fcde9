package stack

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/imamik/demolab/internal/util/retry"
)

// maxTemplateSize bounds downloaded documents.
const maxTemplateSize = 10 << 20

// ObjectFetcher downloads objects addressed by s3:// URIs.
type ObjectFetcher interface {
	Fetch(ctx context.Context, uri string) ([]byte, error)
}

// Fetcher loads templates and catalogs from https://, s3:// and local paths.
type Fetcher struct {
	httpClient *http.Client
	objects    ObjectFetcher
	retryOpts  []retry.Option
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithHTTPClient sets the HTTP client used for http(s) sources.
func WithHTTPClient(c *http.Client) FetcherOption {
	return func(f *Fetcher) {
		f.httpClient = c
	}
}

// WithObjectFetcher enables s3:// sources.
func WithObjectFetcher(o ObjectFetcher) FetcherOption {
	return func(f *Fetcher) {
		f.objects = o
	}
}

// WithRetry sets the retry policy for http(s) downloads.
func WithRetry(opts ...retry.Option) FetcherOption {
	return func(f *Fetcher) {
		f.retryOpts = append(f.retryOpts, opts...)
	}
}

// NewFetcher creates a Fetcher.
func NewFetcher(opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch returns the document at source.
//
// HTTP downloads are retried on transport errors, 429 and 5xx responses;
// other 4xx responses fail immediately.
func (f *Fetcher) Fetch(ctx context.Context, source string) ([]byte, error) {
	u, err := url.Parse(source)
	if err != nil || len(u.Scheme) <= 1 {
		// Not a URL, or a Windows drive letter
		return readFile(source)
	}

	switch u.Scheme {
	case "http", "https":
		return f.fetchHTTP(ctx, source)
	case "s3":
		if f.objects == nil {
			return nil, fmt.Errorf("cannot fetch %s: no S3 client configured", source)
		}
		return f.objects.Fetch(ctx, source)
	case "file":
		return readFile(u.Path)
	default:
		return nil, fmt.Errorf("unsupported template source %q", source)
	}
}

func readFile(path string) ([]byte, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// StatusError is a non-2xx HTTP response.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s returned status %d: %s", e.URL, e.StatusCode, e.Body)
}

func (f *Fetcher) fetchHTTP(ctx context.Context, source string) ([]byte, error) {
	var data []byte
	err := retry.Do(ctx, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
		if err != nil {
			return retry.Fatal(fmt.Errorf("failed to create request: %w", err))
		}

		resp, err := f.httpClient.Do(req)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return retry.Fatal(err)
			}
			return fmt.Errorf("failed to download %s: %w", source, err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxTemplateSize))
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", source, err)
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			statusErr := &StatusError{URL: source, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				return statusErr
			}
			return retry.Fatal(statusErr)
		}

		data = body
		return nil
	}, f.retryOpts...)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// LoadTemplate fetches and parses the template at source.
func (f *Fetcher) LoadTemplate(ctx context.Context, source string) (*Template, error) {
	body, err := f.Fetch(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch template: %w", err)
	}
	return ParseTemplate(body)
}

// LoadCatalog fetches and parses the catalog at source.
func (f *Fetcher) LoadCatalog(ctx context.Context, source string) (*Catalog, error) {
	body, err := f.Fetch(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog: %w", err)
	}
	return ParseCatalog(body)
}
