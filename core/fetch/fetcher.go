// Package fetch implements the Fetcher interface.
// It performs HTTP GET requests with retry on transient failures and
// decodes the response body to UTF-8.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gaurav-prasanna/urlmd/core"
	"github.com/rs/zerolog"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

const (
	DefaultTimeout      = 30 * time.Second
	DefaultUserAgent    = "urlmd/1.0 (+https://github.com/gaurav-prasanna/urlmd)"
	DefaultMaxAttempts  = 3
	DefaultMaxBodyBytes = 10 << 20
)

// ErrStatus is returned when the server answers with a status that cannot
// be converted.
var ErrStatus = errors.New("unexpected status")

// Config controls HTTPFetcher behavior. Zero values take the defaults.
type Config struct {
	Timeout     time.Duration
	UserAgent   string
	MaxAttempts int
	// Charset forces the body encoding instead of sniffing it.
	Charset      string
	MaxBodyBytes int64
}

// HTTPFetcher fetches web pages via HTTP.
type HTTPFetcher struct {
	client  *http.Client
	cfg     Config
	log     zerolog.Logger
	backoff time.Duration
}

// New creates an HTTPFetcher.
func New(cfg Config, log zerolog.Logger) *HTTPFetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	return &HTTPFetcher{
		client:  &http.Client{Timeout: cfg.Timeout},
		cfg:     cfg,
		log:     log,
		backoff: 200 * time.Millisecond,
	}
}

// Fetch retrieves the HTML content of the given URL. Client error pages
// (4xx) are returned like any other page; 5xx and network failures are
// retried up to MaxAttempts times.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (*core.FetchResult, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported URL scheme: %q", u.Scheme)
	}

	var lastErr error
	for attempt := 0; attempt < f.cfg.MaxAttempts; attempt++ {
		if attempt > 0 {
			wait := time.Duration(attempt) * f.backoff
			f.log.Debug().Str("url", rawURL).Int("attempt", attempt+1).Dur("wait", wait).Msg("retrying fetch")
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
		}

		res, err := f.fetchOnce(ctx, rawURL)
		if err == nil {
			return res, nil
		}
		lastErr = err
		if !isTransient(err) || ctx.Err() != nil {
			break
		}
	}
	return nil, lastErr
}

type serverError struct {
	status int
}

func (e *serverError) Error() string {
	return fmt.Sprintf("%s: %d", ErrStatus, e.status)
}

func (e *serverError) Unwrap() error { return ErrStatus }

func (f *HTTPFetcher) fetchOnce(ctx context.Context, rawURL string) (*core.FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("fetching %s: %w", rawURL, &serverError{status: resp.StatusCode})
	}
	if resp.StatusCode < 200 || (resp.StatusCode >= 300 && resp.StatusCode < 400) {
		return nil, fmt.Errorf("fetching %s: %w: %d", rawURL, ErrStatus, resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		f.log.Warn().Str("url", rawURL).Int("status", resp.StatusCode).Msg("converting error page")
	}

	contentType := resp.Header.Get("Content-Type")
	body, err := f.decode(io.LimitReader(resp.Body, f.cfg.MaxBodyBytes), contentType)
	if err != nil {
		return nil, err
	}

	return &core.FetchResult{
		URL:         rawURL,
		FinalURL:    resp.Request.URL.String(),
		StatusCode:  resp.StatusCode,
		ContentType: contentType,
		HTML:        body,
	}, nil
}

func (f *HTTPFetcher) decode(r io.Reader, contentType string) (string, error) {
	var (
		dr  io.Reader
		err error
	)
	if f.cfg.Charset != "" {
		enc, lerr := htmlindex.Get(f.cfg.Charset)
		if lerr != nil {
			return "", fmt.Errorf("unknown charset %q: %w", f.cfg.Charset, lerr)
		}
		dr = transform.NewReader(r, enc.NewDecoder())
	} else {
		dr, err = charset.NewReader(r, contentType)
		if err != nil {
			return "", fmt.Errorf("detecting charset: %w", err)
		}
	}

	b, err := io.ReadAll(dr)
	if err != nil {
		return "", fmt.Errorf("reading response body: %w", err)
	}
	return string(b), nil
}

func isTransient(err error) bool {
	var se *serverError
	if errors.As(err, &se) {
		return true
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var nerr net.Error
	if errors.As(err, &nerr) {
		return true
	}
	return strings.Contains(err.Error(), "connection reset") || errors.Is(err, io.ErrUnexpectedEOF)
}
