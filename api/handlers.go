package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gaurav-prasanna/urlmd/core"
)

// ErrInvalidTarget reports a request path that does not name an absolute
// http(s) URL.
var ErrInvalidTarget = errors.New("invalid target URL")

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	target, err := TargetURL(r)
	if err != nil {
		s.metrics.record(resultInvalidURL)
		http.Error(w, "Invalid URL: "+err.Error(), http.StatusBadRequest)
		return
	}

	res, err := s.fetcher.Fetch(r.Context(), target)
	if err != nil {
		s.metrics.record(resultFetchError)
		s.log.Warn().Err(err).Str("url", target).Msg("fetch failed")
		http.Error(w, "Failed to fetch URL: "+err.Error(), http.StatusBadRequest)
		return
	}

	conv, err := s.convert(r.Context(), res.HTML, target)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		s.metrics.record(resultTimeout)
		s.log.Warn().Str("url", target).Dur("timeout", s.convertTimeout).Msg("conversion timed out")
		http.Error(w, "Conversion timed out", http.StatusGatewayTimeout)
		return
	case err != nil:
		s.metrics.record(resultConvertError)
		s.log.Error().Err(err).Str("url", target).Msg("conversion failed")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.metrics.record(resultOK)
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	_, _ = w.Write([]byte(conv.Markdown))
}

type convertResult struct {
	conv *core.Conversion
	err  error
}

// convert runs the converter with the server's timeout. A conversion that
// outlives the deadline keeps running in the background; its result is
// dropped.
func (s *Server) convert(ctx context.Context, html, pageURL string) (*core.Conversion, error) {
	ctx, cancel := context.WithTimeout(ctx, s.convertTimeout)
	defer cancel()

	start := time.Now()
	done := make(chan convertResult, 1)
	go func() {
		conv, err := s.converter.ConvertPage(html, pageURL)
		done <- convertResult{conv: conv, err: err}
	}()

	select {
	case res := <-done:
		s.metrics.duration.Observe(time.Since(start).Seconds())
		return res.conv, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// TargetURL extracts the page URL from the request path. The URL may be
// given plainly (/https://example.com/a?b=c) or percent-encoded
// (/https%3A%2F%2Fexample.com%2Fa). The query string is kept.
func TargetURL(r *http.Request) (string, error) {
	target := strings.TrimPrefix(r.URL.Path, "/")
	if target == "" {
		return "", fmt.Errorf("%w: empty path", ErrInvalidTarget)
	}
	if !strings.Contains(target, "://") {
		if decoded, err := url.PathUnescape(target); err == nil {
			target = decoded
		}
	}
	// Proxies sometimes merge the double slash after the scheme.
	for _, scheme := range []string{"http:/", "https:/"} {
		if strings.HasPrefix(target, scheme) && !strings.HasPrefix(target, scheme+"/") {
			target = scheme + "/" + strings.TrimPrefix(target, scheme)
		}
	}
	if r.URL.RawQuery != "" && !strings.Contains(target, "?") {
		target += "?" + r.URL.RawQuery
	}

	u, err := url.Parse(target)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidTarget, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: scheme must be http or https", ErrInvalidTarget)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: missing host", ErrInvalidTarget)
	}
	return u.String(), nil
}
