package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrStatus matches every non-2xx answer from an HTTP source.
var ErrStatus = errors.New("unexpected status")

// StatusError records the URL and code of a non-2xx answer.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: %s %d", e.URL, ErrStatus, e.Code)
}

func (e *StatusError) Is(target error) bool { return target == ErrStatus }

// HTTP fetches the document with a single GET.
type HTTP struct {
	URL     string
	Timeout time.Duration
	Client  *http.Client
}

// NewHTTP returns an HTTP source using http.DefaultClient.  A zero timeout
// leaves the deadline to ctx.
func NewHTTP(url string, timeout time.Duration) *HTTP {
	return &HTTP{URL: url, Timeout: timeout, Client: http.DefaultClient}
}

func (h *HTTP) Name() string { return "http:" + h.URL }

func (h *HTTP) Fetch(ctx context.Context) ([]byte, error) {
	if h.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", h.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return nil, &StatusError{URL: h.URL, Code: resp.StatusCode}
	}

	data, err := readDocument(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", h.URL, err)
	}
	return data, nil
}
