package endpoint

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// ErrSource is returned when an endpoint list cannot be read from its file
// or URL source.
var ErrSource = errors.New("endpoint: reading endpoint source")

// DefaultFetchTimeout bounds the single HTTP fetch of a remote endpoint
// list.
const DefaultFetchTimeout = 30 * time.Second

// ReadLinesFile reads an endpoint list from a local text file, one endpoint
// per line. Blank lines are dropped and the remainder trimmed. The file is
// read fully before any parsing happens.
func ReadLinesFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSource, err)
	}
	return splitLines(string(data)), nil
}

// FetchLines fetches an endpoint list over HTTP. The fetch is a single GET
// with a bounded timeout; there are no retries, and any failure aborts the
// run.
func FetchLines(ctx context.Context, rawURL string, timeout time.Duration) ([]string, error) {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSource, err)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching %s: %v", ErrSource, rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: fetching %s: unexpected status %s", ErrSource, rawURL, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrSource, rawURL, err)
	}
	return splitLines(string(body)), nil
}

func splitLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
