package source

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const defaultHTTPTimeout = 30 * time.Second

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	return &http.Client{Timeout: timeout}
}

func fetchURL(ctx context.Context, client *http.Client, url string, auth AuthConfig, log *slog.Logger) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	applyAuth(req, auth)

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Warn("failed to close feed response body", "url", url, "error", err)
		}
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

func applyAuth(req *http.Request, auth AuthConfig) {
	if auth.Username != "" || auth.Password != "" {
		req.SetBasicAuth(auth.Username, auth.Password)
	}
	if auth.Token == "" {
		return
	}
	header := auth.Header
	scheme := auth.Scheme
	if header == "" {
		header = "Authorization"
		if scheme == "" {
			scheme = "Bearer"
		}
	}
	value := auth.Token
	if scheme != "" {
		value = scheme + " " + value
	}
	req.Header.Set(header, value)
}

// parsePlainLines extracts the entry lines of a line-delimited feed,
// skipping blanks and comment lines.
func parsePlainLines(data []byte) []string {
	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(stripBOM(scanner.Text()))
		if line == "" || isCommentLine(line) {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

func stripBOM(line string) string {
	return strings.TrimPrefix(line, "\ufeff")
}

func isCommentLine(line string) bool {
	return strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";")
}

func isURL(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}
