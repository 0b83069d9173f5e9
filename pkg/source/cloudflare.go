package source

import (
	"context"
	"log/slog"
	"net/http"

	"listkeeper/pkg/category"
)

var cloudflareFeedURLs = []string{
	"https://www.cloudflare.com/ips-v4/",
	"https://www.cloudflare.com/ips-v6/",
}

type cloudflareSource struct {
	urls   []string
	client *http.Client
	log    *slog.Logger
}

func newCloudflareSource(cfg Config, client *http.Client, log *slog.Logger) Source {
	urls := cfg.URLs["cloudflare"]
	if len(urls) == 0 {
		urls = cloudflareFeedURLs
	}
	return &cloudflareSource{urls: urls, client: client, log: log}
}

func (s *cloudflareSource) Name() string { return "cloudflare" }

// Fetch reads the v4 and v6 plaintext range lists for the pass list.
// One failing list does not discard the other.
func (s *cloudflareSource) Fetch(ctx context.Context) (Result, error) {
	var prefixes []string
	var lastErr error

	for _, url := range s.urls {
		data, err := fetchURL(ctx, s.client, url, AuthConfig{}, s.log)
		if err != nil {
			s.log.Warn("failed to fetch cloudflare ranges", "url", url, "error", err)
			lastErr = err
			continue
		}
		prefixes = append(prefixes, parsePlainLines(data)...)
	}

	if len(prefixes) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return Result{category.PassIP: prefixes}, nil
}
