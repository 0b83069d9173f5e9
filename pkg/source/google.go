package source

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"listkeeper/pkg/category"
)

// Google publishes its crawler ranges across several documents that
// all share one JSON shape.
var googleFeedURLs = []string{
	"https://developers.google.com/static/search/apis/ipranges/googlebot.json",
	"https://developers.google.com/static/search/apis/ipranges/special-crawlers.json",
	"https://developers.google.com/static/search/apis/ipranges/user-triggered-fetchers.json",
	"https://developers.google.com/static/search/apis/ipranges/user-triggered-fetchers-google.json",
}

type googleRanges struct {
	Prefixes []struct {
		IPv4Prefix string `json:"ipv4Prefix"`
		IPv6Prefix string `json:"ipv6Prefix"`
	} `json:"prefixes"`
}

type googleSource struct {
	urls   []string
	client *http.Client
	log    *slog.Logger
}

func newGoogleSource(cfg Config, client *http.Client, log *slog.Logger) Source {
	urls := cfg.URLs["google"]
	if len(urls) == 0 {
		urls = googleFeedURLs
	}
	return &googleSource{urls: urls, client: client, log: log}
}

func (s *googleSource) Name() string { return "google" }

// Fetch collects crawler prefixes for the pass list. A failed document
// is skipped; the fetch fails only when every document fails.
func (s *googleSource) Fetch(ctx context.Context) (Result, error) {
	var prefixes []string
	var lastErr error

	for _, url := range s.urls {
		data, err := fetchURL(ctx, s.client, url, AuthConfig{}, s.log)
		if err != nil {
			s.log.Warn("failed to fetch google ranges", "url", url, "error", err)
			lastErr = err
			continue
		}

		var ranges googleRanges
		if err := json.Unmarshal(data, &ranges); err != nil {
			s.log.Warn("failed to parse google ranges", "url", url, "error", err)
			lastErr = fmt.Errorf("parse %s: %w", url, err)
			continue
		}

		for _, prefix := range ranges.Prefixes {
			if prefix.IPv4Prefix != "" {
				prefixes = append(prefixes, prefix.IPv4Prefix)
			}
			if prefix.IPv6Prefix != "" {
				prefixes = append(prefixes, prefix.IPv6Prefix)
			}
		}
	}

	if len(prefixes) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return Result{category.PassIP: prefixes}, nil
}
