package source

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"listkeeper/pkg/category"
)

const awsRangesURL = "https://ip-ranges.amazonaws.com/ip-ranges.json"

type awsRanges struct {
	Prefixes []struct {
		IPPrefix string `json:"ip_prefix"`
	} `json:"prefixes"`
	IPv6Prefixes []struct {
		IPv6Prefix string `json:"ipv6_prefix"`
	} `json:"ipv6_prefixes"`
}

type awsSource struct {
	url    string
	client *http.Client
	log    *slog.Logger
}

func newAWSSource(cfg Config, client *http.Client, log *slog.Logger) Source {
	url := awsRangesURL
	if urls := cfg.URLs["aws"]; len(urls) > 0 {
		url = urls[0]
	}
	return &awsSource{url: url, client: client, log: log}
}

func (s *awsSource) Name() string { return "aws" }

// Fetch reads the published AWS ranges for the pass list.
func (s *awsSource) Fetch(ctx context.Context) (Result, error) {
	data, err := fetchURL(ctx, s.client, s.url, AuthConfig{}, s.log)
	if err != nil {
		return nil, fmt.Errorf("fetch aws ranges: %w", err)
	}

	var ranges awsRanges
	if err := json.Unmarshal(data, &ranges); err != nil {
		return nil, fmt.Errorf("parse aws ranges: %w", err)
	}

	prefixes := make([]string, 0, len(ranges.Prefixes)+len(ranges.IPv6Prefixes))
	for _, prefix := range ranges.Prefixes {
		if prefix.IPPrefix != "" {
			prefixes = append(prefixes, prefix.IPPrefix)
		}
	}
	for _, prefix := range ranges.IPv6Prefixes {
		if prefix.IPv6Prefix != "" {
			prefixes = append(prefixes, prefix.IPv6Prefix)
		}
	}

	return Result{category.PassIP: prefixes}, nil
}
