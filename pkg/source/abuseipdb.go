package source

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"

	"listkeeper/pkg/category"
)

const (
	abuseIPDBURL    = "https://api.abuseipdb.com/api/v2/blacklist"
	abuseIPDBKeyEnv = "ABUSEIPDB_KEY"

	// Fetch only high-confidence reports, up to the API maximum.
	abuseIPDBConfidenceMinimum = "75"
	abuseIPDBLimit             = "65000"
)

type abuseIPDBSource struct {
	url    string
	apiKey string
	client *http.Client
	log    *slog.Logger
}

func newAbuseIPDBSource(cfg Config, client *http.Client, log *slog.Logger) Source {
	feedURL := abuseIPDBURL
	if urls := cfg.URLs["abuseipdb"]; len(urls) > 0 {
		feedURL = urls[0]
	}
	apiKey := cfg.APIKeys["abuseipdb"]
	if apiKey == "" {
		apiKey = os.Getenv(abuseIPDBKeyEnv)
	}
	return &abuseIPDBSource{url: feedURL, apiKey: apiKey, client: client, log: log}
}

func (s *abuseIPDBSource) Name() string { return "abuseipdb" }

// Fetch reads the AbuseIPDB blacklist for the drop list. Without an
// API key the source contributes nothing and the run carries on.
func (s *abuseIPDBSource) Fetch(ctx context.Context) (Result, error) {
	if s.apiKey == "" {
		s.log.Warn("abuseipdb API key not set, skipping", "env", abuseIPDBKeyEnv)
		return Result{}, ErrMissingCredential
	}

	query := url.Values{}
	query.Set("plaintext", "true")
	query.Set("confidenceMinimum", abuseIPDBConfidenceMinimum)
	query.Set("limit", abuseIPDBLimit)

	auth := AuthConfig{Token: s.apiKey, Header: "Key"}
	data, err := fetchURL(ctx, s.client, s.url+"?"+query.Encode(), auth, s.log)
	if err != nil {
		return nil, fmt.Errorf("fetch abuseipdb blacklist: %w", err)
	}

	return Result{category.DropIP: parsePlainLines(data)}, nil
}
