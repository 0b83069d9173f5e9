package source

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"listkeeper/pkg/category"
)

// remoteSource serves a configured plaintext list feeding exactly one
// category.
type remoteSource struct {
	name   string
	url    string
	cat    category.Category
	auth   AuthConfig
	client *http.Client
	log    *slog.Logger
}

func newRemoteSource(feed CustomFeed, index int, client *http.Client, log *slog.Logger) (Source, error) {
	name := feed.Name
	if name == "" {
		name = fmt.Sprintf("custom_%d", index+1)
	}
	if !isURL(feed.URL) {
		return nil, fmt.Errorf("invalid feed url %q", feed.URL)
	}
	cat, ok := category.Parse(feed.Category)
	if !ok {
		return nil, fmt.Errorf("unknown category %q", feed.Category)
	}
	return &remoteSource{
		name:   name,
		url:    feed.URL,
		cat:    cat,
		auth:   feed.Auth,
		client: client,
		log:    log,
	}, nil
}

func (s *remoteSource) Name() string { return s.name }

func (s *remoteSource) Fetch(ctx context.Context) (Result, error) {
	data, err := fetchURL(ctx, s.client, s.url, s.auth, s.log)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", s.name, err)
	}
	return Result{s.cat: parsePlainLines(data)}, nil
}
