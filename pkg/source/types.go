// Package source implements the upstream feed plugins and their registry.
package source

import (
	"context"
	"errors"
	"time"

	"listkeeper/pkg/category"
)

// Result maps categories to the raw tokens a feed produced for them.
// Tokens are not necessarily canonical; the store canonicalizes on
// ingest so feed implementations do not have to.
type Result map[category.Category][]string

// Source is one upstream feed. A failed Fetch contributes nothing to
// the run; it never aborts other sources.
type Source interface {
	Name() string
	Fetch(ctx context.Context) (Result, error)
}

// ErrMissingCredential marks a source skipped because a required API
// key is not configured.
var ErrMissingCredential = errors.New("missing credential")

// AuthConfig defines optional authentication for a feed.
type AuthConfig struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Token    string `mapstructure:"token"`
	Header   string `mapstructure:"header"`
	Scheme   string `mapstructure:"scheme"`
}

// CustomFeed describes an extra plaintext list added via configuration.
type CustomFeed struct {
	Name     string
	URL      string
	Category string
	Auth     AuthConfig
}

// Config selects and parameterizes the feeds for one run.
type Config struct {
	Timeout  time.Duration
	Disabled map[string]bool
	URLs     map[string][]string
	APIKeys  map[string]string
	Custom   []CustomFeed
}
