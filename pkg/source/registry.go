package source

import (
	"log/slog"
	"net/http"
)

type constructor func(cfg Config, client *http.Client, log *slog.Logger) Source

// builtins registers the bundled feeds in a fixed order, so that runs
// execute and report sources deterministically.
var builtins = []struct {
	name  string
	build constructor
}{
	{"google", newGoogleSource},
	{"cloudflare", newCloudflareSource},
	{"github", newGitHubSource},
	{"aws", newAWSSource},
	{"abuseipdb", newAbuseIPDBSource},
}

// Names returns the built-in feed names in registration order.
func Names() []string {
	names := make([]string, len(builtins))
	for i, b := range builtins {
		names[i] = b.name
	}
	return names
}

// Known reports whether name is a built-in feed.
func Known(name string) bool {
	for _, b := range builtins {
		if b.name == name {
			return true
		}
	}
	return false
}

// Build returns the enabled sources for a run. A custom feed with an
// unusable configuration is logged and skipped; it never aborts the
// run or the remaining feeds.
func Build(cfg Config, log *slog.Logger) []Source {
	if log == nil {
		log = slog.Default()
	}
	client := newHTTPClient(cfg.Timeout)

	sources := make([]Source, 0, len(builtins)+len(cfg.Custom))
	for _, b := range builtins {
		if cfg.Disabled[b.name] {
			log.Debug("source disabled", "source", b.name)
			continue
		}
		sources = append(sources, b.build(cfg, client, log))
	}

	for i, feed := range cfg.Custom {
		src, err := newRemoteSource(feed, i, client, log)
		if err != nil {
			log.Error("skipping custom feed", "feed", feed.Name, "error", err)
			continue
		}
		sources = append(sources, src)
	}

	return sources
}
