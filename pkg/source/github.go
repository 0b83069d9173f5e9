package source

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"listkeeper/pkg/category"
)

const githubMetaURL = "https://api.github.com/meta"

// githubBaseDomains are always whitelisted; the meta endpoint does not
// reliably list its own primary domains.
var githubBaseDomains = []string{"github.com", "githubusercontent.com"}

type githubMeta struct {
	Hooks      []string       `json:"hooks"`
	Web        []string       `json:"web"`
	API        []string       `json:"api"`
	Git        []string       `json:"git"`
	Pages      []string       `json:"pages"`
	Importer   []string       `json:"importer"`
	Actions    []string       `json:"actions"`
	Dependabot []string       `json:"dependabot"`
	Domains    map[string]any `json:"domains"`
}

type githubSource struct {
	url    string
	client *http.Client
	log    *slog.Logger
}

func newGitHubSource(cfg Config, client *http.Client, log *slog.Logger) Source {
	url := githubMetaURL
	if urls := cfg.URLs["github"]; len(urls) > 0 {
		url = urls[0]
	}
	return &githubSource{url: url, client: client, log: log}
}

func (s *githubSource) Name() string { return "github" }

// Fetch reads the GitHub meta document. Service IP ranges go to the
// pass list, published domains to the domain whitelist.
func (s *githubSource) Fetch(ctx context.Context) (Result, error) {
	data, err := fetchURL(ctx, s.client, s.url, AuthConfig{}, s.log)
	if err != nil {
		return nil, fmt.Errorf("fetch github meta: %w", err)
	}

	var meta githubMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parse github meta: %w", err)
	}

	var prefixes []string
	for _, ranges := range [][]string{
		meta.Hooks, meta.Web, meta.API, meta.Git,
		meta.Pages, meta.Importer, meta.Actions, meta.Dependabot,
	} {
		prefixes = append(prefixes, ranges...)
	}

	domains := append([]string{}, githubBaseDomains...)
	domains = append(domains, flattenDomainLists(meta.Domains)...)

	return Result{
		category.PassIP:          prefixes,
		category.WhitelistDomain: domains,
	}, nil
}

// flattenDomainLists keeps the string-list values of the meta domains
// object and ignores everything else; the document mixes plain lists
// with nested objects.
func flattenDomainLists(raw map[string]any) []string {
	var domains []string
	for _, value := range raw {
		list, ok := value.([]any)
		if !ok {
			continue
		}
		for _, entry := range list {
			if domain, ok := entry.(string); ok && domain != "" {
				domains = append(domains, domain)
			}
		}
	}
	return domains
}
