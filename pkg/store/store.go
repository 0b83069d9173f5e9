// Package store persists aggregated category sets as flat text artifacts.
//
// Each artifact starts with a provenance header (update time,
// contributing sources, entry count) as `;` comment lines, followed by
// one canonical token per line in a fixed type-partitioned order, so
// repeated runs produce minimal diffs.
package store

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"listkeeper/pkg/category"
	"listkeeper/pkg/token"
)

const headerSeparator = "; --------------------------------------------"

// Set holds tokens keyed by canonical form.
type Set map[string]token.Token

// Add canonicalizes raw and inserts it. Empty entries are skipped.
func (s Set) Add(raw string) {
	tok, err := token.Canonicalize(raw)
	if err != nil {
		return
	}
	s[tok.Canonical] = tok
}

// Merge unions raw tokens into the set. Duplicates by canonical form
// collapse silently; merging the same input twice changes nothing.
func Merge(set Set, raw []string) {
	for _, entry := range raw {
		set.Add(entry)
	}
}

// Sorted returns the set's tokens in the deterministic output order:
// IPv4 prefixes by network address then length, IPv6 the same, then
// domains and opaque entries lexicographically.
func Sorted(set Set) []token.Token {
	tokens := make([]token.Token, 0, len(set))
	for _, tok := range set {
		tokens = append(tokens, tok)
	}
	sort.Slice(tokens, func(i, j int) bool {
		return token.Compare(tokens[i], tokens[j]) < 0
	})
	return tokens
}

// Store owns the artifact files for all categories during a run.
type Store struct {
	dir string
	log *slog.Logger
}

// New creates the output directory if missing. This is the only fatal
// initialization step of a run.
func New(dir string, log *slog.Logger) (*Store, error) {
	if log == nil {
		log = slog.Default()
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create output dir %s: %w", dir, err)
	}
	return &Store{dir: dir, log: log}, nil
}

// Load reads the persisted artifact for a category, skipping header,
// comment and blank lines. A missing file yields an empty set; an
// unreadable file does too, with a warning, since merging on top of
// empty prior state is always safe.
func (s *Store) Load(cat category.Category) Set {
	set := make(Set)

	data, err := os.ReadFile(s.Path(cat)) // #nosec G304 -- path is derived from the configured output dir.
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn("failed to read artifact, starting empty", "category", string(cat), "error", err)
		}
		return set
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(strings.TrimPrefix(line, "\ufeff"))
		if line == "" || strings.HasPrefix(line, ";") || strings.HasPrefix(line, "#") {
			continue
		}
		set.Add(line)
	}
	return set
}

// Write rewrites the category artifact in full: provenance header,
// separator, then the sorted tokens one per line. A write failure is
// fatal for this category only.
func (s *Store) Write(cat category.Category, set Set, contributing []string) error {
	tokens := Sorted(set)

	var b strings.Builder
	fmt.Fprintf(&b, "; Updated at: %s\n", time.Now().UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "; Sources included: %s\n", strings.Join(contributing, ", "))
	fmt.Fprintf(&b, "; Total entries: %d\n", len(tokens))
	b.WriteString(headerSeparator + "\n")
	for _, tok := range tokens {
		b.WriteString(tok.Canonical + "\n")
	}

	if err := os.WriteFile(s.Path(cat), []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write artifact %s: %w", cat.Filename(), err)
	}
	return nil
}

// Path returns the artifact file path for a category.
func (s *Store) Path(cat category.Category) string {
	return filepath.Join(s.dir, cat.Filename())
}
