package aggregate

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"listkeeper/pkg/category"
	"listkeeper/pkg/source"
	"listkeeper/pkg/store"
)

type fakeSource struct {
	name   string
	result source.Result
	err    error
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Fetch(_ context.Context) (source.Result, error) {
	return f.result, f.err
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	st, err := store.New(t.TempDir(), log)
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	return st
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunIsolatesFailingSource(t *testing.T) {
	st := newTestStore(t)
	sources := []source.Source{
		&fakeSource{name: "broken", err: errors.New("connection refused")},
		&fakeSource{name: "working", result: source.Result{category.PassIP: {"1.1.1.0/24"}}},
	}

	summary := New(sources, st, 2, testLogger()).Run(context.Background())

	if len(summary.Contributing) != 1 || summary.Contributing[0] != "working" {
		t.Errorf("Contributing = %v", summary.Contributing)
	}
	if len(summary.Skipped) != 1 || summary.Skipped[0] != "broken" {
		t.Errorf("Skipped = %v", summary.Skipped)
	}
	if summary.Failed() {
		t.Error("run should not fail when one source errors")
	}

	set := st.Load(category.PassIP)
	if _, ok := set["1.1.1.0/24"]; !ok {
		t.Error("working source output was not persisted")
	}
}

func TestRunDeduplicatesAcrossSources(t *testing.T) {
	st := newTestStore(t)
	sources := []source.Source{
		&fakeSource{name: "one", result: source.Result{category.WhitelistDomain: {"github.com"}}},
		&fakeSource{name: "two", result: source.Result{category.WhitelistDomain: {"GitHub.com."}}},
	}

	summary := New(sources, st, 0, testLogger()).Run(context.Background())

	if got := summary.Counts[category.WhitelistDomain]; got != 1 {
		t.Errorf("whitelist_domain count = %d, want 1", got)
	}
	set := st.Load(category.WhitelistDomain)
	if len(set) != 1 {
		t.Fatalf("expected exactly one entry, got %v", set)
	}
	if _, ok := set["github.com"]; !ok {
		t.Error("expected canonical github.com entry")
	}
}

func TestRunDropsUnknownCategory(t *testing.T) {
	st := newTestStore(t)
	sources := []source.Source{
		&fakeSource{name: "odd", result: source.Result{
			category.Category("made_up"): {"1.2.3.4"},
			category.DropIP:              {"5.6.7.8"},
		}},
	}

	summary := New(sources, st, 1, testLogger()).Run(context.Background())

	if len(summary.Contributing) != 1 {
		t.Errorf("Contributing = %v", summary.Contributing)
	}
	if got := summary.Counts[category.DropIP]; got != 1 {
		t.Errorf("drop_ip count = %d, want 1", got)
	}

	entries, err := os.ReadDir(filepath.Dir(st.Path(category.DropIP)))
	if err != nil {
		t.Fatalf("read output dir: %v", err)
	}
	for _, entry := range entries {
		if strings.Contains(entry.Name(), "made_up") {
			t.Errorf("unexpected artifact %q for unknown category", entry.Name())
		}
	}
}

func TestRunRewritesUntouchedCategories(t *testing.T) {
	st := newTestStore(t)

	prior := make(store.Set)
	store.Merge(prior, []string{"9.9.9.9"})
	if err := st.Write(category.DropIP, prior, []string{"abuseipdb"}); err != nil {
		t.Fatalf("seed write: %v", err)
	}

	sources := []source.Source{
		&fakeSource{name: "passonly", result: source.Result{category.PassIP: {"1.1.1.1"}}},
	}
	summary := New(sources, st, 1, testLogger()).Run(context.Background())

	if got := summary.Counts[category.DropIP]; got != 1 {
		t.Errorf("drop_ip count = %d, want 1 (prior content kept)", got)
	}

	data, err := os.ReadFile(st.Path(category.DropIP))
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "9.9.9.9/32") {
		t.Errorf("prior entry lost:\n%s", content)
	}
	if !strings.Contains(content, "; Sources included: passonly") {
		t.Errorf("header not refreshed:\n%s", content)
	}
}

func TestRunEmptySourceIsSkippedNotContributing(t *testing.T) {
	st := newTestStore(t)
	sources := []source.Source{
		&fakeSource{name: "empty", result: source.Result{}},
	}

	summary := New(sources, st, 1, testLogger()).Run(context.Background())

	if len(summary.Contributing) != 0 {
		t.Errorf("Contributing = %v, want none", summary.Contributing)
	}
	if len(summary.Skipped) != 1 || summary.Skipped[0] != "empty" {
		t.Errorf("Skipped = %v", summary.Skipped)
	}
	if summary.Failed() {
		t.Error("run with no contributions must still succeed")
	}
}

func TestRunWriteFailureIsPerCategory(t *testing.T) {
	st := newTestStore(t)
	// A directory in place of the drop artifact forces a write error.
	if err := os.Mkdir(st.Path(category.DropIP), 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	sources := []source.Source{
		&fakeSource{name: "feeds", result: source.Result{
			category.DropIP: {"5.6.7.8"},
			category.PassIP: {"1.1.1.1"},
		}},
	}
	summary := New(sources, st, 1, testLogger()).Run(context.Background())

	if _, ok := summary.WriteErrors[category.DropIP]; !ok {
		t.Error("expected write error for drop_ip")
	}
	if summary.Failed() {
		t.Error("one failed category must not fail the run")
	}

	set := st.Load(category.PassIP)
	if _, ok := set["1.1.1.1/32"]; !ok {
		t.Error("pass_ip artifact should still be written")
	}
}
