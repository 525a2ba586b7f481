package tree

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/frcscout/fuelscout/internal/tagged"
)

// fakeStore serves canned listings keyed by path. Paths in fail return an error.
type fakeStore struct {
	mu    sync.Mutex
	nodes map[string][]Document
	fail  map[string]bool
	calls map[string]int
}

func (s *fakeStore) List(_ context.Context, p string) ([]Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.calls == nil {
		s.calls = make(map[string]int)
	}
	s.calls[p]++
	if s.fail[p] {
		return nil, fmt.Errorf("HTTP 503")
	}
	return s.nodes[p], nil
}

func fuel(n int) map[string]any {
	return map[string]any{
		"autoFuel":        map[string]any{"integerValue": fmt.Sprint(n)},
		"shift1HubActive": map[string]any{"booleanValue": true},
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newFixture() *fakeStore {
	return &fakeStore{
		nodes: map[string][]Document{
			"teams": {{ID: "254"}, {ID: "1678"}, {ID: "118"}},
			// 254 keeps matches in a sub-collection one level down.
			"teams/254":         {{ID: "matches"}},
			"teams/254/matches": {{ID: "1", Fields: fuel(10)}, {ID: "2", Fields: fuel(12)}},
			// 1678 stores match documents directly.
			"teams/1678": {{ID: "1", Fields: fuel(8)}, {ID: "3", Fields: fuel(9)}},
			// 118 exists but has no data yet.
			"teams/118": {},
		},
	}
}

func TestFetchTeam_CollectsLeavesAcrossLevels(t *testing.T) {
	f := New(newFixture(), "teams", Options{Logger: quietLogger()})

	matches, fails := f.FetchTeam(context.Background(), "254")
	if len(fails) != 0 {
		t.Fatalf("unexpected failures: %v", fails)
	}
	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2", len(matches))
	}
	if n, _ := matches["2"]["autoFuel"].Int(); n != 12 {
		t.Errorf("match 2 autoFuel: got %d, want 12", n)
	}
}

func TestFetchTeam_EmptyNode(t *testing.T) {
	f := New(newFixture(), "teams", Options{Logger: quietLogger()})
	matches, fails := f.FetchTeam(context.Background(), "118")
	if len(matches) != 0 || len(fails) != 0 {
		t.Errorf("empty team: got %d matches, %d failures", len(matches), len(fails))
	}
}

func TestFetchSubtree_NestedShape(t *testing.T) {
	store := newFixture()
	f := New(store, "teams", Options{Logger: quietLogger()})

	out, fails := f.FetchSubtree(context.Background(), "teams/254")
	if len(fails) != 0 {
		t.Fatalf("unexpected failures: %v", fails)
	}
	coll := out["matches"]
	if coll.Kind() != tagged.KindMap {
		t.Fatalf("matches: got kind %v, want map", coll.Kind())
	}
	m1 := coll.Fields()["1"]
	if n, _ := m1.Fields()["autoFuel"].Int(); n != 10 {
		t.Errorf("matches/1/autoFuel: got %v", m1.Fields()["autoFuel"])
	}
	if store.calls["teams/254/matches"] != 1 {
		t.Errorf("expected a single attempt per node, got %d", store.calls["teams/254/matches"])
	}
}

func TestFetchSubtree_FailureTruncatesOnlyItsBranch(t *testing.T) {
	store := &fakeStore{
		nodes: map[string][]Document{
			"x":   {{ID: "a"}, {ID: "b"}, {ID: "leaf", Fields: fuel(1)}},
			"x/b": {{ID: "m", Fields: fuel(2)}},
		},
		fail: map[string]bool{"x/a": true},
	}
	f := New(store, "x", Options{Logger: quietLogger()})

	out, fails := f.FetchSubtree(context.Background(), "x")
	if len(fails) != 1 || fails[0].Path != "x/a" {
		t.Fatalf("failures: got %v, want one for x/a", fails)
	}
	if a := out["a"]; a.Kind() != tagged.KindMap || len(a.Fields()) != 0 {
		t.Errorf("failed branch should be empty, got %v", a)
	}
	if len(out["b"].Fields()) != 1 {
		t.Errorf("sibling b lost: %v", out["b"])
	}
	if out["leaf"].Kind() != tagged.KindMap {
		t.Errorf("leaf document missing")
	}
}

func TestFetchSubtree_MaxDepth(t *testing.T) {
	store := &fakeStore{nodes: map[string][]Document{
		"r":     {{ID: "a"}},
		"r/a":   {{ID: "b"}},
		"r/a/b": {{ID: "c", Fields: fuel(1)}},
	}}
	f := New(store, "r", Options{MaxDepth: 1, Logger: quietLogger()})
	_, fails := f.FetchSubtree(context.Background(), "r")
	if len(fails) != 1 || fails[0].Path != "r/a/b" {
		t.Errorf("expected depth failure at r/a/b, got %v", fails)
	}
}

func TestFetchAll_OneTeamFails(t *testing.T) {
	store := newFixture()
	store.fail = map[string]bool{"teams/254": true}
	f := New(store, "teams", Options{Concurrency: 3, Logger: quietLogger()})

	res, err := f.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	want := []string{"118", "1678", "254"}
	for i := range want {
		if res.Teams[i] != want[i] {
			t.Fatalf("teams not sorted: got %v", res.Teams)
		}
	}
	if len(res.Failures) != 1 || res.Failures[0].Path != "teams/254" {
		t.Errorf("failures: got %v", res.Failures)
	}
	if len(res.Root["254"]) != 0 {
		t.Errorf("failed team should be empty, got %v", res.Root["254"])
	}
	if len(res.Root["1678"]) != 2 {
		t.Errorf("healthy team lost data: %v", res.Root["1678"])
	}
	if res.MatchCount() != 2 {
		t.Errorf("MatchCount: got %d, want 2", res.MatchCount())
	}
	if len(res.Processed) != 2 || res.Processed[0] != "118" || res.Processed[1] != "1678" {
		t.Errorf("processed should exclude the failed team: got %v", res.Processed)
	}
}

func TestFetchAll_RootUnresolvable(t *testing.T) {
	store := newFixture()
	store.fail = map[string]bool{"teams": true}
	f := New(store, "teams", Options{Logger: quietLogger()})

	_, err := f.FetchAll(context.Background())
	if !errors.Is(err, ErrRootUnresolvable) {
		t.Fatalf("expected ErrRootUnresolvable, got %v", err)
	}
}
