// Package tree walks the team → match → fields hierarchy of the remote
// document store, decoding each document and tolerating unreachable nodes.
package tree

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/frcscout/fuelscout/internal/tagged"
)

// ErrRootUnresolvable is returned when the team list itself cannot be listed.
var ErrRootUnresolvable = errors.New("root collection unresolvable")

// Document is one child entry of a store node. A nil Fields means the entry
// is itself a collection to descend into.
type Document struct {
	ID     string
	Fields map[string]any
}

// Store lists the children of a path. Each call is a single attempt.
type Store interface {
	List(ctx context.Context, path string) ([]Document, error)
}

// NodeFailure records a node that could not be listed. Its subtree is empty
// in the result.
type NodeFailure struct {
	Path string
	Err  error
}

func (f NodeFailure) Error() string {
	return fmt.Sprintf("%s: %v", f.Path, f.Err)
}

// Options tunes a Fetcher.
type Options struct {
	// Concurrency bounds the number of teams fetched in parallel.
	Concurrency int
	// MaxDepth bounds recursion below the walked path.
	MaxDepth int
	Logger   *slog.Logger
}

// Fetcher walks a Store rooted at a collection of team documents.
type Fetcher struct {
	store Store
	root  string
	opts  Options
}

// New returns a Fetcher over store whose team list lives at root.
func New(store Store, root string, opts Options) *Fetcher {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = 4
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Fetcher{store: store, root: root, opts: opts}
}

// FetchSubtree walks p depth-first. Documents with fields are stored as a
// decoded Map under their id; collections are stored as a Map of their own
// children. Failed nodes are reported and contribute nothing.
func (f *Fetcher) FetchSubtree(ctx context.Context, p string) (map[string]tagged.Value, []NodeFailure) {
	w := &walker{fetcher: f}
	out := w.subtree(ctx, p, 0)
	return out, w.failures
}

// FetchTeam returns every document under the team's node keyed by its id
// (the match id), with fields decoded.
func (f *Fetcher) FetchTeam(ctx context.Context, teamID string) (map[string]map[string]tagged.Value, []NodeFailure) {
	w := &walker{fetcher: f}
	matches := make(map[string]map[string]tagged.Value)
	w.leaves(ctx, path.Join(f.root, teamID), 0, func(id string, fields map[string]tagged.Value) {
		matches[id] = fields
	})
	return matches, w.failures
}

// FetchTeams lists the team ids at the root, sorted. Failure here is fatal.
func (f *Fetcher) FetchTeams(ctx context.Context) ([]string, error) {
	docs, err := f.store.List(ctx, f.root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRootUnresolvable, f.root, err)
	}
	teams := make([]string, 0, len(docs))
	for _, d := range docs {
		teams = append(teams, d.ID)
	}
	sort.Strings(teams)
	return teams, nil
}

// Result is the merged outcome of a full fetch.
type Result struct {
	// Teams is sorted by id and includes teams whose fetch failed.
	Teams []string
	// Processed lists, in the same order, the teams fetched without any
	// node failure.
	Processed []string
	// Root maps team id → match id → decoded fields.
	Root     map[string]map[string]map[string]tagged.Value
	Failures []NodeFailure
}

// MatchCount is the number of (team, match) documents collected.
func (r *Result) MatchCount() int {
	n := 0
	for _, m := range r.Root {
		n += len(m)
	}
	return n
}

// FetchAll resolves the team list, then fetches each team concurrently.
// Only an unresolvable root is an error; per-node failures are collected.
func (f *Fetcher) FetchAll(ctx context.Context) (*Result, error) {
	teams, err := f.FetchTeams(ctx)
	if err != nil {
		return nil, err
	}

	type slot struct {
		matches  map[string]map[string]tagged.Value
		failures []NodeFailure
	}
	slots := make([]slot, len(teams))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.opts.Concurrency)
	for i, team := range teams {
		g.Go(func() error {
			m, fails := f.FetchTeam(gctx, team)
			slots[i] = slot{matches: m, failures: fails}
			return nil
		})
	}
	_ = g.Wait()

	res := &Result{
		Teams: teams,
		Root:  make(map[string]map[string]map[string]tagged.Value, len(teams)),
	}
	for i, team := range teams {
		res.Root[team] = slots[i].matches
		res.Failures = append(res.Failures, slots[i].failures...)
		if len(slots[i].failures) == 0 {
			res.Processed = append(res.Processed, team)
		}
	}
	f.opts.Logger.Info("fetch complete",
		"teams", len(res.Teams), "processed", len(res.Processed), "matches", res.MatchCount(), "failures", len(res.Failures))
	return res, nil
}

// walker carries the failure accumulator for one traversal.
type walker struct {
	fetcher  *Fetcher
	failures []NodeFailure
}

// list fetches one node, recording a failure instead of returning an error.
func (w *walker) list(ctx context.Context, p string, depth int) ([]Document, bool) {
	if depth > w.fetcher.opts.MaxDepth {
		w.fail(p, fmt.Errorf("max depth %d exceeded", w.fetcher.opts.MaxDepth))
		return nil, false
	}
	docs, err := w.fetcher.store.List(ctx, p)
	if err != nil {
		w.fail(p, err)
		return nil, false
	}
	return docs, true
}

func (w *walker) fail(p string, err error) {
	w.fetcher.opts.Logger.Warn("node unreachable", "path", p, "err", err)
	w.failures = append(w.failures, NodeFailure{Path: p, Err: err})
}

func (w *walker) subtree(ctx context.Context, p string, depth int) map[string]tagged.Value {
	out := make(map[string]tagged.Value)
	docs, ok := w.list(ctx, p, depth)
	if !ok {
		return out
	}
	for _, d := range docs {
		if d.Fields != nil {
			out[d.ID] = tagged.Map(tagged.DecodeFields(d.Fields))
			continue
		}
		out[d.ID] = tagged.Map(w.subtree(ctx, path.Join(p, d.ID), depth+1))
	}
	return out
}

func (w *walker) leaves(ctx context.Context, p string, depth int, visit func(id string, fields map[string]tagged.Value)) {
	docs, ok := w.list(ctx, p, depth)
	if !ok {
		return
	}
	for _, d := range docs {
		if d.Fields != nil {
			visit(d.ID, tagged.DecodeFields(d.Fields))
			continue
		}
		w.leaves(ctx, path.Join(p, d.ID), depth+1, visit)
	}
}
