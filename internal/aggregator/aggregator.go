// Package aggregator accumulates per-team running sums over flattened match records.
package aggregator

import (
	"sort"

	"github.com/frcscout/fuelscout/internal/model"
)

// Aggregator owns one TeamStatistics accumulator per team. It is not safe for
// concurrent use; feed it one team at a time.
type Aggregator struct {
	tracked []string
	teams   map[string]*accum
}

type accum struct {
	entries int
	sums    map[string]float64
}

// New returns an Aggregator that sums the given fields.
func New(tracked []string) *Aggregator {
	return &Aggregator{
		tracked: append([]string(nil), tracked...),
		teams:   make(map[string]*accum),
	}
}

// Tracked returns the fields being summed, in configured order.
func (a *Aggregator) Tracked() []string { return a.tracked }

// Register ensures teamID appears in the snapshot even with no records.
func (a *Aggregator) Register(teamID string) {
	a.team(teamID)
}

// Ingest adds one record to its team's sums and counts it once.
func (a *Aggregator) Ingest(r model.MatchRecord) {
	acc := a.team(r.TeamID)
	acc.entries++
	for _, f := range a.tracked {
		acc.sums[f] += r.Number(f)
	}
}

// IngestTeam registers teamID and ingests all of its records in one pass.
func (a *Aggregator) IngestTeam(teamID string, records []model.MatchRecord) {
	a.Register(teamID)
	for _, r := range records {
		a.Ingest(r)
	}
}

// Snapshot returns a copy of every team's statistics.
func (a *Aggregator) Snapshot() map[string]model.TeamStatistics {
	out := make(map[string]model.TeamStatistics, len(a.teams))
	for id, acc := range a.teams {
		sums := make(map[string]float64, len(acc.sums))
		for f, v := range acc.sums {
			sums[f] = v
		}
		out[id] = model.TeamStatistics{TeamID: id, Entries: acc.entries, Sums: sums}
	}
	return out
}

// Teams returns the registered team ids, sorted.
func (a *Aggregator) Teams() []string {
	ids := make([]string, 0, len(a.teams))
	for id := range a.teams {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Ordered returns the snapshot as a slice following order; ids in order that
// were never registered are included with zero statistics.
func (a *Aggregator) Ordered(order []string) []model.TeamStatistics {
	snap := a.Snapshot()
	out := make([]model.TeamStatistics, 0, len(order))
	for _, id := range order {
		s, ok := snap[id]
		if !ok {
			s = model.TeamStatistics{TeamID: id, Sums: a.zeroSums()}
		}
		out = append(out, s)
	}
	return out
}

func (a *Aggregator) team(id string) *accum {
	acc, ok := a.teams[id]
	if !ok {
		acc = &accum{sums: a.zeroSums()}
		a.teams[id] = acc
	}
	return acc
}

func (a *Aggregator) zeroSums() map[string]float64 {
	sums := make(map[string]float64, len(a.tracked))
	for _, f := range a.tracked {
		sums[f] = 0
	}
	return sums
}
