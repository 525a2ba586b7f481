// Package pipeline runs decoded team data through the flattener, the
// aggregator and the estimator.
package pipeline

import (
	"github.com/frcscout/fuelscout/internal/aggregator"
	"github.com/frcscout/fuelscout/internal/estimator"
	"github.com/frcscout/fuelscout/internal/flatten"
	"github.com/frcscout/fuelscout/internal/model"
	"github.com/frcscout/fuelscout/internal/tagged"
)

// Source yields the decoded matches for each team.
type Source interface {
	Teams() []string
	Matches(team string) map[string]map[string]tagged.Value
}

// Output holds everything derived from one source.
type Output struct {
	// Order is the team order of the source.
	Order   []string
	Records map[string][]model.MatchRecord
	Stats   *aggregator.Aggregator
}

// Run flattens every team's matches and aggregates them, one team at a time.
func Run(src Source, layout flatten.Layout, tracked []string) *Output {
	f := flatten.New(layout, tracked)
	out := &Output{
		Order:   src.Teams(),
		Records: make(map[string][]model.MatchRecord),
		Stats:   aggregator.New(tracked),
	}
	for _, team := range out.Order {
		recs := f.FlattenTeam(team, src.Matches(team))
		out.Records[team] = recs
		out.Stats.IngestTeam(team, recs)
	}
	return out
}

// Teams returns per-team statistics in source order.
func (o *Output) Teams() []model.TeamStatistics {
	return o.Stats.Ordered(o.Order)
}

// MatchCount is the number of records produced.
func (o *Output) MatchCount() int {
	n := 0
	for _, recs := range o.Records {
		n += len(recs)
	}
	return n
}

// AllRecords returns every record, teams in source order.
func (o *Output) AllRecords() []model.MatchRecord {
	var out []model.MatchRecord
	for _, team := range o.Order {
		out = append(out, o.Records[team]...)
	}
	return out
}

// Estimate runs the differential estimator for home against the rest of the field.
func (o *Output) Estimate(home string) []model.MatchEstimate {
	return estimator.Run(home, o.Records)
}

// Summary is the serialisable per-team aggregate.
type Summary struct {
	Team     string             `json:"team"`
	Entries  int                `json:"entries"`
	Averages map[string]float64 `json:"averages"`
}

// Summaries returns the aggregate for each team in source order.
func (o *Output) Summaries() []Summary {
	teams := o.Teams()
	out := make([]Summary, 0, len(teams))
	for _, s := range teams {
		out = append(out, Summary{Team: s.TeamID, Entries: s.Entries, Averages: s.Averages()})
	}
	return out
}

// EstimateRow is the serialisable form of one running estimate.
type EstimateRow struct {
	MatchID               string  `json:"matchId"`
	Mean                  float64 `json:"mean"`
	StdDev                float64 `json:"stddev"`
	WinProbabilityPercent float64 `json:"winProbabilityPercent"`
}

// EstimateRows converts estimates to their output form.
func EstimateRows(estimates []model.MatchEstimate) []EstimateRow {
	out := make([]EstimateRow, 0, len(estimates))
	for _, e := range estimates {
		out = append(out, EstimateRow{
			MatchID:               e.MatchID,
			Mean:                  e.Mean,
			StdDev:                e.StdDev,
			WinProbabilityPercent: e.WinProbability,
		})
	}
	return out
}
