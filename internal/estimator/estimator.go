// Package estimator turns per-match fuel differentials into a win probability
// using a normal approximation.
//
// The spread is the population standard deviation (divisor N), so small
// sample sets read tighter than a sample estimator would report.
package estimator

import (
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/frcscout/fuelscout/internal/model"
)

// Estimator accumulates differential samples. Samples are append-only.
type Estimator struct {
	samples []float64
}

// New returns an empty Estimator.
func New() *Estimator { return &Estimator{} }

// AddSample records homeTotal − opponentTotal for one match.
func (e *Estimator) AddSample(homeTotal, opponentTotal float64) {
	e.samples = append(e.samples, homeTotal-opponentTotal)
}

// Samples returns a copy of the differentials seen so far.
func (e *Estimator) Samples() []float64 {
	return append([]float64(nil), e.samples...)
}

// Estimate summarises every sample added so far. With fewer than two samples,
// or zero spread, the probability is 100, 0 or 50 by the sign of the mean.
func (e *Estimator) Estimate() model.Estimate {
	n := len(e.samples)
	if n == 0 {
		return model.Estimate{WinProbability: 50}
	}
	mean, variance := stat.PopMeanVariance(e.samples, nil)
	sd := math.Sqrt(variance)
	if n == 1 {
		sd = 0
	}

	est := model.Estimate{Samples: n, Mean: mean, StdDev: sd}
	if sd == 0 || math.IsNaN(sd) {
		est.WinProbability = signProbability(mean)
		return est
	}
	dist := distuv.Normal{Mu: mean, Sigma: sd}
	est.WinProbability = 100 * dist.Survival(0)
	return est
}

func signProbability(mean float64) float64 {
	switch {
	case mean > 0:
		return 100
	case mean < 0:
		return 0
	default:
		return 50
	}
}

// Run walks the home team's matches in match order and returns the running
// estimate after each one. The opponent total for a match is the sum of
// totalFuel over every other team's record for that match id.
func Run(home string, records map[string][]model.MatchRecord) []model.MatchEstimate {
	field := make(map[string]float64)
	for team, recs := range records {
		if team == home {
			continue
		}
		for _, r := range recs {
			field[r.MatchID] += r.TotalFuel()
		}
	}

	homeRecs := records[home]
	byMatch := make(map[string]float64, len(homeRecs))
	ids := make([]string, 0, len(homeRecs))
	for _, r := range homeRecs {
		if _, seen := byMatch[r.MatchID]; !seen {
			ids = append(ids, r.MatchID)
		}
		byMatch[r.MatchID] += r.TotalFuel()
	}
	model.SortMatchIDs(ids)

	e := New()
	out := make([]model.MatchEstimate, 0, len(ids))
	for _, id := range ids {
		e.AddSample(byMatch[id], field[id])
		out = append(out, model.MatchEstimate{
			MatchID:       id,
			HomeTotal:     byMatch[id],
			OpponentTotal: field[id],
			Estimate:      e.Estimate(),
		})
	}
	return out
}
