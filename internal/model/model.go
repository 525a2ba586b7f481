package model

import (
	"sort"
	"strconv"
)

// Field names emitted by the scouting app and derived by the flattener.
const (
	FieldAutoFuel          = "autoFuel"
	FieldTransitionFuel    = "transitionFuel"
	FieldEndgameFuel       = "endgameFuel"
	FieldFirstActiveFuel   = "firstActiveFuel"
	FieldSecondActiveFuel  = "secondActiveFuel"
	FieldFirstActiveShift  = "firstActiveShift"
	FieldSecondActiveShift = "secondActiveShift"
	FieldTotalFuel         = "totalFuel"
	FieldTeamID            = "teamId"
	FieldMatchID           = "matchId"
	FieldRobotError        = "robotError"
)

// ShiftCount is the number of parallel shift phases in a match.
const ShiftCount = 4

// DefaultTrackedFields are the per-team averages reported when the config
// does not override them.
var DefaultTrackedFields = []string{
	FieldAutoFuel,
	FieldTransitionFuel,
	FieldFirstActiveFuel,
	FieldSecondActiveFuel,
	FieldEndgameFuel,
	FieldTotalFuel,
}

// DefaultRawColumns is the column order of the raw record view. Columns not
// listed follow, sorted.
var DefaultRawColumns = []string{
	"eventName", "team", "match", "name", "scoutingTeam", "teamNumber", "matchNumber",
	"autoFuel", "autoUnderTrench", "autoClimbed", "transitionFuel",
	"shift1HubActive", "shift1Fuel", "shift1Defense",
	"shift2HubActive", "shift2Fuel", "shift2Defense",
	"shift3HubActive", "shift3Fuel", "shift3Defense",
	"shift4HubActive", "shift4Fuel", "shift4Defense",
	"endgameFuel", "endgameClimbLevel", "crossedBump", "underTrench",
	FieldRobotError, "notes",
}

// ShiftFuelField returns the fuel field name for shift n ("shift3Fuel").
func ShiftFuelField(n int) string {
	return "shift" + strconv.Itoa(n) + "Fuel"
}

// ShiftActiveField returns the hub-active flag name for shift n ("shift1HubActive").
func ShiftActiveField(n int) string {
	return "shift" + strconv.Itoa(n) + "HubActive"
}

// ---- Flattened per-match data ----

// MatchRecord is one team's scouting entry for one match, with tagged values
// stripped to native Go values (int64, float64, bool, string, []any, map[string]any).
type MatchRecord struct {
	TeamID  string
	MatchID string
	Fields  map[string]any
}

// Number returns the numeric value of field, or 0 when absent or non-numeric.
func (r MatchRecord) Number(field string) float64 {
	switch v := r.Fields[field].(type) {
	case int64:
		return float64(v)
	case int:
		return float64(v)
	case float64:
		return v
	case bool:
		if v {
			return 1
		}
	}
	return 0
}

// TotalFuel is shorthand for Number(FieldTotalFuel).
func (r MatchRecord) TotalFuel() float64 { return r.Number(FieldTotalFuel) }

// ---- Aggregated per-team data ----

// TeamStatistics holds running sums for one team. Averages are derived, never stored.
type TeamStatistics struct {
	TeamID  string
	Entries int
	Sums    map[string]float64
}

// Average returns Sums[field]/Entries, or 0 when the team has no entries.
func (s TeamStatistics) Average(field string) float64 {
	if s.Entries == 0 {
		return 0
	}
	return s.Sums[field] / float64(s.Entries)
}

// Averages returns every tracked field's average keyed by field name.
func (s TeamStatistics) Averages() map[string]float64 {
	out := make(map[string]float64, len(s.Sums))
	for f := range s.Sums {
		out[f] = s.Average(f)
	}
	return out
}

// ---- Estimator output ----

// Estimate is the normal-approximation summary over a set of differentials.
type Estimate struct {
	Samples        int
	Mean           float64
	StdDev         float64
	WinProbability float64 // percent, 0–100
}

// MatchEstimate is the running estimate after processing one match.
type MatchEstimate struct {
	MatchID       string
	HomeTotal     float64
	OpponentTotal float64
	Estimate
}

// SortMatchIDs orders match identifiers numerically when both parse as
// integers, lexically otherwise. Numeric ids sort before non-numeric ones.
func SortMatchIDs(ids []string) {
	sort.SliceStable(ids, func(i, j int) bool {
		a, errA := strconv.Atoi(ids[i])
		b, errB := strconv.Atoi(ids[j])
		switch {
		case errA == nil && errB == nil:
			return a < b
		case errA == nil:
			return true
		case errB == nil:
			return false
		default:
			return ids[i] < ids[j]
		}
	})
}
