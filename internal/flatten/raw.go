package flatten

import (
	"sort"
	"strings"

	"github.com/frcscout/fuelscout/internal/model"
	"github.com/frcscout/fuelscout/internal/tagged"
)

// Column names added to every raw row.
const (
	RawTeamColumn  = "team"
	RawMatchColumn = "match"
)

// RawRow is one scouting document with its wrappers stripped, keyed by field
// name, plus the team and match it was filed under.
type RawRow map[string]any

// Raw builds the raw view of one document. Values keep their native types,
// except robotError, which becomes the list of flagged error names.
func Raw(teamID, matchID string, fields map[string]tagged.Value) RawRow {
	row := make(RawRow, len(fields)+2)
	for name, v := range fields {
		if name == model.FieldRobotError && v.Kind() == tagged.KindMap {
			row[name] = RobotErrors(v)
			continue
		}
		row[name] = v.Native()
	}
	row[RawTeamColumn] = teamID
	row[RawMatchColumn] = matchID
	return row
}

// RawTeam returns the raw rows of one team in match order.
func RawTeam(teamID string, matches map[string]map[string]tagged.Value) []RawRow {
	ids := make([]string, 0, len(matches))
	for id := range matches {
		ids = append(ids, id)
	}
	model.SortMatchIDs(ids)

	rows := make([]RawRow, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, Raw(teamID, id, matches[id]))
	}
	return rows
}

// RobotErrors joins, sorted and comma-separated, the names in an error map
// whose value is boolean true. Entries of any other type are skipped.
func RobotErrors(v tagged.Value) string {
	var names []string
	for _, name := range v.Keys() {
		if b, ok := v.Fields()[name].Bool(); ok && b {
			names = append(names, name)
		}
	}
	return strings.Join(names, ", ")
}

// RawColumns lists every column present in rows: those named in order first,
// in that order, then the rest sorted.
func RawColumns(rows []RawRow, order []string) []string {
	present := make(map[string]bool)
	for _, r := range rows {
		for k := range r {
			present[k] = true
		}
	}

	cols := make([]string, 0, len(present))
	listed := make(map[string]bool, len(order))
	for _, c := range order {
		if present[c] && !listed[c] {
			cols = append(cols, c)
		}
		listed[c] = true
	}
	var rest []string
	for c := range present {
		if !listed[c] {
			rest = append(rest, c)
		}
	}
	sort.Strings(rest)
	return append(cols, rest...)
}
