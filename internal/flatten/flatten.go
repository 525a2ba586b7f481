// Package flatten turns one decoded scouting document into a flat MatchRecord,
// resolving which shift phases count as the first and second active-hub windows.
package flatten

import (
	"github.com/frcscout/fuelscout/internal/model"
	"github.com/frcscout/fuelscout/internal/tagged"
)

// ShiftRole picks between two shifts for one active-hub role: Primary when
// its shift{Primary}HubActive flag is set, Alternate otherwise.
type ShiftRole struct {
	Primary   int
	Alternate int
}

// Layout is the season's shift arrangement.
type Layout struct {
	FirstActive  ShiftRole
	SecondActive ShiftRole
}

// DefaultLayout is shift 1 else 2 for the first window, shift 3 else 4 for the second.
var DefaultLayout = Layout{
	FirstActive:  ShiftRole{Primary: 1, Alternate: 2},
	SecondActive: ShiftRole{Primary: 3, Alternate: 4},
}

// ResolveShift returns the shift index that fills role for this match. It
// reads only the given fields.
func ResolveShift(role ShiftRole, fields map[string]tagged.Value) int {
	if fields[model.ShiftActiveField(role.Primary)].Truthy() {
		return role.Primary
	}
	return role.Alternate
}

// Flattener converts decoded documents into MatchRecords.
type Flattener struct {
	layout  Layout
	tracked []string
}

// New returns a Flattener for the given layout. tracked lists extra fields
// that must be present (as 0) on every record.
func New(layout Layout, tracked []string) *Flattener {
	return &Flattener{layout: layout, tracked: tracked}
}

// Flatten builds the record for one (team, match) pair. Every source field is
// kept in native form; phase and tracked fields missing from the source are 0.
func (f *Flattener) Flatten(teamID, matchID string, fields map[string]tagged.Value) model.MatchRecord {
	out := make(map[string]any, len(fields)+len(f.tracked)+8)
	for k, v := range fields {
		out[k] = v.Native()
	}

	num := func(name string) float64 { return fields[name].Number() }

	for n := 1; n <= model.ShiftCount; n++ {
		setDefault(out, model.ShiftFuelField(n))
	}
	for _, name := range []string{model.FieldAutoFuel, model.FieldTransitionFuel, model.FieldEndgameFuel} {
		setDefault(out, name)
	}

	first := ResolveShift(f.layout.FirstActive, fields)
	second := ResolveShift(f.layout.SecondActive, fields)
	firstFuel := num(model.ShiftFuelField(first))
	secondFuel := num(model.ShiftFuelField(second))

	out[model.FieldFirstActiveShift] = int64(first)
	out[model.FieldSecondActiveShift] = int64(second)
	out[model.FieldFirstActiveFuel] = firstFuel
	out[model.FieldSecondActiveFuel] = secondFuel
	out[model.FieldTotalFuel] = num(model.FieldAutoFuel) +
		num(model.FieldTransitionFuel) +
		num(model.FieldEndgameFuel) +
		firstFuel + secondFuel

	for _, name := range f.tracked {
		setDefault(out, name)
	}
	out[model.FieldTeamID] = teamID
	out[model.FieldMatchID] = matchID

	return model.MatchRecord{TeamID: teamID, MatchID: matchID, Fields: out}
}

// FlattenTeam flattens every match of one team, in match id order.
func (f *Flattener) FlattenTeam(teamID string, matches map[string]map[string]tagged.Value) []model.MatchRecord {
	ids := make([]string, 0, len(matches))
	for id := range matches {
		ids = append(ids, id)
	}
	model.SortMatchIDs(ids)

	records := make([]model.MatchRecord, 0, len(ids))
	for _, id := range ids {
		records = append(records, f.Flatten(teamID, id, matches[id]))
	}
	return records
}

// setDefault stores int64(0) under name unless a value is already present.
func setDefault(m map[string]any, name string) {
	if v, ok := m[name]; ok && v != nil {
		return
	}
	m[name] = int64(0)
}
