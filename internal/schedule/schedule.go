// Package schedule builds the qualification schedule with scout assignments
// and checks which robot slots have scouting data.
package schedule

import (
	"sort"
	"time"

	"github.com/frcscout/fuelscout/internal/tba"
)

// RobotsPerMatch is the number of robot slots (three per alliance).
const RobotsPerMatch = 6

// Slot is one robot in one match.
type Slot struct {
	Team    string
	Red     bool
	Scout   string
	Scouted bool
}

// Row is one qualification match.
type Row struct {
	MatchNumber int
	Time        time.Time
	Slots       []Slot
}

// Missing counts slots without scouting data.
func (r Row) Missing() int {
	n := 0
	for _, s := range r.Slots {
		if !s.Scouted {
			n++
		}
	}
	return n
}

// Rotation assigns scout crews to consecutive matches.
type Rotation struct {
	Groups [][]string
	Order  []int
}

// scouts returns the crew for the i-th kept match (0-based).
func (r Rotation) scouts(i int) []string {
	out := make([]string, RobotsPerMatch)
	if len(r.Order) == 0 {
		return out
	}
	g := r.Order[i%len(r.Order)]
	if g < 0 || g >= len(r.Groups) || len(r.Groups[g]) == 0 {
		return out
	}
	group := r.Groups[g]
	for j := range out {
		out[j] = group[j%len(group)]
	}
	return out
}

// Scouted reports whether data exists for team in the given match number.
type Scouted func(team string, matchNumber int) bool

// Build keeps qualification matches, sorts them by match number, drops
// duplicate numbers, and fills scouts and coverage for each robot slot.
func Build(matches []tba.Match, rot Rotation, scouted Scouted) []Row {
	quals := make([]tba.Match, 0, len(matches))
	for _, m := range matches {
		if m.CompLevel == "qm" {
			quals = append(quals, m)
		}
	}
	sort.SliceStable(quals, func(i, j int) bool { return quals[i].MatchNumber < quals[j].MatchNumber })

	seen := make(map[int]bool, len(quals))
	rows := make([]Row, 0, len(quals))
	for _, m := range quals {
		if seen[m.MatchNumber] {
			continue
		}
		seen[m.MatchNumber] = true

		crew := rot.scouts(len(rows))
		row := Row{MatchNumber: m.MatchNumber}
		if m.ActualTime > 0 {
			row.Time = time.Unix(m.ActualTime, 0)
		}
		add := func(keys []string, red bool) {
			for _, k := range keys {
				team := tba.TeamNumber(k)
				slot := Slot{Team: team, Red: red}
				if idx := len(row.Slots); idx < len(crew) {
					slot.Scout = crew[idx]
				}
				if scouted != nil {
					slot.Scouted = scouted(team, m.MatchNumber)
				}
				row.Slots = append(row.Slots, slot)
			}
		}
		add(m.Alliances.Red.TeamKeys, true)
		add(m.Alliances.Blue.TeamKeys, false)
		rows = append(rows, row)
	}
	return rows
}
