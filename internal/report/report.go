package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/frcscout/fuelscout/internal/flatten"
	"github.com/frcscout/fuelscout/internal/model"
	"github.com/frcscout/fuelscout/internal/schedule"
	"github.com/frcscout/fuelscout/internal/storage"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
}

// PrintRunSummary prints how much of the tree a fetch or load produced.
// processed counts the teams that came back without a node failure.
func PrintRunSummary(w io.Writer, source string, teams, processed, matches, failures int) {
	fmt.Fprintf(w, "\nSource: %s  |  Teams: %d (%d processed)  |  Matches: %d  |  Unreachable nodes: %d\n\n",
		source, teams, processed, matches, failures)
}

// PrintTeamTable prints one row per team with entry count and per-field averages.
// If focusTeam is non-empty, that team's row is marked with ">".
func PrintTeamTable(w io.Writer, stats []model.TeamStatistics, tracked []string, focusTeam string) {
	table := newTable(w)

	header := []any{" ", "TEAM", "ENTRIES"}
	for _, f := range tracked {
		header = append(header, columnName(f))
	}
	table.Header(header...)

	for _, s := range stats {
		marker := " "
		if focusTeam != "" && s.TeamID == focusTeam {
			marker = ">"
		}
		row := []any{marker, s.TeamID, strconv.Itoa(s.Entries)}
		for _, f := range tracked {
			row = append(row, fmt.Sprintf("%.2f", s.Average(f)))
		}
		table.Append(row...)
	}
	table.Render()
}

// PrintEstimateTable prints the running win estimate, one row per home match.
func PrintEstimateTable(w io.Writer, home string, estimates []model.MatchEstimate) {
	fmt.Fprintf(w, "\nWin estimate for team %s vs. field\n\n", home)
	table := newTable(w)
	table.Header("MATCH", "HOME", "FIELD", "DIFF", "N", "MEAN", "STDDEV", "WIN%")
	for _, e := range estimates {
		table.Append(
			e.MatchID,
			fmt.Sprintf("%.1f", e.HomeTotal),
			fmt.Sprintf("%.1f", e.OpponentTotal),
			fmt.Sprintf("%+.1f", e.HomeTotal-e.OpponentTotal),
			strconv.Itoa(e.Samples),
			fmt.Sprintf("%.2f", e.Mean),
			fmt.Sprintf("%.2f", e.StdDev),
			fmt.Sprintf("%.1f%%", e.WinProbability),
		)
	}
	table.Render()
}

// PrintScheduleTable prints qualification matches with scouts and coverage.
func PrintScheduleTable(w io.Writer, rows []schedule.Row) {
	table := newTable(w)
	table.Header("MATCH", "TIME", "RED", "BLUE", "SCOUTS", "MISSING")
	for _, r := range rows {
		var red, blue, scouts []string
		for _, s := range r.Slots {
			team := s.Team
			if !s.Scouted {
				team += "*"
			}
			if s.Red {
				red = append(red, team)
			} else {
				blue = append(blue, team)
			}
			scouts = append(scouts, s.Scout)
		}
		when := "-"
		if !r.Time.IsZero() {
			when = r.Time.Format("15:04")
		}
		table.Append(
			strconv.Itoa(r.MatchNumber),
			when,
			strings.Join(red, " "),
			strings.Join(blue, " "),
			strings.Join(scouts, " "),
			strconv.Itoa(r.Missing()),
		)
	}
	table.Render()
	fmt.Fprintln(w, "* no scouting data for this team in this match")
}

// PrintRecordTable prints archived records for one team.
func PrintRecordTable(w io.Writer, records []model.MatchRecord, fields []string) {
	table := newTable(w)
	header := []any{"MATCH", "SHIFTS"}
	for _, f := range fields {
		header = append(header, columnName(f))
	}
	table.Header(header...)
	for _, r := range records {
		row := []any{
			r.MatchID,
			fmt.Sprintf("%.0f/%.0f", r.Number(model.FieldFirstActiveShift), r.Number(model.FieldSecondActiveShift)),
		}
		for _, f := range fields {
			row = append(row, fmt.Sprintf("%.1f", r.Number(f)))
		}
		table.Append(row...)
	}
	table.Render()
}

// PrintRawTable prints raw scouting rows with the given columns. Cells a row
// lacks are left blank.
func PrintRawTable(w io.Writer, columns []string, rows []flatten.RawRow) {
	table := newTable(w)
	header := make([]any, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	table.Header(header...)
	for _, r := range rows {
		row := make([]any, len(columns))
		for i, c := range columns {
			row[i] = rawCell(r[c])
		}
		table.Append(row...)
	}
	table.Render()
}

func rawCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}

// PrintArchiveTable prints the teams stored in the archive.
func PrintArchiveTable(w io.Writer, teams []storage.TeamSummary) {
	table := newTable(w)
	table.Header("TEAM", "MATCHES", "TOTAL_FUEL", "AVG_TOTAL")
	for _, t := range teams {
		avg := 0.0
		if t.Matches > 0 {
			avg = t.TotalFuel / float64(t.Matches)
		}
		table.Append(t.TeamID, strconv.Itoa(t.Matches), fmt.Sprintf("%.1f", t.TotalFuel), fmt.Sprintf("%.2f", avg))
	}
	table.Render()
}

// columnName turns "firstActiveFuel" into "FIRST_ACTIVE_FUEL".
func columnName(field string) string {
	var b strings.Builder
	for i, r := range field {
		if i > 0 && r >= 'A' && r <= 'Z' {
			b.WriteByte('_')
		}
		b.WriteRune(r)
	}
	return strings.ToUpper(b.String())
}
