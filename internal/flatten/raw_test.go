package flatten

import (
	"testing"

	"github.com/frcscout/fuelscout/internal/model"
	"github.com/frcscout/fuelscout/internal/tagged"
)

func errorMap(flags map[string]tagged.Value) tagged.Value {
	return tagged.Map(flags)
}

func TestRobotErrors(t *testing.T) {
	cases := []struct {
		name string
		in   tagged.Value
		want string
	}{
		{"only true flags", errorMap(map[string]tagged.Value{
			"tipped":   tagged.Bool(true),
			"brownout": tagged.Bool(true),
			"jammed":   tagged.Bool(false),
		}), "brownout, tipped"},
		{"none flagged", errorMap(map[string]tagged.Value{"jammed": tagged.Bool(false)}), ""},
		{"non-bool skipped", errorMap(map[string]tagged.Value{
			"comms":    tagged.String("true"),
			"disabled": tagged.Integer(1),
			"tipped":   tagged.Bool(true),
		}), "tipped"},
		{"empty map", errorMap(nil), ""},
		{"not a map", tagged.String("tipped"), ""},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := RobotErrors(c.in); got != c.want {
				t.Errorf("RobotErrors = %q, want %q", got, c.want)
			}
		})
	}
}

func TestRaw_CollapsesRobotErrorAndAddsKeys(t *testing.T) {
	fields := map[string]tagged.Value{
		"autoFuel":            tagged.Integer(7),
		"crossedBump":         tagged.Bool(true),
		"notes":               tagged.String("fast cycles"),
		model.FieldRobotError: errorMap(map[string]tagged.Value{
			"brownout": tagged.Bool(true),
			"tipped":   tagged.Bool(false),
		}),
	}
	row := Raw("254", "12", fields)

	if row[RawTeamColumn] != "254" || row[RawMatchColumn] != "12" {
		t.Errorf("keys: team=%v match=%v", row[RawTeamColumn], row[RawMatchColumn])
	}
	if row[model.FieldRobotError] != "brownout" {
		t.Errorf("robotError: got %#v, want \"brownout\"", row[model.FieldRobotError])
	}
	if row["autoFuel"] != int64(7) || row["crossedBump"] != true || row["notes"] != "fast cycles" {
		t.Errorf("native values: %#v", row)
	}
	if _, ok := row[model.FieldTotalFuel]; ok {
		t.Error("raw rows should not carry derived fields")
	}
}

func TestRawTeam_MatchOrder(t *testing.T) {
	rows := RawTeam("118", map[string]map[string]tagged.Value{
		"10": {"autoFuel": tagged.Integer(1)},
		"2":  {"autoFuel": tagged.Integer(2)},
	})
	if len(rows) != 2 || rows[0][RawMatchColumn] != "2" || rows[1][RawMatchColumn] != "10" {
		t.Errorf("rows not in match order: %v", rows)
	}
}

func TestRawColumns(t *testing.T) {
	rows := []RawRow{
		{"team": "1", "match": "1", "zeta": 1, "autoFuel": 3, "notes": ""},
		{"team": "2", "match": "1", "alpha": true, "eventName": "NE"},
	}
	got := RawColumns(rows, model.DefaultRawColumns)
	want := []string{"eventName", "team", "match", "autoFuel", "notes", "alpha", "zeta"}
	if len(got) != len(want) {
		t.Fatalf("columns: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("column %d: got %q, want %q (all %v)", i, got[i], want[i], got)
		}
	}
}
