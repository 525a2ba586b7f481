package storage

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/frcscout/fuelscout/internal/model"
)

// RunSummary describes one archived fetch.
type RunSummary struct {
	ID        int64
	FetchedAt time.Time
	Teams     int
	Processed int // teams fetched without a node failure
	Matches   int
	Failures  int
}

// TeamSummary is one team's archived match count.
type TeamSummary struct {
	TeamID    string
	Matches   int
	TotalFuel float64
}

// InsertRun records a fetch and returns its id.
func (db *DB) InsertRun(r RunSummary) (int64, error) {
	res, err := db.conn.Exec(`
		INSERT INTO fetch_runs(fetched_at, teams, processed, matches, failures) VALUES (?, ?, ?, ?, ?)`,
		r.FetchedAt.UTC().Format(time.RFC3339), r.Teams, r.Processed, r.Matches, r.Failures,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// InsertRecords bulk-inserts match records in a transaction. Uses INSERT OR
// REPLACE so re-archiving a match keeps only the newest copy.
func (db *DB) InsertRecords(runID int64, records []model.MatchRecord) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO match_records(
			team_id, match_id, run_id, total_fuel,
			first_active_shift, second_active_shift, fields_json
		) VALUES (?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range records {
		data, err := json.Marshal(r.Fields)
		if err != nil {
			return fmt.Errorf("encode fields for %s/%s: %w", r.TeamID, r.MatchID, err)
		}
		_, err = stmt.Exec(
			r.TeamID, r.MatchID, nullInt(runID), r.TotalFuel(),
			int(r.Number(model.FieldFirstActiveShift)), int(r.Number(model.FieldSecondActiveShift)),
			string(data),
		)
		if err != nil {
			return fmt.Errorf("insert match_record %s/%s: %w", r.TeamID, r.MatchID, err)
		}
	}
	return tx.Commit()
}

// TeamRecords returns every archived record for a team, in match order.
func (db *DB) TeamRecords(teamID string) ([]model.MatchRecord, error) {
	rows, err := db.conn.Query(`
		SELECT team_id, match_id, fields_json FROM match_records WHERE team_id = ?`, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byMatch := make(map[string]model.MatchRecord)
	var ids []string
	for rows.Next() {
		var r model.MatchRecord
		var fieldsJSON string
		if err := rows.Scan(&r.TeamID, &r.MatchID, &fieldsJSON); err != nil {
			return nil, err
		}
		if r.Fields, err = decodeFields(fieldsJSON); err != nil {
			return nil, fmt.Errorf("decode fields for %s/%s: %w", r.TeamID, r.MatchID, err)
		}
		byMatch[r.MatchID] = r
		ids = append(ids, r.MatchID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	model.SortMatchIDs(ids)
	out := make([]model.MatchRecord, 0, len(ids))
	for _, id := range ids {
		out = append(out, byMatch[id])
	}
	return out, nil
}

// ListTeams returns every archived team with its match count and fuel total.
func (db *DB) ListTeams() ([]TeamSummary, error) {
	rows, err := db.conn.Query(`
		SELECT team_id, COUNT(1), COALESCE(SUM(total_fuel), 0)
		FROM match_records GROUP BY team_id ORDER BY team_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TeamSummary
	for rows.Next() {
		var s TeamSummary
		if err := rows.Scan(&s.TeamID, &s.Matches, &s.TotalFuel); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// LatestRun returns the most recent fetch, or nil if none was archived.
func (db *DB) LatestRun() (*RunSummary, error) {
	var r RunSummary
	var fetchedAt string
	err := db.conn.QueryRow(`
		SELECT id, fetched_at, teams, processed, matches, failures
		FROM fetch_runs ORDER BY id DESC LIMIT 1`).Scan(&r.ID, &fetchedAt, &r.Teams, &r.Processed, &r.Matches, &r.Failures)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if r.FetchedAt, err = time.Parse(time.RFC3339, fetchedAt); err != nil {
		return nil, fmt.Errorf("parse fetched_at %q: %w", fetchedAt, err)
	}
	return &r, nil
}

// decodeFields restores the record's field map. Integral numbers come back as
// int64 and the rest as float64, matching a fresh flatten.
func decodeFields(s string) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	for k, v := range raw {
		raw[k] = nativeNumbers(v)
	}
	return raw, nil
}

func nativeNumbers(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		f, _ := t.Float64()
		return f
	case []any:
		for i := range t {
			t[i] = nativeNumbers(t[i])
		}
		return t
	case map[string]any:
		for k := range t {
			t[k] = nativeNumbers(t[k])
		}
		return t
	default:
		return v
	}
}

func nullInt(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: id > 0}
}
