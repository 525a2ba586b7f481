// Package snapshot reads and writes the fetched-data hand-off file:
//
//	{"team": ["118", "254"], "root": {"254": {"1": {"autoFuel": 4, ...}}}}
//
// Field values are stored with their tagged wrappers stripped. Paths ending in
// ".zst" are zstd-compressed.
package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/frcscout/fuelscout/internal/tagged"
	"github.com/frcscout/fuelscout/internal/tree"
)

// File is the on-disk snapshot.
type File struct {
	Team TeamList                             `json:"team"`
	Root map[string]map[string]map[string]any `json:"root"`
}

// TeamList is the ordered team list. Older files store team numbers as JSON
// numbers; both forms decode to strings.
type TeamList []string

// UnmarshalJSON accepts an array of strings or numbers.
func (l *TeamList) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("team list: %w", err)
	}
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		var s string
		if err := json.Unmarshal(r, &s); err == nil {
			out = append(out, s)
			continue
		}
		var n json.Number
		if err := json.Unmarshal(r, &n); err != nil {
			return fmt.Errorf("team list entry %s: %w", r, err)
		}
		out = append(out, n.String())
	}
	*l = out
	return nil
}

// FromResult converts a fetch result into its on-disk form.
func FromResult(res *tree.Result) *File {
	f := &File{
		Team: append([]string(nil), res.Teams...),
		Root: make(map[string]map[string]map[string]any, len(res.Root)),
	}
	for team, matches := range res.Root {
		out := make(map[string]map[string]any, len(matches))
		for match, fields := range matches {
			native := make(map[string]any, len(fields))
			for k, v := range fields {
				native[k] = v.Native()
			}
			out[match] = native
		}
		f.Root[team] = out
	}
	return f
}

// Matches returns the decoded fields of every match for team. Plain JSON
// values go back through the tagged decoder so callers see the same types as
// after a live fetch.
func (f *File) Matches(team string) map[string]map[string]tagged.Value {
	src := f.Root[team]
	out := make(map[string]map[string]tagged.Value, len(src))
	for match, fields := range src {
		out[match] = tagged.DecodeFields(fields)
	}
	return out
}

// Teams returns the ordered team list, falling back to the root keys when the
// list is absent.
func (f *File) Teams() []string {
	if len(f.Team) > 0 {
		return []string(f.Team)
	}
	teams := make([]string, 0, len(f.Root))
	for t := range f.Root {
		teams = append(teams, t)
	}
	sort.Strings(teams)
	return teams
}

// MatchCount is the number of (team, match) entries.
func (f *File) MatchCount() int {
	n := 0
	for _, m := range f.Root {
		n += len(m)
	}
	return n
}

// Write stores f at path, creating parent directories.
func Write(path string, f *File) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create snapshot dir: %w", err)
		}
	}
	data, err := json.MarshalIndent(f, "", "    ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if compressed(path) {
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return fmt.Errorf("zstd writer: %w", err)
		}
		data = enc.EncodeAll(data, nil)
		enc.Close()
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// Read loads a snapshot from path.
func Read(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer fh.Close()

	var r io.Reader = fh
	if compressed(path) {
		dec, err := zstd.NewReader(fh)
		if err != nil {
			return nil, fmt.Errorf("zstd reader: %w", err)
		}
		defer dec.Close()
		r = dec
	}
	return Decode(r)
}

// Decode parses a snapshot from r. Numbers keep their integer/float identity.
func Decode(r io.Reader) (*File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var f File
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if f.Root == nil {
		f.Root = map[string]map[string]map[string]any{}
	}
	return &f, nil
}

func compressed(path string) bool {
	return strings.HasSuffix(path, ".zst")
}
