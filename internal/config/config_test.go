package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	p := filepath.Join(dir, "fuelscout.yaml")
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return p
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Firestore.Root != DefaultRoot {
		t.Errorf("root: got %q, want %q", cfg.Firestore.Root, DefaultRoot)
	}
	if cfg.Layout.FirstActive.Alternate != 2 || cfg.Layout.SecondActive.Alternate != 4 {
		t.Errorf("layout defaults: got %+v", cfg.Layout)
	}
	if len(cfg.TrackedFields) == 0 {
		t.Error("tracked fields should default to the model list")
	}
}

func TestLoad_Full(t *testing.T) {
	p := writeConfig(t, `firestore:
  project: scouting-2026
  root: seasons/2026/teams
fetch:
  concurrency: 2
  timeout: 5s
layout:
  first_active: {primary: 2, alternate: 1}
  second_active: {primary: 4, alternate: 3}
home_team: "1234"
event: 2026mabos
tracked_fields: [autoFuel, totalFuel]
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Firestore.Project != "scouting-2026" {
		t.Errorf("project: got %q", cfg.Firestore.Project)
	}
	if cfg.Firestore.Database != DefaultDatabase {
		t.Errorf("database default lost: got %q", cfg.Firestore.Database)
	}
	if cfg.Fetch.Timeout != 5*time.Second {
		t.Errorf("timeout: got %v", cfg.Fetch.Timeout)
	}
	if cfg.Fetch.MaxDepth != DefaultMaxDepth {
		t.Errorf("max_depth default lost: got %d", cfg.Fetch.MaxDepth)
	}
	if cfg.Layout.FirstActive.Primary != 2 || cfg.Layout.FirstActive.Alternate != 1 {
		t.Errorf("first_active: got %+v", cfg.Layout.FirstActive)
	}
	if cfg.HomeTeam != "1234" || cfg.Event != "2026mabos" {
		t.Errorf("home/event: got %q/%q", cfg.HomeTeam, cfg.Event)
	}
	if len(cfg.TrackedFields) != 2 {
		t.Errorf("tracked_fields: got %v", cfg.TrackedFields)
	}
}

func TestLoad_TrackedFieldsKeepTotal(t *testing.T) {
	cfg, err := Load(writeConfig(t, "tracked_fields: [autoFuel, endgameFuel]\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := []string{"autoFuel", "endgameFuel", "totalFuel"}
	if len(cfg.TrackedFields) != len(want) {
		t.Fatalf("tracked_fields: got %v, want %v", cfg.TrackedFields, want)
	}
	for i := range want {
		if cfg.TrackedFields[i] != want[i] {
			t.Errorf("tracked_fields[%d]: got %q, want %q", i, cfg.TrackedFields[i], want[i])
		}
	}
}

func TestLoad_Invalid(t *testing.T) {
	cases := []struct {
		name, yaml, wantErr string
	}{
		{"shift out of range", "layout:\n  first_active: {primary: 1, alternate: 5}\n", "layout.first_active"},
		{"zero concurrency", "fetch:\n  concurrency: 0\n", "fetch.concurrency"},
		{"empty tracked", "tracked_fields: []\n", "tracked_fields"},
		{"bad rotation", "scouting:\n  rotation: [0, 7]\n", "scouting.rotation"},
		{"bad yaml", "fetch: [\n", "parse yaml"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, c.yaml))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), c.wantErr) {
				t.Errorf("error %q does not mention %q", err, c.wantErr)
			}
		})
	}
}
