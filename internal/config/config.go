// Package config loads the season configuration for fuelscout from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/frcscout/fuelscout/internal/model"
)

// Default values for the configuration.
const (
	DefaultBaseURL     = "https://firestore.googleapis.com/v1"
	DefaultDatabase    = "(default)"
	DefaultRoot        = "teams"
	DefaultPageSize    = 300
	DefaultConcurrency = 8
	DefaultTimeout     = 30 * time.Second
	DefaultMaxDepth    = 4
)

// Config is the root of fuelscout.yaml.
type Config struct {
	Firestore FirestoreConfig `yaml:"firestore"`
	Fetch     FetchConfig     `yaml:"fetch"`
	Layout    LayoutConfig    `yaml:"layout"`

	// TrackedFields are the record fields averaged per team.
	TrackedFields []string `yaml:"tracked_fields"`

	// RawColumns orders the columns of the raw record view.
	RawColumns []string `yaml:"raw_columns"`

	// HomeTeam is the reference team for the win estimate.
	HomeTeam string `yaml:"home_team"`

	// Event is The Blue Alliance event key (e.g. "2025necmp2").
	Event string `yaml:"event"`

	Scouting ScoutingConfig `yaml:"scouting"`
}

// FirestoreConfig locates the scouting data.
type FirestoreConfig struct {
	Project  string `yaml:"project"`
	Database string `yaml:"database"`
	// Root is the collection path holding one document per team.
	Root     string `yaml:"root"`
	BaseURL  string `yaml:"base_url"`
	PageSize int    `yaml:"page_size"`
}

// FetchConfig bounds the tree walk.
type FetchConfig struct {
	Concurrency int           `yaml:"concurrency"`
	Timeout     time.Duration `yaml:"timeout"`
	MaxDepth    int           `yaml:"max_depth"`
}

// LayoutConfig says which shift fills each active-hub role. The flag checked
// for a role is shift{primary}HubActive.
type LayoutConfig struct {
	FirstActive  ShiftRoleConfig `yaml:"first_active"`
	SecondActive ShiftRoleConfig `yaml:"second_active"`
}

// ShiftRoleConfig is a primary shift and the shift used when it is inactive.
type ShiftRoleConfig struct {
	Primary   int `yaml:"primary"`
	Alternate int `yaml:"alternate"`
}

// ScoutingConfig drives scout assignment for the schedule view.
type ScoutingConfig struct {
	// Groups are the scout crews; each crew covers the six robots of a match.
	Groups [][]string `yaml:"groups"`
	// Rotation is the sequence of group indexes assigned to consecutive matches.
	Rotation []int `yaml:"rotation"`
}

// Load reads and parses the config file at path. A missing file yields the
// defaults so the tool runs with flags and environment alone.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}
	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg.TrackedFields = withTotal(cfg.TrackedFields)
	return cfg, nil
}

// withTotal appends totalFuel when an override leaves it out; every
// aggregate carries it.
func withTotal(fields []string) []string {
	for _, f := range fields {
		if f == model.FieldTotalFuel {
			return fields
		}
	}
	return append(fields, model.FieldTotalFuel)
}

// Defaults returns a Config pre-populated with default values.
func Defaults() *Config {
	return &Config{
		Firestore: FirestoreConfig{
			Database: DefaultDatabase,
			Root:     DefaultRoot,
			BaseURL:  DefaultBaseURL,
			PageSize: DefaultPageSize,
		},
		Fetch: FetchConfig{
			Concurrency: DefaultConcurrency,
			Timeout:     DefaultTimeout,
			MaxDepth:    DefaultMaxDepth,
		},
		Layout: LayoutConfig{
			FirstActive:  ShiftRoleConfig{Primary: 1, Alternate: 2},
			SecondActive: ShiftRoleConfig{Primary: 3, Alternate: 4},
		},
		TrackedFields: append([]string(nil), model.DefaultTrackedFields...),
		RawColumns:    append([]string(nil), model.DefaultRawColumns...),
		Scouting: ScoutingConfig{
			Groups: [][]string{
				{"a", "b", "c", "d", "e", "f"},
				{"g", "h", "i", "j", "k", "l"},
				{"m", "n", "o", "p", "q", "r"},
			},
			Rotation: []int{0, 1, 2, 1, 2, 1, 0},
		},
	}
}

// validate checks structural constraints on the parsed configuration.
func validate(cfg *Config) error {
	for name, role := range map[string]ShiftRoleConfig{
		"layout.first_active":  cfg.Layout.FirstActive,
		"layout.second_active": cfg.Layout.SecondActive,
	} {
		if !validShift(role.Primary) || !validShift(role.Alternate) {
			return fmt.Errorf("%s shifts %d/%d out of range [1, %d]",
				name, role.Primary, role.Alternate, model.ShiftCount)
		}
	}
	if cfg.Fetch.Concurrency <= 0 {
		return fmt.Errorf("fetch.concurrency must be positive, got %d", cfg.Fetch.Concurrency)
	}
	if cfg.Fetch.Timeout < 0 {
		return fmt.Errorf("fetch.timeout must not be negative")
	}
	if cfg.Fetch.MaxDepth <= 0 {
		return fmt.Errorf("fetch.max_depth must be positive, got %d", cfg.Fetch.MaxDepth)
	}
	if cfg.Firestore.PageSize <= 0 {
		return fmt.Errorf("firestore.page_size must be positive, got %d", cfg.Firestore.PageSize)
	}
	if len(cfg.TrackedFields) == 0 {
		return fmt.Errorf("tracked_fields must not be empty")
	}
	for _, idx := range cfg.Scouting.Rotation {
		if idx < 0 || idx >= len(cfg.Scouting.Groups) {
			return fmt.Errorf("scouting.rotation index %d has no matching group", idx)
		}
	}
	for i, g := range cfg.Scouting.Groups {
		if len(g) == 0 {
			return fmt.Errorf("scouting.groups[%d] is empty", i)
		}
	}
	return nil
}

func validShift(n int) bool { return n >= 1 && n <= model.ShiftCount }
