package roadmap

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultOrganization     = "2i2c-org"
	DefaultProjectNumber    = 57
	DefaultStatusField      = "Status"
	DefaultDescriptionWords = 150
	DefaultRepo             = "2i2c-org/infrastructure"
)

func DefaultConfig() *Config {
	prefilter := true
	return &Config{
		Organization:  DefaultOrganization,
		ProjectNumber: DefaultProjectNumber,
		StatusField:   DefaultStatusField,
		Columns: ConfigColumns{
			Upcoming: "Upcoming P&S initiatives",
			InFlight: "P&S Initiatives in flight",
			Done:     "Done",
		},
		Markers:          []string{"platform", "initiative"},
		PrefilterByTitle: &prefilter,
		SkipStateReasons: []string{"NOT_PLANNED", "DUPLICATE"},
		DescriptionWords: DefaultDescriptionWords,
		Funding: []FundingLabel{
			{Keyword: "negotiating funding", Display: "Negotiating funding"},
			{Keyword: "co-funded", Display: "Co-funded"},
			{Keyword: "not yet funded", Display: "Not yet funded"},
		},
		DefaultRepo: DefaultRepo,
	}
}

// LoadConfig reads the board configuration from path. A missing file yields
// the built-in defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		slog.Debug("Board configuration not found, using defaults", "path", path)
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	config, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	slog.Debug("Board configuration loaded", "path", path, "organization", config.Organization, "project", config.ProjectNumber)

	return config, nil
}

func ParseConfig(data []byte) (*Config, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	applyDefaults(&config)

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func applyDefaults(config *Config) {
	defaults := DefaultConfig()

	if config.Organization == "" {
		config.Organization = defaults.Organization
	}
	if config.ProjectNumber == 0 {
		config.ProjectNumber = defaults.ProjectNumber
	}
	if config.StatusField == "" {
		config.StatusField = defaults.StatusField
	}
	if config.Columns.Upcoming == "" {
		config.Columns.Upcoming = defaults.Columns.Upcoming
	}
	if config.Columns.InFlight == "" {
		config.Columns.InFlight = defaults.Columns.InFlight
	}
	if config.Columns.Done == "" {
		config.Columns.Done = defaults.Columns.Done
	}
	if len(config.Markers) == 0 {
		config.Markers = defaults.Markers
	}
	if config.PrefilterByTitle == nil {
		config.PrefilterByTitle = defaults.PrefilterByTitle
	}
	if config.SkipStateReasons == nil {
		config.SkipStateReasons = defaults.SkipStateReasons
	}
	if config.DescriptionWords == 0 {
		config.DescriptionWords = defaults.DescriptionWords
	}
	if config.Funding == nil {
		config.Funding = defaults.Funding
	}
	if config.DefaultRepo == "" {
		config.DefaultRepo = defaults.DefaultRepo
	}
}

func validateConfig(config *Config) error {
	if config.ProjectNumber < 0 {
		return fmt.Errorf("project number must be positive")
	}
	if config.DescriptionWords < 0 {
		return fmt.Errorf("description words must be non-negative")
	}

	columns := map[string]string{
		"upcoming":  config.Columns.Upcoming,
		"in_flight": config.Columns.InFlight,
		"done":      config.Columns.Done,
	}
	seen := make(map[string]string, len(columns))
	for name, value := range columns {
		if other, ok := seen[value]; ok {
			return fmt.Errorf("columns %s and %s share the status %q", other, name, value)
		}
		seen[value] = name
	}

	for i, marker := range config.Markers {
		if strings.TrimSpace(marker) == "" {
			return fmt.Errorf("marker at index %d is empty", i)
		}
	}

	for i, label := range config.Funding {
		if strings.TrimSpace(label.Keyword) == "" || strings.TrimSpace(label.Display) == "" {
			return fmt.Errorf("funding label at index %d must have a keyword and a display name", i)
		}
	}

	if !strings.Contains(config.DefaultRepo, "/") {
		return fmt.Errorf("default repo must be in owner/repo form: %s", config.DefaultRepo)
	}

	return nil
}

func (c *Config) Prefilter() bool {
	return c.PrefilterByTitle == nil || *c.PrefilterByTitle
}

// ColumnNames returns the recognized statuses in board order.
func (c *Config) ColumnNames() []string {
	return []string{c.Columns.Upcoming, c.Columns.InFlight, c.Columns.Done}
}
