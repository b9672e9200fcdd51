package cfg

import (
	"cmp"
	"errors"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	ConfigPath  string `long:"config" env:"ROADMAP_CONFIG" default:"roadmap.yml" description:"Board configuration file (YAML)"`
	DocsDir     string `long:"docs-dir" env:"DOCS_DIR" default:"docs" description:"Root of the generated documentation"`
	TemplateDir string `long:"template-dir" env:"TEMPLATE_DIR" description:"Directory with a custom initiative.md.tmpl (embedded template if empty)"`
	HistoryDB   string `long:"history-db" env:"HISTORY_DB" description:"SQLite file recording sync runs (history disabled if empty)"`

	GitHubToken  string `long:"github-token" env:"GITHUB_TOKEN" description:"GitHub token; the gh CLI is used when empty"`
	GitHubAPIURL string `long:"github-api-url" env:"GITHUB_API_URL" description:"GitHub API base URL (e.g., https://github.example.com/api/v3/)"`

	Port         string        `long:"port" env:"PORT" default:"8080" description:"Preview server port"`
	SyncInterval time.Duration `long:"sync-interval" env:"SYNC_INTERVAL" default:"0" description:"Periodic sync interval for serve (e.g., 30m); 0 disables"`
	APIAccessKey string        `long:"api-key" env:"API_ACCESS_KEY" description:"API access key protecting POST endpoints (optional)"`

	NoProgress bool `long:"no-progress" env:"NO_PROGRESS" description:"Disable the progress bar"`
	Debug      bool `long:"debug" env:"DEBUG" description:"Enable debug logging"`

	Sync        struct{} `command:"sync" description:"Generate initiative pages and roadmap tables (default)"`
	ActivityLog struct{} `command:"activity-log" description:"Generate the activity log from existing initiative pages"`
	Serve       struct{} `command:"serve" description:"Serve the docs directory and sync in the background"`
}

var globalCfg *Cfg

// Load parses args and the environment. It returns nil, nil when help was
// requested.
func Load(args []string) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)
	parser.SubcommandsOptional = true

	rest, err := parser.ParseArgs(args)
	if err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if len(rest) > 0 {
		return nil, fmt.Errorf("unknown command %q", rest[0])
	}

	command := CommandSync
	if parser.Active != nil {
		command = parser.Active.Name
	}

	if raw.SyncInterval < 0 {
		return nil, fmt.Errorf("sync interval must not be negative, got %s", raw.SyncInterval)
	}

	globalCfg = &Cfg{
		Command:      command,
		ConfigPath:   raw.ConfigPath,
		DocsDir:      raw.DocsDir,
		TemplateDir:  raw.TemplateDir,
		HistoryDB:    raw.HistoryDB,
		GitHubToken:  raw.GitHubToken,
		GitHubAPIURL: raw.GitHubAPIURL,
		Port:         raw.Port,
		SyncInterval: raw.SyncInterval,
		APIAccessKey: raw.APIAccessKey,
		NoProgress:   raw.NoProgress,
		Debug:        raw.Debug,
		Version:      GetVersion(),
	}

	return globalCfg, nil
}

// Reported tells whether go-flags already printed err to stderr.
func Reported(err error) bool {
	var flagsErr *flags.Error
	return errors.As(err, &flagsErr)
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}
