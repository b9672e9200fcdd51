package cfg

import "time"

const (
	CommandSync        = "sync"
	CommandActivityLog = "activity-log"
	CommandServe       = "serve"
)

type Cfg struct {
	// Subcommand to run; sync when none was given
	Command string

	// Inputs and outputs
	ConfigPath  string
	DocsDir     string
	TemplateDir string
	HistoryDB   string

	// GitHub access
	GitHubToken  string
	GitHubAPIURL string

	// Preview server
	Port         string
	SyncInterval time.Duration
	APIAccessKey string

	NoProgress bool
	Debug      bool
	Version    string
}
