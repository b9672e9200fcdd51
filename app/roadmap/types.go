package roadmap

// Board types

type BoardItem struct {
	Status string
	Title  string
	Repo   string // "owner/repo"
	Number int
}

// Issue types

type ChildKind string

const (
	ChildKindIssue       ChildKind = "issue"
	ChildKindPullRequest ChildKind = "pull_request"
)

type ChildRef struct {
	Number    int
	Title     string
	URL       string
	State     string
	Repo      string
	UpdatedAt string
	Kind      ChildKind
}

type Issue struct {
	Title       string
	Body        string
	URL         string
	Labels      []string
	UpdatedAt   string // ISO-8601 as returned by the API
	ClosedAt    string
	State       string // OPEN, CLOSED
	StateReason string // COMPLETED, NOT_PLANNED, DUPLICATE, REOPENED
	Children    []ChildRef
}

// Initiative is an Issue that passed the classifier, enriched for rendering.
type Initiative struct {
	Issue

	Status           string
	Repo             string
	Number           int
	OriginalTitle    string
	DisplayTitle     string
	Filename         string
	ShortDescription string
	FundingLabels    []string
}

// Configuration types

type Config struct {
	Organization     string         `yaml:"organization"`
	ProjectNumber    int            `yaml:"project_number"`
	StatusField      string         `yaml:"status_field"`
	Columns          ConfigColumns  `yaml:"columns"`
	Markers          []string       `yaml:"markers"`
	PrefilterByTitle *bool          `yaml:"prefilter_by_title"`
	SkipStateReasons []string       `yaml:"skip_state_reasons"`
	DescriptionWords int            `yaml:"description_words"`
	Funding          []FundingLabel `yaml:"funding"`
	DefaultRepo      string         `yaml:"default_repo"`
}

type ConfigColumns struct {
	Upcoming string `yaml:"upcoming"`
	InFlight string `yaml:"in_flight"`
	Done     string `yaml:"done"`
}

type FundingLabel struct {
	Keyword string `yaml:"keyword"`
	Display string `yaml:"display"`
}
