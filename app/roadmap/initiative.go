package roadmap

import (
	"fmt"
	"strings"
)

// Filename derives the page name from the issue identity, never from its
// title: two initiatives may share a cleaned title.
func Filename(repo string, number int) string {
	return fmt.Sprintf("issue-%s-%d", strings.ReplaceAll(repo, "/", "-"), number)
}

// FundingLabels maps labels onto the configured funding display names. Each
// label contributes at most one name; unrelated labels are dropped.
func FundingLabels(labels []string, funding []FundingLabel) []string {
	filtered := make([]string, 0)
	for _, label := range labels {
		lower := strings.ToLower(label)
		for _, f := range funding {
			if strings.Contains(lower, strings.ToLower(f.Keyword)) {
				filtered = append(filtered, f.Display)
				break
			}
		}
	}
	return filtered
}

// NewInitiative enriches a fetched issue with the derived display fields.
func NewInitiative(item BoardItem, issue *Issue, config *Config) *Initiative {
	initiative := &Initiative{
		Issue:         *issue,
		Status:        item.Status,
		Repo:          item.Repo,
		Number:        item.Number,
		OriginalTitle: issue.Title,
		DisplayTitle:  CleanTitle(issue.Title),
		Filename:      Filename(item.Repo, item.Number),
	}

	initiative.Body = RemoveDefinitionOfDone(issue.Body)
	initiative.ShortDescription = ShortDescription(initiative.Body, config.DescriptionWords)
	initiative.FundingLabels = FundingLabels(issue.Labels, config.Funding)

	return initiative
}

func (i *Initiative) IssueRef() string {
	return fmt.Sprintf("%s#%d", i.Repo, i.Number)
}

func (i *Initiative) IsClosed() bool {
	return strings.EqualFold(i.State, "CLOSED")
}

// ShouldSkip reports whether the close reason excludes the issue from the
// roadmap, e.g. issues closed as duplicates.
func ShouldSkip(issue *Issue, config *Config) bool {
	for _, reason := range config.SkipStateReasons {
		if issue.StateReason != "" && strings.EqualFold(issue.StateReason, reason) {
			return true
		}
	}
	return false
}

// SplitRepo splits "owner/repo" into its parts.
func SplitRepo(repo string) (string, string, error) {
	owner, name, ok := strings.Cut(repo, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return "", "", fmt.Errorf("invalid repository %q: expected owner/repo", repo)
	}
	return owner, name, nil
}

// Buckets groups initiatives by column, keeping board order within each.
type Buckets struct {
	InFlight []*Initiative
	Upcoming []*Initiative
	Done     []*Initiative
}

func GroupByStatus(initiatives []*Initiative, config *Config) Buckets {
	var buckets Buckets
	for _, initiative := range initiatives {
		switch initiative.Status {
		case config.Columns.InFlight:
			buckets.InFlight = append(buckets.InFlight, initiative)
		case config.Columns.Upcoming:
			buckets.Upcoming = append(buckets.Upcoming, initiative)
		case config.Columns.Done:
			buckets.Done = append(buckets.Done, initiative)
		}
	}
	SortByClosedDesc(buckets.Done)
	return buckets
}
