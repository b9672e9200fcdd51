package render

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lysyi3m/roadmap-sync/app/roadmap"
)

var ErrNoFrontMatter = errors.New("no front-matter found")

// FrontMatter is the metadata block at the top of every initiative page.
// The activity log reads it back, so keys must stay stable.
type FrontMatter struct {
	Title       string   `yaml:"title"`
	Status      string   `yaml:"status"`
	IssueURL    string   `yaml:"issue_url"`
	Repo        string   `yaml:"repo"`
	IssueNumber int      `yaml:"issue_number"`
	State       string   `yaml:"state"`
	UpdatedAt   string   `yaml:"updated_at"`
	ClosedAt    string   `yaml:"closed_at"`
	Funding     []string `yaml:"funding"`
}

func NewFrontMatter(i *roadmap.Initiative) FrontMatter {
	funding := i.FundingLabels
	if funding == nil {
		funding = []string{}
	}
	return FrontMatter{
		Title:       i.DisplayTitle,
		Status:      i.Status,
		IssueURL:    i.URL,
		Repo:        i.Repo,
		IssueNumber: i.Number,
		State:       i.State,
		UpdatedAt:   i.UpdatedAt,
		ClosedAt:    i.ClosedAt,
		Funding:     funding,
	}
}

// Marshal renders the block including its --- fences. The YAML encoder
// quotes any value containing delimiter characters.
func (f FrontMatter) Marshal() (string, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(f); err != nil {
		return "", fmt.Errorf("failed to encode front-matter: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return "", fmt.Errorf("failed to encode front-matter: %w", err)
	}
	return "---\n" + buf.String() + "---\n", nil
}

var frontMatterLine = regexp.MustCompile(`^([^:]+):\s*(.*)$`)

// ParseFrontMatter extracts the block delimited by --- fences. Blocks that
// are not valid YAML are read line by line as "key: value" pairs.
func ParseFrontMatter(content []byte) (FrontMatter, error) {
	text := strings.TrimPrefix(string(content), "\ufeff")
	if !strings.HasPrefix(text, "---") {
		return FrontMatter{}, ErrNoFrontMatter
	}

	rest := text[3:]
	end := strings.Index(rest, "\n---")
	if end < 0 {
		return FrontMatter{}, ErrNoFrontMatter
	}
	block := rest[:end]

	var meta FrontMatter
	if err := yaml.Unmarshal([]byte(block), &meta); err == nil {
		return meta, nil
	}

	return parseFrontMatterLines(block), nil
}

func parseFrontMatterLines(block string) FrontMatter {
	values := make(map[string]string)
	for _, line := range strings.Split(block, "\n") {
		match := frontMatterLine.FindStringSubmatch(strings.TrimSpace(line))
		if match == nil {
			continue
		}
		value := strings.TrimSpace(match[2])
		if len(value) >= 2 && (value[0] == '"' && value[len(value)-1] == '"' || value[0] == '\'' && value[len(value)-1] == '\'') {
			value = value[1 : len(value)-1]
		}
		values[strings.TrimSpace(match[1])] = value
	}

	number, _ := strconv.Atoi(values["issue_number"])
	return FrontMatter{
		Title:       values["title"],
		Status:      values["status"],
		IssueURL:    values["issue_url"],
		Repo:        values["repo"],
		IssueNumber: number,
		State:       values["state"],
		UpdatedAt:   values["updated_at"],
		ClosedAt:    values["closed_at"],
	}
}

// ParseIssueURL extracts "owner/repo" and the number from an issue URL of
// the form https://host/owner/repo/issues/N.
func ParseIssueURL(issueURL string) (string, int, error) {
	parsed, err := url.Parse(issueURL)
	if err != nil {
		return "", 0, fmt.Errorf("unrecognized issue URL: %s", issueURL)
	}

	var segments []string
	for _, s := range strings.Split(parsed.Path, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	if len(segments) < 4 {
		return "", 0, fmt.Errorf("unrecognized issue URL: %s", issueURL)
	}

	number, err := strconv.Atoi(segments[3])
	if err != nil || number <= 0 {
		return "", 0, fmt.Errorf("unrecognized issue URL: %s", issueURL)
	}
	return segments[0] + "/" + segments[1], number, nil
}
