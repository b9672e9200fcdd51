package render

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/lysyi3m/roadmap-sync/app/roadmap"
)

const (
	DataDir = "data"

	RoadmapTableFile   = "roadmap-table.md"
	CompletedTableFile = "completed-table.md"
	ActivityLogFile    = "activity-log.md"
	ActivityFeedFile   = "activity.xml"

	inFlightLabel = "🚀 In Flight"
	upcomingLabel = "📋 Upcoming"
	completedIcon = "✅"
)

// TableGenerator writes the summary tables under <docs>/data/.
type TableGenerator struct {
	dataDir string
}

func NewTableGenerator(docsDir string) *TableGenerator {
	return &TableGenerator{dataDir: filepath.Join(docsDir, DataDir)}
}

func (g *TableGenerator) DataDir() string {
	return g.dataDir
}

func (g *TableGenerator) WriteRoadmapTable(inFlight, upcoming []*roadmap.Initiative) (string, error) {
	return g.write(RoadmapTableFile, RoadmapTable(inFlight, upcoming))
}

func (g *TableGenerator) WriteCompletedTable(done []*roadmap.Initiative) (string, error) {
	return g.write(CompletedTableFile, CompletedTable(done))
}

func (g *TableGenerator) WriteActivityLog(rows []ActivityRow) (string, error) {
	return g.write(ActivityLogFile, ActivityLogTable(rows))
}

func (g *TableGenerator) write(name, content string) (string, error) {
	if err := os.MkdirAll(g.dataDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", g.dataDir, err)
	}

	path := filepath.Join(g.dataDir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// RoadmapTable lists active initiatives, in-flight first, each bucket in
// board order.
func RoadmapTable(inFlight, upcoming []*roadmap.Initiative) string {
	lines := []string{
		"| Status | Title | Description | Issue | Funding Status |",
		"|--------|-------|-------------|-------|----------------|",
	}
	for _, i := range inFlight {
		lines = append(lines, initiativeRow(inFlightLabel, i))
	}
	for _, i := range upcoming {
		lines = append(lines, initiativeRow(upcomingLabel, i))
	}
	return strings.Join(lines, "\n")
}

// CompletedTable lists closed initiatives, most recently closed first.
func CompletedTable(done []*roadmap.Initiative) string {
	sorted := slices.Clone(done)
	roadmap.SortByClosedDesc(sorted)

	lines := []string{
		"| Completed | Title | Description | Issue | Funding Status |",
		"|-----------|-------|-------------|-------|----------------|",
	}
	for _, i := range sorted {
		label := strings.TrimSpace(completedIcon + " " + roadmap.FormatDate(i.ClosedAt))
		lines = append(lines, initiativeRow(label, i))
	}
	return strings.Join(lines, "\n")
}

func initiativeRow(status string, i *roadmap.Initiative) string {
	funding := make([]string, 0, len(i.FundingLabels))
	for _, label := range i.FundingLabels {
		funding = append(funding, "`"+label+"`")
	}

	return fmt.Sprintf("| %s | [%s](%s/%s.md) | %s | [#%d](%s) | %s |",
		status,
		EscapeCell(i.DisplayTitle),
		InitiativeDir, i.Filename,
		EscapeCell(i.ShortDescription),
		i.Number, i.URL,
		strings.Join(funding, ", "),
	)
}
