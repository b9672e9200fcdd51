package render

import (
	"bytes"
	"cmp"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lysyi3m/roadmap-sync/app/roadmap"
)

// FeedChannel describes the RSS channel wrapping the activity rows.
type FeedChannel struct {
	Title       string
	Link        string
	Description string
	Generator   string
}

// FeedGenerator renders activity rows as an RSS 2.0 document.
type FeedGenerator struct {
	channel FeedChannel
	now     func() time.Time
}

func NewFeedGenerator(channel FeedChannel) *FeedGenerator {
	return &FeedGenerator{channel: channel, now: time.Now}
}

func (g *FeedGenerator) Run(rows []ActivityRow) string {
	var buf bytes.Buffer

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString("\n")
	buf.WriteString(`<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom">`)
	buf.WriteString("\n  <channel>\n")

	g.writeElement(&buf, "title", cmp.Or(g.channel.Title, "Roadmap activity"), 4)
	g.writeElement(&buf, "link", g.channel.Link, 4)
	g.writeElement(&buf, "description", cmp.Or(g.channel.Description, "Recent activity on in-flight initiatives"), 4)

	lastBuildDate := g.now().UTC()
	if len(rows) > 0 {
		if latest := roadmap.ParseTimestamp(rows[0].UpdatedAt); !latest.IsZero() {
			lastBuildDate = latest
		}
	}
	g.writeElement(&buf, "lastBuildDate", lastBuildDate.Format(time.RFC1123Z), 4)
	g.writeElement(&buf, "generator", g.channel.Generator, 4)

	for _, row := range rows {
		g.writeItem(&buf, row)
	}

	buf.WriteString("  </channel>\n</rss>\n")

	return buf.String()
}

// Write renders the feed to <docs>/data/activity.xml.
func (g *FeedGenerator) Write(docsDir string, rows []ActivityRow) (string, error) {
	dir := filepath.Join(docsDir, DataDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}

	path := filepath.Join(dir, ActivityFeedFile)
	if err := os.WriteFile(path, []byte(g.Run(rows)), 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

func (g *FeedGenerator) writeItem(buf *bytes.Buffer, row ActivityRow) {
	buf.WriteString("    <item>\n")

	// The same issue reappears with each update, so the GUID includes the timestamp.
	buf.WriteString(`      <guid isPermaLink="false">`)
	xml.EscapeText(buf, []byte(row.IssueRef()+"@"+row.UpdatedAt))
	buf.WriteString("</guid>\n")

	title := row.Title
	if row.Type != ActivityInitiative {
		title = fmt.Sprintf("#%d – %s", row.Number, row.Title)
	}
	g.writeElement(buf, "title", title, 6)

	g.writeElement(buf, "link", cmp.Or(row.IssueURL, row.Link), 6)

	var description strings.Builder
	fmt.Fprintf(&description, "%s %s is %s.", row.Type, row.IssueRef(), cmp.Or(TitleCase(row.State), "Unknown"))
	if row.ParentTitle != "" {
		fmt.Fprintf(&description, " Part of %s.", row.ParentTitle)
	}
	g.writeElement(buf, "description", description.String(), 6)

	if updated := roadmap.ParseTimestamp(row.UpdatedAt); !updated.IsZero() {
		g.writeElement(buf, "pubDate", updated.Format(time.RFC1123Z), 6)
	}

	g.writeElement(buf, "category", row.Type, 6)

	buf.WriteString("    </item>\n")
}

func (g *FeedGenerator) writeElement(buf *bytes.Buffer, tag, content string, indent int) {
	if content == "" {
		return
	}

	buf.WriteString(strings.Repeat(" ", indent))
	buf.WriteString("<" + tag + ">")
	xml.EscapeText(buf, []byte(content))
	buf.WriteString("</" + tag + ">\n")
}
