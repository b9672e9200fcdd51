package render

import (
	"strings"
	"text/template"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/lysyi3m/roadmap-sync/app/roadmap"
)

var cellReplacer = strings.NewReplacer(
	`\`, `\\`,
	"|", "/",
	"_", `\_`,
	"[", `\[`,
	"]", `\]`,
	"\r\n", " ",
	"\n", " ",
)

// EscapeCell makes text safe inside a Markdown table cell.
func EscapeCell(text string) string {
	return cellReplacer.Replace(text)
}

// TitleCase turns API enums such as "OPEN" or "MERGED" into "Open", "Merged".
func TitleCase(text string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(text, "_", " "))
}

func childType(kind roadmap.ChildKind) string {
	if kind == roadmap.ChildKindPullRequest {
		return "Pull request"
	}
	return "Sub-issue"
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"frontmatter": func(i *roadmap.Initiative) (string, error) {
			return NewFrontMatter(i).Marshal()
		},
		"cell":      EscapeCell,
		"titleCase": TitleCase,
		"date":      roadmap.FormatDate,
		"datetime":  roadmap.FormatDateTime,
		"join":      strings.Join,
		"childType": childType,
	}
}
