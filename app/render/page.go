package render

import (
	"bytes"
	"embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"text/template"

	"github.com/lysyi3m/roadmap-sync/app/roadmap"
)

const (
	PageTemplate  = "initiative.md.tmpl"
	InitiativeDir = "initiative"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// PageRenderer writes one Markdown page per initiative under
// <docs>/initiative/.
type PageRenderer struct {
	outputDir string
	template  *template.Template
}

// NewPageRenderer loads the page template from templateDir, or the built-in
// one when templateDir is empty.
func NewPageRenderer(docsDir, templateDir string) (*PageRenderer, error) {
	tmpl := template.New(PageTemplate).Funcs(funcMap())

	var err error
	if templateDir != "" {
		tmpl, err = tmpl.ParseFiles(filepath.Join(templateDir, PageTemplate))
	} else {
		tmpl, err = tmpl.ParseFS(templateFS, "templates/"+PageTemplate)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load page template: %w", err)
	}

	return &PageRenderer{
		outputDir: filepath.Join(docsDir, InitiativeDir),
		template:  tmpl,
	}, nil
}

func (r *PageRenderer) OutputDir() string {
	return r.outputDir
}

// Purge removes every generated page so renamed or dropped initiatives do
// not linger between runs.
func (r *PageRenderer) Purge() (int, error) {
	if err := os.MkdirAll(r.outputDir, 0755); err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", r.outputDir, err)
	}

	existing, err := filepath.Glob(filepath.Join(r.outputDir, "*.md"))
	if err != nil {
		return 0, fmt.Errorf("failed to list pages: %w", err)
	}

	for _, path := range existing {
		if err := os.Remove(path); err != nil {
			return 0, fmt.Errorf("failed to remove %s: %w", path, err)
		}
	}

	slog.Debug("Purged initiative pages", "dir", r.outputDir, "count", len(existing))
	return len(existing), nil
}

func (r *PageRenderer) Render(initiative *roadmap.Initiative) (string, error) {
	var buf bytes.Buffer
	if err := r.template.ExecuteTemplate(&buf, PageTemplate, initiative); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", initiative.IssueRef(), err)
	}

	if err := os.MkdirAll(r.outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", r.outputDir, err)
	}

	path := filepath.Join(r.outputDir, initiative.Filename+".md")
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}

	return path, nil
}
