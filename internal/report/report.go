// Package report manages the analysis output directory: it collects report
// lines, assembles them into a markdown document and writes markdown and
// HTML artifacts to disk.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"causalprep/internal/errors"
	"causalprep/internal/logging"
)

const timestampLayout = "20060102_150405"

// Report accumulates preformatted text lines. It implements
// logging.LineWriter, so analysis code can emit into a report the same way
// it emits into a logger.
type Report struct {
	title string
	lines []string
}

// NewReport creates an empty report with the given title
func NewReport(title string) *Report {
	return &Report{title: title}
}

// Log appends one line to the report
func (r *Report) Log(line string) {
	r.lines = append(r.lines, line)
}

// Lines returns the collected lines
func (r *Report) Lines() []string {
	out := make([]string, len(r.lines))
	copy(out, r.lines)
	return out
}

// Markdown assembles the report into a markdown document: a heading, the
// generation time, and the collected lines as a preformatted block
func (r *Report) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", r.title)
	fmt.Fprintf(&b, "Generated at %s\n\n", time.Now().Format(time.RFC3339))
	b.WriteString("```text\n")
	for _, line := range r.lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteString("```\n")
	return b.String()
}

// Writer persists report artifacts under an output directory
type Writer struct {
	dir string
	log *logging.Logger
}

// NewWriter creates the output directory if needed and returns a writer
func NewWriter(dir string, log *logging.Logger) (*Writer, error) {
	if dir == "" {
		return nil, errors.ConfigInvalid("output directory cannot be empty")
	}
	if log == nil {
		log = logging.DefaultLogger
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "creating output directory %s", dir)
	}
	return &Writer{dir: dir, log: log}, nil
}

// Dir returns the managed output directory
func (w *Writer) Dir() string {
	return w.dir
}

// Save writes the report as timestamped markdown and HTML files and returns
// their paths
func (w *Writer) Save(r *Report, baseName string) (mdPath, htmlPath string, err error) {
	stamp := time.Now().Format(timestampLayout)
	md := r.Markdown()

	mdPath = filepath.Join(w.dir, fmt.Sprintf("%s_%s.md", baseName, stamp))
	if err := os.WriteFile(mdPath, []byte(md), 0o644); err != nil {
		return "", "", errors.Wrapf(err, "writing %s", mdPath)
	}

	htmlPath = filepath.Join(w.dir, fmt.Sprintf("%s_%s.html", baseName, stamp))
	if err := os.WriteFile(htmlPath, renderHTML(r.title, md), 0o644); err != nil {
		return "", "", errors.Wrapf(err, "writing %s", htmlPath)
	}

	w.log.Info("report saved to %s", mdPath)
	return mdPath, htmlPath, nil
}

// renderHTML converts the markdown document to a complete HTML page
func renderHTML(title, md string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{
		Title: title,
		Flags: html.CommonFlags | html.CompletePage,
	})
	return markdown.ToHTML([]byte(md), p, renderer)
}
