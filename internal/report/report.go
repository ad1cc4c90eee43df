// Package report renders a browse view as a Markdown or HTML census report.
package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/CageChen/dirscope/internal/browse"
)

// Renderer converts reports to HTML with goldmark
type Renderer struct {
	md goldmark.Markdown
}

// NewRenderer creates a renderer with GFM table support
func NewRenderer() *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Table,
		),
		goldmark.WithRendererOptions(
			html.WithXHTML(),
		),
	)

	return &Renderer{md: md}
}

// Markdown builds the report for a view.
func Markdown(v *browse.View) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", escape(v.Directory))

	if v.Census == nil {
		b.WriteString("No count data.\n\n")
	} else {
		b.WriteString("| Size | Files |\n|---|---:|\n")
		counts := []uint64{v.Census.Tiny, v.Census.Small, v.Census.Big, v.Census.Huge}
		for i, label := range v.Census.SizeLimits {
			fmt.Fprintf(&b, "| %s | %d |\n", escape(label), counts[i])
		}
		fmt.Fprintf(&b, "\n%s\n\n", v.Census.Summary)
	}

	heading := "Subdirectories"
	if v.AboveRoot {
		heading = "Volumes"
	}
	writeList(&b, heading, v.Subdirectories)
	writeList(&b, "Files", v.Files)

	return []byte(b.String())
}

func writeList(b *strings.Builder, heading string, names []string) {
	if len(names) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s\n\n", heading)
	for _, n := range names {
		fmt.Fprintf(b, "- %s\n", escape(n))
	}
	b.WriteString("\n")
}

// escape keeps file names from being read as Markdown syntax.
func escape(s string) string {
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune("\\`*_{}[]()#+-.!|<>", r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// HTML converts Markdown source to HTML
func (r *Renderer) HTML(source []byte) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert(source, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
