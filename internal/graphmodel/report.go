package graphmodel

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"gopkg.in/yaml.v3"

	"github.com/ziadkadry99/routemap/internal/topology"
)

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", sans-serif; margin: 2rem auto; max-width: 1100px; color: #1f2328; }
table { border-collapse: collapse; width: 100%; margin-bottom: 1.5rem; }
th, td { border: 1px solid #d0d7de; padding: 4px 8px; text-align: left; font-size: 14px; }
th { background: #f6f8fa; }
code { font-size: 13px; }
pre { padding: 12px; overflow-x: auto; }
</style>
</head>
<body>
{{.Body}}
</body>
</html>
`

var page = template.Must(template.New("page").Parse(pageTemplate))

// Markdown returns a Markdown summary of the topology.
func Markdown(t *topology.Topology) string {
	var b strings.Builder
	c := t.Counts()

	b.WriteString("# Integration topology\n\n")
	fmt.Fprintf(&b, "%d routes, %d outgoing calls, %d REST services.\n\n", c.Routes, c.Outgoing, c.Rests)

	titles := make(map[string]string)
	for n := range t.Routes() {
		titles[n.ID] = n.Title
	}
	incomingRoute := make(map[string]string)
	for n := range t.Incoming() {
		incomingRoute[n.ID] = n.RouteNode
	}

	if c.Routes > 0 {
		b.WriteString("## Routes\n\n| Route | File | Trigger | Invoked |\n|---|---|---|---|\n")
		for n := range t.Incoming() {
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
				cell(titles[n.RouteNode]), cell(n.SourceFile), code(n.Title), n.Kind)
		}
		b.WriteString("\n")
	}

	if c.Outgoing > 0 {
		b.WriteString("## Calls\n\n| Route | Step | Destination | Kind | Resolves to |\n|---|---|---|---|---|\n")
		for n := range t.Outgoing() {
			target := ""
			if n.Target != "" {
				target = titles[incomingRoute[n.Target]]
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
				cell(titles[n.RouteNode]), cell(n.Step.Kind), code(n.Title), n.Kind, cell(target))
		}
		b.WriteString("\n")
	}

	if c.Rests > 0 {
		b.WriteString("## REST services\n\n| Service | File | Operations |\n|---|---|---|\n")
		for n := range t.Rests() {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", cell(n.Title), cell(n.SourceFile), cell(strings.Join(n.URIs, ", ")))
		}
		b.WriteString("\n")
	}

	if w := t.Warnings(); len(w) > 0 {
		b.WriteString("## Warnings\n\n")
		for _, warn := range w {
			fmt.Fprintf(&b, "- **%s**: %s\n", cell(warn.Code), cell(warn.Message))
		}
		b.WriteString("\n")
	}

	if c.Routes > 0 {
		b.WriteString("## Definitions\n\n")
		for n := range t.Routes() {
			src, err := yaml.Marshal(map[string]any{"from": n.Route.From})
			if err != nil {
				continue
			}
			fmt.Fprintf(&b, "### %s\n\n```yaml\n%s```\n\n", cell(n.Title), src)
		}
	}
	return b.String()
}

// Report renders the Markdown summary as a standalone HTML page.
func Report(t *topology.Topology) ([]byte, error) {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle("github"),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
	)

	var body bytes.Buffer
	if err := md.Convert([]byte(Markdown(t)), &body); err != nil {
		return nil, fmt.Errorf("rendering markdown: %w", err)
	}

	var out bytes.Buffer
	err := page.Execute(&out, struct {
		Title string
		Body  template.HTML
	}{
		Title: "Integration topology",
		Body:  template.HTML(body.String()),
	})
	if err != nil {
		return nil, fmt.Errorf("executing page template: %w", err)
	}
	return out.Bytes(), nil
}

// cell escapes a flow-file value for use as text inside a Markdown table
// cell or heading. Markup is escaped so it renders as text.
func cell(s string) string {
	return tableSafe(template.HTMLEscapeString(s))
}

// code wraps a value in a code span. Code spans are escaped by the renderer.
func code(s string) string {
	s = strings.ReplaceAll(s, "`", "'")
	if s == "" {
		return ""
	}
	return "`" + tableSafe(s) + "`"
}

func tableSafe(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}
