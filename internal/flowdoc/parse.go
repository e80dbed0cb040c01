package flowdoc

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseError reports a flow file that could not be read as YAML DSL.
type ParseError struct {
	File string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s: %v", e.File, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// uriShorthandKinds are step kinds whose string value is an endpoint URI.
var uriShorthandKinds = map[string]bool{
	"to":         true,
	"toD":        true,
	"wireTap":    true,
	"enrich":     true,
	"pollEnrich": true,
	"poll":       true,
}

// expressionLanguages are checked in this order when reading an expression.
var expressionLanguages = []string{
	"constant", "simple", "header", "exchangeProperty", "variable",
	"jsonpath", "xpath", "jq", "groovy", "method", "ref",
}

// Parse reads a YAML DSL integration file. The top level is a sequence of
// single-key items; route, from and rest items are kept, everything else
// (beans, routeConfiguration, templates) is ignored.
func Parse(name string, data []byte) (*Document, error) {
	doc := &Document{Name: name}

	var items []map[string]any
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, &ParseError{File: name, Err: err}
	}

	for i, item := range items {
		for _, key := range sortedKeys(item) {
			switch key {
			case "route":
				m, ok := item[key].(map[string]any)
				if !ok {
					return nil, &ParseError{File: name, Err: fmt.Errorf("item %d: route must be a mapping", i)}
				}
				doc.Routes = append(doc.Routes, parseRoute(m))
			case "from":
				m, ok := item[key].(map[string]any)
				if !ok {
					return nil, &ParseError{File: name, Err: fmt.Errorf("item %d: from must be a mapping", i)}
				}
				doc.Routes = append(doc.Routes, parseRoute(map[string]any{"from": m}))
			case "rest":
				m, ok := item[key].(map[string]any)
				if !ok {
					return nil, &ParseError{File: name, Err: fmt.Errorf("item %d: rest must be a mapping", i)}
				}
				doc.Rests = append(doc.Rests, parseRest(m))
			}
		}
	}

	return doc, nil
}

func parseRoute(m map[string]any) Route {
	r := Route{
		ID:          stringOf(m["id"]),
		Description: stringOf(m["description"]),
	}
	if from, ok := m["from"].(map[string]any); ok {
		r.From = From{
			ID:         stringOf(from["id"]),
			URI:        stringOf(from["uri"]),
			Parameters: mapOf(from["parameters"]),
		}
		r.Steps = append(r.Steps, parseSteps(from["steps"])...)
	}
	r.Steps = append(r.Steps, parseSteps(m["steps"])...)
	return r
}

func parseSteps(v any) []Step {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	var steps []Step
	for _, raw := range list {
		item, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		for _, kind := range sortedKeys(item) {
			steps = append(steps, parseStep(kind, item[kind]))
		}
	}
	return steps
}

func parseStep(kind string, v any) Step {
	s := Step{Kind: kind}

	switch val := v.(type) {
	case string:
		switch {
		case uriShorthandKinds[kind]:
			s.URI = val
		case kind == "kamelet":
			s.URI = "kamelet:" + val
		case kind == "recipientList":
			s.Language, s.Expression = "simple", val
		}
		s.Definition = map[string]any{kind: val}
	case map[string]any:
		s.Definition = val
		s.ID = stringOf(val["id"])
		s.URI = stringOf(val["uri"])
		s.Parameters = mapOf(val["parameters"])
		if kind == "kamelet" && s.URI == "" {
			if name := stringOf(val["name"]); name != "" {
				s.URI = "kamelet:" + name
			}
		}
		if kind == "recipientList" {
			s.Language, s.Expression = expressionOf(val)
			s.Delimiter = stringOf(val["delimiter"])
		}
		s.Children = childSteps(val)
	}

	if kind == "recipientList" && s.Delimiter == "" {
		s.Delimiter = ","
	}
	return s
}

// childSteps collects nested steps of container elements in declaration order.
func childSteps(m map[string]any) []Step {
	var children []Step
	children = append(children, parseSteps(m["steps"])...)
	for _, key := range []string{"when", "doCatch"} {
		if branches, ok := m[key].([]any); ok {
			for _, b := range branches {
				if bm, ok := b.(map[string]any); ok {
					children = append(children, parseSteps(bm["steps"])...)
				}
			}
		}
	}
	for _, key := range []string{"otherwise", "doFinally", "onFallback"} {
		if bm, ok := m[key].(map[string]any); ok {
			children = append(children, parseSteps(bm["steps"])...)
		}
	}
	return children
}

func expressionOf(m map[string]any) (language, text string) {
	if nested, ok := m["expression"].(map[string]any); ok {
		return expressionOf(nested)
	}
	for _, lang := range expressionLanguages {
		switch v := m[lang].(type) {
		case string:
			return lang, v
		case map[string]any:
			return lang, stringOf(v["expression"])
		}
	}
	return "", ""
}

func parseRest(m map[string]any) Rest {
	r := Rest{
		ID:          stringOf(m["id"]),
		Path:        stringOf(m["path"]),
		Description: stringOf(m["description"]),
	}
	for _, method := range RestMethods {
		var ops []any
		switch v := m[method].(type) {
		case []any:
			ops = v
		case map[string]any:
			ops = []any{v}
		}
		for _, raw := range ops {
			om, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			op := RestOperation{
				Method: strings.ToUpper(method),
				ID:     stringOf(om["id"]),
				Path:   stringOf(om["path"]),
			}
			switch to := om["to"].(type) {
			case string:
				op.To = to
			case map[string]any:
				op.To = stringOf(to["uri"])
			}
			r.Operations = append(r.Operations, op)
		}
	}
	return r
}

func stringOf(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(s)
	}
}

func mapOf(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
