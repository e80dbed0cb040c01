package topology

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/ziadkadry99/routemap/internal/flowdoc"
)

// callKinds are the step kinds that send to another endpoint.
var callKinds = map[string]bool{
	"to":            true,
	"toD":           true,
	"wireTap":       true,
	"enrich":        true,
	"pollEnrich":    true,
	"poll":          true,
	"kamelet":       true,
	"recipientList": true,
}

// Derive runs one derivation pass over docs. If any document is malformed
// no topology is returned; the error joins one *MalformedDocumentError per
// offending document. Use Split to continue with the well-formed ones.
func Derive(docs []flowdoc.Document, opts ...Option) (*Topology, error) {
	o := buildOptions(opts)
	m := NewMatcher(o.InternalSchemes)

	s, err := discover(docs, m)
	if err != nil {
		return nil, err
	}
	return classify(s, buildLookup(s, m), m), nil
}

// Validate checks that doc can take part in a derivation pass.
func Validate(doc flowdoc.Document) error {
	return validateAt(doc, 0)
}

func validateAt(doc flowdoc.Document, index int) error {
	if strings.TrimSpace(doc.Name) == "" {
		return &MalformedDocumentError{Index: index, RouteIndex: -1, Reason: "missing document identifier"}
	}
	for i, r := range doc.Routes {
		if strings.TrimSpace(r.ID) == "" && strings.TrimSpace(r.From.URI) == "" {
			return &MalformedDocumentError{Document: doc.Name, Index: index, RouteIndex: i, Reason: "route has neither an id nor a trigger"}
		}
	}
	return nil
}

// Split separates well-formed documents from malformed ones, preserving order.
func Split(docs []flowdoc.Document) (valid []flowdoc.Document, errs []error) {
	for i, d := range docs {
		if err := validateAt(d, i); err != nil {
			errs = append(errs, err)
			continue
		}
		valid = append(valid, d)
	}
	return valid, errs
}

// structure is the output of the structural pass: every node with a
// provisional external kind and the endpoints needed for classification.
type structure struct {
	routes []routeEntry
	rests  []RestNode
}

type routeEntry struct {
	doc      string
	route    RouteNode
	incoming IncomingNode
	trigger  Endpoint
	calls    []callEntry
}

type callEntry struct {
	node OutgoingNode
	dest Endpoint
}

// lookup maps resolvable trigger keys to the first route declaring them.
type lookup struct {
	first    map[string]int
	shadowed map[string][]int
	order    []string // keys with duplicates, in first-seen order
}

func discover(docs []flowdoc.Document, m Matcher) (*structure, error) {
	var errs []error
	for i, d := range docs {
		if err := validateAt(d, i); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	s := &structure{}
	keys := documentKeys(docs)
	for di, doc := range docs {
		for ri, r := range doc.Routes {
			entry, err := discoverRoute(doc.Name, keys[di], ri, r, m)
			if err != nil {
				return nil, err
			}
			s.routes = append(s.routes, entry)
		}
		for xi, rest := range doc.Rests {
			n, err := discoverRest(doc.Name, keys[di], xi, rest)
			if err != nil {
				return nil, err
			}
			s.rests = append(s.rests, n)
		}
	}
	return s, nil
}

func discoverRoute(file string, docKey []string, ri int, r flowdoc.Route, m Matcher) (routeEntry, error) {
	key := append(append([]string{}, docKey...), strconv.Itoa(ri), r.ID)
	trigger := ParseEndpoint(r.From.URI, r.From.Parameters)

	title := r.Description
	if title == "" {
		title = r.ID
	}
	if title == "" {
		title = trigger.String()
	}

	route, err := NewRouteNode(composeID("route", key...), r.ID, title, file, r)
	if err != nil {
		return routeEntry{}, err
	}
	in, err := NewIncomingNode(composeID("incoming", key...), KindExternal, r.ID, trigger.String(), file, r.From)
	if err != nil {
		return routeEntry{}, err
	}
	in.Endpoint = trigger
	in.RouteNode = route.ID

	entry := routeEntry{doc: file, route: route, incoming: in, trigger: trigger}
	var walk func(steps []flowdoc.Step, prefix string) error
	walk = func(steps []flowdoc.Step, prefix string) error {
		for i, step := range steps {
			path := strconv.Itoa(i)
			if prefix != "" {
				path = prefix + "." + path
			}
			if callKinds[step.Kind] {
				for di, dest := range destinations(step) {
					id := composeID("outgoing", append(append([]string{}, key...), path, strconv.Itoa(di))...)
					title := dest.String()
					if title == "" {
						title = step.Kind
					}
					out, err := NewOutgoingNode(id, KindExternal, r.ID, title, file, step)
					if err != nil {
						return err
					}
					out.StepPath = path
					out.Destination = dest
					out.RouteNode = route.ID
					entry.calls = append(entry.calls, callEntry{node: out, dest: dest})
				}
			}
			if err := walk(step.Children, path); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(r.Steps, ""); err != nil {
		return routeEntry{}, err
	}
	return entry, nil
}

// destinations returns one endpoint per address a call step sends to.
func destinations(step flowdoc.Step) []Endpoint {
	if step.Kind != "recipientList" {
		return []Endpoint{ParseEndpoint(step.URI, step.Parameters)}
	}
	if step.Language != "constant" {
		return []Endpoint{dynamicEndpoint(step.Expression)}
	}
	delim := step.Delimiter
	if delim == "" {
		delim = ","
	}
	var out []Endpoint
	for _, part := range strings.Split(step.Expression, delim) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, ParseEndpoint(part, nil))
		}
	}
	return out
}

func buildLookup(s *structure, m Matcher) lookup {
	lk := lookup{
		first:    make(map[string]int),
		shadowed: make(map[string][]int),
	}
	for i, e := range s.routes {
		if !m.Resolvable(e.trigger) {
			continue
		}
		k := e.trigger.Key()
		if _, ok := lk.first[k]; !ok {
			lk.first[k] = i
			continue
		}
		if len(lk.shadowed[k]) == 0 {
			lk.order = append(lk.order, k)
		}
		lk.shadowed[k] = append(lk.shadowed[k], i)
	}
	return lk
}

func classify(s *structure, lk lookup, m Matcher) *Topology {
	t := &Topology{index: make(map[string]Node)}

	called := make(map[string]bool)
	for _, e := range s.routes {
		for _, c := range e.calls {
			out := c.node
			if m.Resolvable(c.dest) {
				if idx, ok := lk.first[c.dest.Key()]; ok {
					out.Kind = KindInternal
					out.Target = s.routes[idx].incoming.ID
					called[c.dest.Key()] = true
				}
			}
			t.outgoing = append(t.outgoing, out)
		}
	}

	for _, e := range s.routes {
		in := e.incoming
		if m.Resolvable(e.trigger) && called[e.trigger.Key()] {
			in.Kind = KindInternal
		}
		t.incoming = append(t.incoming, in)
		t.routes = append(t.routes, e.route)
		t.edges = append(t.edges, newEdge(EdgeTrigger, in.ID, e.route.ID))
	}

	oi := 0
	for _, e := range s.routes {
		for range e.calls {
			out := t.outgoing[oi]
			oi++
			t.edges = append(t.edges, newEdge(EdgeCall, e.route.ID, out.ID))
			if out.Kind == KindInternal {
				t.edges = append(t.edges, newEdge(EdgeLink, out.ID, out.Target))
			}
		}
	}

	t.rests = append(t.rests, s.rests...)

	for _, k := range lk.order {
		winner := s.routes[lk.first[k]]
		ids := []string{winner.route.ID}
		for _, idx := range lk.shadowed[k] {
			ids = append(ids, s.routes[idx].route.ID)
		}
		t.warnings = append(t.warnings, Warning{
			Code:       WarnDuplicateTrigger,
			Message:    fmt.Sprintf("%d routes consume %s; calls resolve to %q in %s", len(ids), k, winner.route.RouteID, winner.doc),
			Document:   winner.doc,
			RouteID:    winner.route.RouteID,
			Identifier: k,
			NodeIDs:    ids,
		})
	}

	for n := range t.Nodes() {
		t.index[n.NodeID()] = n
	}
	return t
}

// documentKeys returns the id prefix of each document. A repeated document
// identifier gets its list position as an extra segment.
func documentKeys(docs []flowdoc.Document) [][]string {
	seen := make(map[string]bool, len(docs))
	keys := make([][]string, len(docs))
	for i, d := range docs {
		if seen[d.Name] {
			keys[i] = []string{d.Name, strconv.Itoa(i)}
			continue
		}
		seen[d.Name] = true
		keys[i] = []string{d.Name}
	}
	return keys
}

// composeID joins path-escaped parts with "/", so no part can forge a separator.
func composeID(kind string, parts ...string) string {
	var b strings.Builder
	b.WriteString(kind)
	for _, p := range parts {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(p))
	}
	return b.String()
}
