package topology

import (
	"errors"
	"reflect"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/ziadkadry99/routemap/internal/flowdoc"
)

func route(id, from string, calls ...string) flowdoc.Route {
	r := flowdoc.Route{ID: id, From: flowdoc.From{URI: from}}
	for _, c := range calls {
		r.Steps = append(r.Steps, flowdoc.Step{Kind: "to", URI: c})
	}
	return r
}

func doc(name string, routes ...flowdoc.Route) flowdoc.Document {
	return flowdoc.Document{Name: name, Routes: routes}
}

func mustDerive(t *testing.T, docs []flowdoc.Document, opts ...Option) *Topology {
	t.Helper()
	topo, err := Derive(docs, opts...)
	if err != nil {
		t.Fatalf("Derive() error: %v", err)
	}
	return topo
}

func TestDerive_EndToEnd(t *testing.T) {
	docs := []flowdoc.Document{
		doc("a.camel.yaml", route("r1", "direct:start", "direct:target")),
		doc("b.camel.yaml", route("r2", "direct:target")),
	}
	topo := mustDerive(t, docs)

	routes := slices.Collect(topo.Routes())
	incoming := slices.Collect(topo.Incoming())
	outgoing := slices.Collect(topo.Outgoing())

	if len(routes) != 2 {
		t.Fatalf("routes = %d, want 2", len(routes))
	}
	if len(incoming) != 2 {
		t.Fatalf("incoming = %d, want 2", len(incoming))
	}
	if len(outgoing) != 1 {
		t.Fatalf("outgoing = %d, want 1", len(outgoing))
	}

	if incoming[0].RouteID != "r1" || incoming[0].Kind != KindExternal {
		t.Errorf("r1 incoming = %s/%s, want r1/external", incoming[0].RouteID, incoming[0].Kind)
	}
	if incoming[1].RouteID != "r2" || incoming[1].Kind != KindInternal {
		t.Errorf("r2 incoming = %s/%s, want r2/internal", incoming[1].RouteID, incoming[1].Kind)
	}

	out := outgoing[0]
	if out.Kind != KindInternal {
		t.Errorf("outgoing kind = %s, want internal", out.Kind)
	}
	if out.RouteID != "r1" {
		t.Errorf("outgoing routeId = %q, want r1", out.RouteID)
	}
	if out.Target != incoming[1].ID {
		t.Errorf("outgoing target = %q, want %q", out.Target, incoming[1].ID)
	}

	var link *Edge
	for e := range topo.Edges() {
		if e.Type == EdgeLink {
			e := e
			link = &e
		}
	}
	if link == nil {
		t.Fatal("expected a link edge")
	}
	if link.Source != out.ID || link.Target != incoming[1].ID {
		t.Errorf("link edge = %+v", *link)
	}
	if c := topo.Counts(); c.Edges != 2+1+1 {
		t.Errorf("edges = %d, want 4 (2 trigger, 1 call, 1 link)", c.Edges)
	}
}

func TestDerive_Determinism(t *testing.T) {
	docs := []flowdoc.Document{
		doc("a.camel.yaml",
			route("r1", "direct:start", "direct:target", "kafka:events", "seda:work"),
			route("r2", "seda:work", "direct:target")),
		doc("b.camel.yaml", route("r2", "direct:target", "http://example.com/api")),
	}
	first := mustDerive(t, docs)
	second := mustDerive(t, docs)

	if !reflect.DeepEqual(slices.Collect(first.Incoming()), slices.Collect(second.Incoming())) {
		t.Error("incoming sequences differ between passes")
	}
	if !reflect.DeepEqual(slices.Collect(first.Outgoing()), slices.Collect(second.Outgoing())) {
		t.Error("outgoing sequences differ between passes")
	}
	if !reflect.DeepEqual(slices.Collect(first.Routes()), slices.Collect(second.Routes())) {
		t.Error("route sequences differ between passes")
	}
	if !reflect.DeepEqual(slices.Collect(first.Edges()), slices.Collect(second.Edges())) {
		t.Error("edge sequences differ between passes")
	}

	// Ranging twice over the same sequence yields the same nodes.
	a := slices.Collect(first.Outgoing())
	b := slices.Collect(first.Outgoing())
	if !reflect.DeepEqual(a, b) {
		t.Error("sequence is not restartable")
	}
}

func TestDerive_ConcurrentPasses(t *testing.T) {
	docs := []flowdoc.Document{
		doc("a.camel.yaml",
			route("r1", "direct:start", "direct:target", "kafka:events"),
			route("r2", "seda:work", "direct:target")),
		doc("b.camel.yaml", route("r3", "direct:target", "seda:work")),
	}
	want := mustDerive(t, docs)

	const workers = 8
	results := make([]*Topology, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = Derive(docs, WithInternalSchemes(DefaultInternalSchemes...))
		}()
	}
	wg.Wait()

	for i, got := range results {
		if errs[i] != nil {
			t.Fatalf("worker %d: Derive() error: %v", i, errs[i])
		}
		if !reflect.DeepEqual(slices.Collect(got.Nodes()), slices.Collect(want.Nodes())) {
			t.Errorf("worker %d: nodes differ from a sequential pass", i)
		}
		if !reflect.DeepEqual(slices.Collect(got.Edges()), slices.Collect(want.Edges())) {
			t.Errorf("worker %d: edges differ from a sequential pass", i)
		}
	}
}

func TestDerive_Coverage(t *testing.T) {
	docs := []flowdoc.Document{
		doc("a.camel.yaml", route("r1", "direct:a"), route("r2", "timer:t", "direct:a")),
		doc("b.camel.yaml"),
		doc("c.camel.yaml", route("r3", "seda:x"), route("r4", "direct:b"), route("r5", "vm:c")),
	}
	topo := mustDerive(t, docs)
	c := topo.Counts()
	if c.Routes != flowdoc.RouteCount(docs) {
		t.Errorf("routes = %d, want %d", c.Routes, flowdoc.RouteCount(docs))
	}
	if c.Incoming != c.Routes {
		t.Errorf("incoming = %d, want %d", c.Incoming, c.Routes)
	}
}

func TestDerive_ClassificationFlip(t *testing.T) {
	matching := []flowdoc.Document{
		doc("a.camel.yaml", route("caller", "timer:t", "direct:orders")),
		doc("b.camel.yaml", route("callee", "direct:orders")),
	}
	flipped := []flowdoc.Document{
		doc("a.camel.yaml", route("caller", "timer:t", "direct:ordert")),
		doc("b.camel.yaml", route("callee", "direct:orders")),
	}

	out := slices.Collect(mustDerive(t, matching).Outgoing())
	if out[0].Kind != KindInternal {
		t.Fatalf("matching destination kind = %s, want internal", out[0].Kind)
	}

	topo := mustDerive(t, flipped)
	out = slices.Collect(topo.Outgoing())
	if out[0].Kind != KindExternal {
		t.Errorf("flipped destination kind = %s, want external", out[0].Kind)
	}
	if out[0].Target != "" {
		t.Errorf("external node should have no target, got %q", out[0].Target)
	}
	for in := range topo.Incoming() {
		if in.Kind != KindExternal {
			t.Errorf("incoming %s kind = %s, want external", in.RouteID, in.Kind)
		}
	}
}

func TestDerive_DuplicateTriggerFirstWins(t *testing.T) {
	docs := []flowdoc.Document{
		doc("first.camel.yaml", route("consumer-a", "direct:shared")),
		doc("second.camel.yaml", route("consumer-b", "direct:shared")),
		doc("caller.camel.yaml", route("caller", "timer:t", "direct:shared")),
	}
	topo := mustDerive(t, docs)

	incoming := slices.Collect(topo.Incoming())
	out := slices.Collect(topo.Outgoing())
	if out[0].Target != incoming[0].ID {
		t.Errorf("target = %q, want first document's incoming %q", out[0].Target, incoming[0].ID)
	}

	warnings := topo.Warnings()
	if len(warnings) != 1 {
		t.Fatalf("warnings = %d, want 1", len(warnings))
	}
	w := warnings[0]
	if w.Code != WarnDuplicateTrigger || w.Identifier != "direct:shared" {
		t.Errorf("warning = %+v", w)
	}
	if w.Document != "first.camel.yaml" || w.RouteID != "consumer-a" {
		t.Errorf("warning should name the winning route, got %s/%s", w.Document, w.RouteID)
	}
	if len(w.NodeIDs) != 2 {
		t.Errorf("warning node ids = %v, want 2 entries", w.NodeIDs)
	}

	// Reversing the document order changes the winner.
	reversed := []flowdoc.Document{docs[1], docs[0], docs[2]}
	topo = mustDerive(t, reversed)
	incoming = slices.Collect(topo.Incoming())
	out = slices.Collect(topo.Outgoing())
	if incoming[0].RouteID != "consumer-b" || out[0].Target != incoming[0].ID {
		t.Errorf("after reversal target = %q, want %q", out[0].Target, incoming[0].ID)
	}
}

func TestDerive_RestOnlyDocument(t *testing.T) {
	docs := []flowdoc.Document{{
		Name: "api.camel.yaml",
		Rests: []flowdoc.Rest{{
			Path: "/api",
			Operations: []flowdoc.RestOperation{
				{Method: "GET", Path: "/orders", To: "direct:orders"},
				{Method: "POST", Path: "/orders"},
				{Method: "GET", Path: "/orders"},
			},
		}},
	}}
	topo := mustDerive(t, docs)
	c := topo.Counts()
	if c.Routes != 0 || c.Incoming != 0 || c.Outgoing != 0 {
		t.Errorf("counts = %+v, want no route-derived nodes", c)
	}
	rests := slices.Collect(topo.Rests())
	if len(rests) != 1 {
		t.Fatalf("rests = %d, want 1", len(rests))
	}
	want := []string{"GET /api/orders", "POST /api/orders"}
	if !reflect.DeepEqual(rests[0].URIs, want) {
		t.Errorf("uris = %v, want %v", rests[0].URIs, want)
	}
	if rests[0].Path != "/api" || rests[0].Title != "/api" {
		t.Errorf("rest node = %+v", rests[0])
	}
}

func TestDerive_MalformedScopedToDocument(t *testing.T) {
	bad := flowdoc.Document{Name: "bad.camel.yaml", Routes: []flowdoc.Route{{}}}
	good := doc("good.camel.yaml", route("r1", "direct:a"))

	topo, err := Derive([]flowdoc.Document{good, bad})
	if err == nil {
		t.Fatal("expected error for malformed document")
	}
	if topo != nil {
		t.Error("no partial topology should be returned")
	}
	var mde *MalformedDocumentError
	if !errors.As(err, &mde) {
		t.Fatalf("expected *MalformedDocumentError, got %T", err)
	}
	if mde.Document != "bad.camel.yaml" || mde.RouteIndex != 0 {
		t.Errorf("error = %+v", mde)
	}
	if !errors.Is(err, ErrMalformedDocument) {
		t.Error("errors.Is(err, ErrMalformedDocument) = false")
	}

	valid, errs := Split([]flowdoc.Document{good, bad})
	if len(valid) != 1 || len(errs) != 1 {
		t.Fatalf("Split = %d valid, %d errors", len(valid), len(errs))
	}
	topo = mustDerive(t, valid)
	if topo.Counts().Routes != 1 {
		t.Errorf("routes = %d, want 1", topo.Counts().Routes)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		doc     flowdoc.Document
		wantErr bool
	}{
		{"missing identifier", flowdoc.Document{Routes: []flowdoc.Route{route("r", "direct:a")}}, true},
		{"route without id or trigger", flowdoc.Document{Name: "x", Routes: []flowdoc.Route{{}}}, true},
		{"route with id only", flowdoc.Document{Name: "x", Routes: []flowdoc.Route{{ID: "r"}}}, false},
		{"route with trigger only", flowdoc.Document{Name: "x", Routes: []flowdoc.Route{{From: flowdoc.From{URI: "timer:t"}}}}, false},
		{"empty document", flowdoc.Document{Name: "x"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.doc)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDerive_UniqueIDsAcrossSameNames(t *testing.T) {
	docs := []flowdoc.Document{
		doc("a.camel.yaml", route("r", "direct:x", "direct:y"), route("r", "direct:y")),
		doc("b.camel.yaml", route("r", "direct:x")),
		doc("a.camel.yaml", route("r", "direct:z", "direct:x")),
	}
	topo := mustDerive(t, docs)

	seen := make(map[string]bool)
	for n := range topo.Nodes() {
		if seen[n.NodeID()] {
			t.Errorf("duplicate id %q", n.NodeID())
		}
		seen[n.NodeID()] = true
	}
	if topo.Counts().Routes != 4 {
		t.Errorf("routes = %d, want 4 (same-named routes must not merge)", topo.Counts().Routes)
	}
	for n := range topo.Nodes() {
		if got, ok := topo.Node(n.NodeID()); !ok || got.NodeID() != n.NodeID() {
			t.Errorf("Node(%q) lookup failed", n.NodeID())
		}
	}
}

func TestDerive_NestedAndMulticastSteps(t *testing.T) {
	r := flowdoc.Route{
		ID:   "fanout",
		From: flowdoc.From{URI: "timer:tick"},
		Steps: []flowdoc.Step{
			{Kind: "log"},
			{Kind: "multicast", Children: []flowdoc.Step{
				{Kind: "to", URI: "direct:a"},
				{Kind: "to", URI: "direct:b"},
			}},
			{Kind: "recipientList", Language: "constant", Expression: "direct:a; seda:c", Delimiter: ";"},
			{Kind: "recipientList", Language: "header", Expression: "targets"},
			{Kind: "choice", Children: []flowdoc.Step{{Kind: "wireTap", URI: "direct:a?block=true"}}},
		},
	}
	docs := []flowdoc.Document{
		doc("fanout.camel.yaml", r),
		doc("sinks.camel.yaml", route("a", "direct:a"), route("b", "direct:b"), route("c", "seda:c")),
	}
	topo := mustDerive(t, docs)
	out := slices.Collect(topo.Outgoing())

	wantTitles := []string{"direct:a", "direct:b", "direct:a", "seda:c", "targets", "direct:a"}
	if len(out) != len(wantTitles) {
		t.Fatalf("outgoing = %d, want %d", len(out), len(wantTitles))
	}
	for i, want := range wantTitles {
		if out[i].Title != want {
			t.Errorf("outgoing[%d] title = %q, want %q", i, out[i].Title, want)
		}
	}
	if out[1].StepPath != "1.1" {
		t.Errorf("multicast child step path = %q, want 1.1", out[1].StepPath)
	}
	if out[4].Kind != KindExternal {
		t.Error("dynamic recipient list must be external")
	}
	if out[5].Kind != KindInternal {
		t.Error("query parameters must not affect matching")
	}
	for in := range topo.Incoming() {
		if in.RouteID == "fanout" && in.Kind != KindExternal {
			t.Error("timer trigger must be external")
		}
		if in.RouteID != "fanout" && in.Kind != KindInternal {
			t.Errorf("incoming %s = %s, want internal", in.RouteID, in.Kind)
		}
	}
}

func TestDerive_UnrecognizedAndTemplatedEndpoints(t *testing.T) {
	docs := []flowdoc.Document{
		doc("a.camel.yaml",
			route("producer", "timer:t", "kafka:orders", "direct:{{target}}"),
			route("kafka-consumer", "kafka:orders"),
			route("templated", "direct:{{target}}")),
	}
	topo := mustDerive(t, docs)
	for out := range topo.Outgoing() {
		if out.Kind != KindExternal {
			t.Errorf("outgoing %q kind = %s, want external", out.Title, out.Kind)
		}
	}
	for in := range topo.Incoming() {
		if in.Kind != KindExternal {
			t.Errorf("incoming %q kind = %s, want external", in.Title, in.Kind)
		}
	}

	// Widening the internal scheme set lets kafka resolve.
	topo = mustDerive(t, docs, WithInternalSchemes("direct", "kafka"))
	out := slices.Collect(topo.Outgoing())
	if out[0].Kind != KindInternal {
		t.Errorf("kafka outgoing kind = %s, want internal", out[0].Kind)
	}
}

func TestDerive_Titles(t *testing.T) {
	withDesc := route("r1", "direct:a")
	withDesc.Description = "Order intake"
	noID := flowdoc.Route{From: flowdoc.From{URI: "timer:tick?period=5000"}}

	topo := mustDerive(t, []flowdoc.Document{doc("t.camel.yaml", withDesc, route("r2", "direct:b"), noID)})
	routes := slices.Collect(topo.Routes())
	want := []string{"Order intake", "r2", "timer:tick"}
	for i, w := range want {
		if routes[i].Title != w {
			t.Errorf("route[%d] title = %q, want %q", i, routes[i].Title, w)
		}
	}
	in := slices.Collect(topo.Incoming())
	if in[2].Title != "timer:tick" {
		t.Errorf("incoming title = %q", in[2].Title)
	}
	if !strings.HasPrefix(routes[2].ID, "route/t.camel.yaml/2/") {
		t.Errorf("route id = %q", routes[2].ID)
	}
}
