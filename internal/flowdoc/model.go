package flowdoc

// Document is one parsed integration file.
type Document struct {
	Name   string  `json:"name"` // Source file name, used as the document identifier.
	Routes []Route `json:"routes"`
	Rests  []Rest  `json:"rests"`
}

// Route is a processing pipeline with one trigger and an ordered list of steps.
type Route struct {
	ID          string `json:"id"`
	Description string `json:"description,omitempty"` // Optional display title.
	From        From   `json:"from"`
	Steps       []Step `json:"steps"`
}

// From describes the consumer endpoint that starts a route.
type From struct {
	ID         string         `json:"id,omitempty" yaml:"id,omitempty"`
	URI        string         `json:"uri" yaml:"uri"`
	Parameters map[string]any `json:"parameters,omitempty" yaml:"parameters,omitempty"`
}

// Step is a single processing element of a route. Container steps (choice,
// multicast, split, doTry, ...) carry their nested steps in Children, in
// declaration order.
type Step struct {
	Kind       string         `json:"kind"`
	ID         string         `json:"id,omitempty"`
	URI        string         `json:"uri,omitempty"`
	Parameters map[string]any `json:"parameters,omitempty"`

	// Expression and Delimiter are set for recipientList steps.
	Expression string `json:"expression,omitempty"`
	Language   string `json:"language,omitempty"`
	Delimiter  string `json:"delimiter,omitempty"`

	Children   []Step         `json:"children,omitempty"`
	Definition map[string]any `json:"definition,omitempty"`
}

// Rest is a REST service declaration with a base path.
type Rest struct {
	ID          string          `json:"id,omitempty"`
	Path        string          `json:"path"`
	Description string          `json:"description,omitempty"`
	Operations  []RestOperation `json:"operations"`
}

// RestOperation is one verb + path entry of a REST declaration.
type RestOperation struct {
	Method string `json:"method"`
	ID     string `json:"id,omitempty"`
	Path   string `json:"path"`
	To     string `json:"to,omitempty"`
}

// RestMethods lists the verbs read from a rest declaration, in output order.
var RestMethods = []string{"get", "post", "put", "delete", "patch", "head"}

// RouteCount returns the total number of routes across docs.
func RouteCount(docs []Document) int {
	n := 0
	for _, d := range docs {
		n += len(d.Routes)
	}
	return n
}
