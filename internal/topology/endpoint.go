package topology

import (
	"fmt"
	"strings"
)

// DefaultInternalSchemes are the in-process components whose endpoints can
// connect one route to another.
var DefaultInternalSchemes = []string{"direct", "seda", "vm", "direct-vm"}

// primaryParams names the parameter holding the address of components whose
// URI is written as a bare scheme plus parameters.
var primaryParams = map[string]string{
	"direct":    "name",
	"seda":      "name",
	"vm":        "name",
	"direct-vm": "name",
	"kafka":     "topic",
	"jms":       "destinationName",
	"amqp":      "destinationName",
	"activemq":  "destinationName",
	"timer":     "timerName",
	"kamelet":   "templateId",
}

// Endpoint is a URI reduced to scheme and primary address. Two endpoints
// match when their keys are equal; query parameters never take part.
type Endpoint struct {
	Raw       string `json:"raw"`
	Scheme    string `json:"scheme"`
	Address   string `json:"address"`
	Ambiguous bool   `json:"ambiguous,omitempty"`
}

// ParseEndpoint normalizes uri. params supplies the address when uri has none,
// as in "direct" or "direct:".
func ParseEndpoint(uri string, params map[string]any) Endpoint {
	e := Endpoint{Raw: uri}

	s := strings.TrimSpace(uri)
	if i := strings.IndexByte(s, '?'); i >= 0 {
		s = s[:i]
	}

	scheme, address, found := strings.Cut(s, ":")
	e.Scheme = strings.ToLower(strings.TrimSpace(scheme))
	if found {
		address = strings.TrimPrefix(address, "//")
		address = strings.TrimSuffix(address, "/")
		e.Address = address
	}
	if e.Address == "" {
		if key, ok := primaryParams[e.Scheme]; ok {
			if v, ok := params[key]; ok && v != nil {
				e.Address = fmt.Sprint(v)
			}
		}
	}

	if e.Scheme == "" || e.Address == "" || isTemplated(s) || isTemplated(e.Address) {
		e.Ambiguous = true
	}
	return e
}

// dynamicEndpoint wraps an expression evaluated at runtime.
func dynamicEndpoint(expression string) Endpoint {
	e := ParseEndpoint(expression, nil)
	e.Ambiguous = true
	return e
}

func isTemplated(s string) bool {
	return strings.Contains(s, "${") || strings.Contains(s, "{{")
}

// Key is the normalized identifier used for matching.
func (e Endpoint) Key() string {
	if e.Scheme == "" {
		return ""
	}
	return e.Scheme + ":" + e.Address
}

// String returns the display form of the endpoint.
func (e Endpoint) String() string {
	if e.Ambiguous || e.Key() == "" {
		return strings.TrimSpace(e.Raw)
	}
	return e.Key()
}

// Matcher decides which endpoints may resolve to a route.
type Matcher struct {
	schemes map[string]bool
}

// NewMatcher returns a Matcher that resolves only the given schemes.
func NewMatcher(schemes []string) Matcher {
	m := Matcher{schemes: make(map[string]bool, len(schemes))}
	for _, s := range schemes {
		m.schemes[strings.ToLower(strings.TrimSpace(s))] = true
	}
	return m
}

// Resolvable reports whether e can take part in the lookup.
func (m Matcher) Resolvable(e Endpoint) bool {
	return !e.Ambiguous && m.schemes[e.Scheme]
}
