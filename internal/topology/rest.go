package topology

import (
	"strconv"
	"strings"

	"github.com/ziadkadry99/routemap/internal/flowdoc"
)

func discoverRest(file string, docKey []string, index int, rest flowdoc.Rest) (RestNode, error) {
	key := append(append([]string{}, docKey...), strconv.Itoa(index), rest.Path)

	title := rest.Description
	if title == "" {
		title = rest.Path
	}
	if title == "" {
		title = "rest"
	}
	return NewRestNode(rest.Path, composeID("rest", key...), OperationURIs(rest), title, file, rest)
}

// OperationURIs returns "METHOD /base/path" for each operation of rest,
// without duplicates, in the order of rest.Operations. The parser groups
// operations by verb in flowdoc.RestMethods order.
func OperationURIs(rest flowdoc.Rest) []string {
	seen := make(map[string]bool, len(rest.Operations))
	uris := make([]string, 0, len(rest.Operations))
	for _, op := range rest.Operations {
		u := op.Method + " " + JoinPath(rest.Path, op.Path)
		if seen[u] {
			continue
		}
		seen[u] = true
		uris = append(uris, u)
	}
	return uris
}

// JoinPath concatenates a base path and an operation path with exactly one
// slash between them.
func JoinPath(base, path string) string {
	base = strings.TrimSuffix(base, "/")
	path = strings.TrimPrefix(path, "/")
	switch {
	case path == "" && base == "":
		return "/"
	case path == "":
		return ensureLeadingSlash(base)
	default:
		return ensureLeadingSlash(base + "/" + path)
	}
}

func ensureLeadingSlash(p string) string {
	if strings.HasPrefix(p, "/") {
		return p
	}
	return "/" + p
}
