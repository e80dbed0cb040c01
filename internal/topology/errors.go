package topology

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyID is returned by node constructors given an empty id.
	ErrEmptyID = errors.New("node id must not be empty")
	// ErrInvalidKind is returned for a kind other than internal or external.
	ErrInvalidKind = errors.New("invalid node kind")
	// ErrMalformedDocument is the sentinel wrapped by MalformedDocumentError.
	ErrMalformedDocument = errors.New("malformed document")
)

// MalformedDocumentError reports a document that cannot take part in a
// derivation pass. It is scoped to one document; other documents of the
// same batch remain usable.
type MalformedDocumentError struct {
	Document   string // Offending document identifier, empty when that is the problem.
	Index      int    // Position of the document in the input list.
	RouteIndex int    // Offending route, -1 when the document itself is invalid.
	Reason     string
}

func (e *MalformedDocumentError) Error() string {
	name := e.Document
	if name == "" {
		name = fmt.Sprintf("#%d", e.Index)
	}
	if e.RouteIndex >= 0 {
		return fmt.Sprintf("malformed document %s: route %d: %s", name, e.RouteIndex, e.Reason)
	}
	return fmt.Sprintf("malformed document %s: %s", name, e.Reason)
}

func (e *MalformedDocumentError) Unwrap() error { return ErrMalformedDocument }
