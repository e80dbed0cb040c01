package project

import (
	"errors"
	"log/slog"

	"github.com/ziadkadry99/routemap/internal/flowdoc"
	"github.com/ziadkadry99/routemap/internal/topology"
)

// DeriveOptions control how documents are turned into a topology.
type DeriveOptions struct {
	InternalSchemes []string
	SkipMalformed   bool // derive from the well-formed documents and log the rest
}

func (o DeriveOptions) topologyOptions() []topology.Option {
	if len(o.InternalSchemes) == 0 {
		return nil
	}
	return []topology.Option{topology.WithInternalSchemes(o.InternalSchemes...)}
}

// Derive runs one derivation pass and logs its warnings. Malformed
// documents fail the pass unless opts.SkipMalformed is set.
func Derive(log *slog.Logger, docs []flowdoc.Document, opts DeriveOptions) (*topology.Topology, error) {
	if opts.SkipMalformed {
		valid, errs := topology.Split(docs)
		for _, err := range errs {
			logMalformed(log, err)
		}
		docs = valid
	}

	topo, err := topology.Derive(docs, opts.topologyOptions()...)
	if err != nil {
		return nil, err
	}
	for _, w := range topo.Warnings() {
		log.Warn(w.Message,
			"code", w.Code,
			"document", w.Document,
			"route_id", w.RouteID,
			"identifier", w.Identifier,
		)
	}
	return topo, nil
}

// HandleLoadErrors decides what to do with errors from reading or parsing
// documents: with skip set each one is logged and nil is returned,
// otherwise err is returned unchanged.
func HandleLoadErrors(log *slog.Logger, err error, skip bool) error {
	if err == nil || !skip {
		return err
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			logMalformed(log, e)
		}
		return nil
	}
	logMalformed(log, err)
	return nil
}

func logMalformed(log *slog.Logger, err error) {
	var me *topology.MalformedDocumentError
	if errors.As(err, &me) {
		log.Warn("skipping malformed document", "document", me.Document, "route_index", me.RouteIndex, "reason", me.Reason)
		return
	}
	var pe *flowdoc.ParseError
	if errors.As(err, &pe) {
		log.Warn("skipping unparsable document", "document", pe.File, "error", pe.Err)
		return
	}
	log.Warn("skipping document", "error", err)
}
