package walker

import (
	"errors"
	"fmt"
	"os"

	"github.com/ziadkadry99/routemap/internal/flowdoc"
	"github.com/ziadkadry99/routemap/internal/progress"
)

// Load reads and parses every integration file in files, in order. Files
// that fail to read or parse are left out of docs and reported in the
// joined error, so callers can choose to continue with what did load.
func Load(files []FileInfo, r progress.Reporter) ([]flowdoc.Document, error) {
	if r == nil {
		r = progress.Nop{}
	}

	var integrations []FileInfo
	for _, f := range files {
		if f.Type == "INTEGRATION" {
			integrations = append(integrations, f)
		}
	}

	r.Start(len(integrations))
	defer r.Finish()

	var (
		docs []flowdoc.Document
		errs []error
	)
	for i, f := range integrations {
		r.Update(i+1, f.RelPath)

		data, err := os.ReadFile(f.Path)
		if err != nil {
			errs = append(errs, fmt.Errorf("reading %s: %w", f.RelPath, err))
			continue
		}
		doc, err := flowdoc.Parse(f.RelPath, data)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		docs = append(docs, *doc)
	}
	return docs, errors.Join(errs...)
}
