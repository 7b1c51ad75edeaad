package annot

import (
	"fmt"

	"github.com/himanishpuri/vocalprep/pkg/vocalprep/errs"
	"github.com/himanishpuri/vocalprep/pkg/vocalprep/formats"
)

// Parser turns one annotation file into records. An aggregate file may
// describe many audio files.
type Parser interface {
	Parse(path string) ([]*Record, error)
}

// ParserFunc adapts a function to the Parser interface.
type ParserFunc func(path string) ([]*Record, error)

func (f ParserFunc) Parse(path string) ([]*Record, error) { return f(path) }

// Registry maps annotation formats to parsers. Only csv is built in;
// parsers for the other formats are registered by the caller.
type Registry struct {
	parsers map[formats.Annot]Parser
}

func NewRegistry() *Registry {
	return &Registry{
		parsers: map[formats.Annot]Parser{
			formats.AnnotCSV: ParserFunc(ParseCSV),
		},
	}
}

func annotFormatNames() []string {
	var names []string
	for _, f := range formats.AnnotFormats() {
		names = append(names, string(f))
	}
	return names
}

// Register installs p for format, replacing any previous parser.
func (r *Registry) Register(format formats.Annot, p Parser) error {
	if !format.Valid() {
		return &errs.UnsupportedFormatError{Kind: "annot", Format: string(format), Valid: annotFormatNames()}
	}
	r.parsers[format] = p
	return nil
}

// Supports reports whether a parser is installed for format.
func (r *Registry) Supports(format formats.Annot) bool {
	_, ok := r.parsers[format]
	return ok
}

// ParseFiles parses every path with the parser for format and returns the
// records in file order.
func (r *Registry) ParseFiles(format formats.Annot, paths ...string) ([]*Record, error) {
	if !format.Valid() {
		return nil, &errs.UnsupportedFormatError{Kind: "annot", Format: string(format), Valid: annotFormatNames()}
	}
	p, ok := r.parsers[format]
	if !ok {
		return nil, &errs.UnsupportedFormatError{Kind: "annot", Format: string(format)}
	}

	var out []*Record
	for _, path := range paths {
		recs, err := p.Parse(path)
		if err != nil {
			return nil, fmt.Errorf("parsing %s annotation %s: %w", format, path, err)
		}
		for _, rec := range recs {
			if rec.Format == "" {
				rec.Format = format
			}
		}
		out = append(out, recs...)
	}
	return out, nil
}
