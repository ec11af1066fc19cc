package ir

import (
	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

// Document is the extraction result for one API document.
type Document struct {
	// Routes in path declaration order, then method enumeration order.
	Routes []*Route `json:"routes"`

	// Schemas holds the declared component schemas in declaration order.
	Schemas *SchemaSet `json:"schemas"`
}

// MarshalDeterministic returns an indented JSON encoding of d. The output
// depends only on the document content, so two extractions of the same input
// produce identical bytes.
func (d *Document) MarshalDeterministic() ([]byte, error) {
	return json.Marshal(d,
		json.Deterministic(true),
		jsontext.WithIndent("  "),
	)
}

// Route returns the route with the given name.
func (d *Document) Route(name string) (*Route, bool) {
	for _, r := range d.Routes {
		if r.Name == name {
			return r, true
		}
	}
	return nil, false
}
