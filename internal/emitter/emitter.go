// Package emitter renders crawl results into output formats. Additional
// formats register themselves at startup; the built-in JSON emitter is always
// available and is the default.
package emitter

import (
	"fmt"
	"sort"

	"github.com/cmdsaw/cmdsaw/internal/schema"
)

// Emitter renders one result. Implementations must be deterministic: the
// same result always produces the same bytes.
type Emitter interface {
	Emit(result *schema.Result) ([]byte, error)
	Format() string
}

var registered = map[string]Emitter{}

// Register wires in an emitter under its format name. Later registrations
// for the same format win.
func Register(e Emitter) {
	registered[e.Format()] = e
}

// Get returns the emitter for a format name. The empty name means JSON.
func Get(format string) (Emitter, error) {
	if format == "" {
		format = "json"
	}
	e, ok := registered[format]
	if !ok {
		return nil, fmt.Errorf("unknown output format %q (available: %v)", format, Formats())
	}
	return e, nil
}

// Formats lists the registered format names, sorted.
func Formats() []string {
	names := make([]string, 0, len(registered))
	for name := range registered {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func init() {
	Register(&JSONEmitter{})
}

// JSONEmitter renders the canonical pretty-printed JSON document.
type JSONEmitter struct{}

func (e *JSONEmitter) Format() string { return "json" }

func (e *JSONEmitter) Emit(result *schema.Result) ([]byte, error) {
	s, err := schema.ToJSON(result)
	if err != nil {
		return nil, err
	}
	return []byte(s + "\n"), nil
}
