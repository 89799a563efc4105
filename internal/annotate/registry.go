// Package annotate extracts structured metadata annotations from source
// comments and turns them into entities, dependency edges, and external
// links.
package annotate

import (
	"errors"
	"path/filepath"

	"github.com/knowgraph/knowgraph/internal/lang"
	"github.com/knowgraph/knowgraph/internal/model"
)

// ErrUnsupported is returned by Registry.Parse when no registered parser
// accepts the path.
var ErrUnsupported = errors.New("no parser registered for path")

// Matcher reports whether a parser accepts a file path.
type Matcher func(path string) bool

// Parser extracts a ParseResult from one source file's content.
type Parser interface {
	Parse(path string, content []byte) (*model.ParseResult, error)
}

// Registry dispatches file paths to registered parsers. It holds no
// per-language logic itself; resolution returns the first registered parser
// whose matcher accepts the path.
type Registry struct {
	entries []registryEntry
}

type registryEntry struct {
	matcher Matcher
	parser  Parser
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register associates a matcher with a parser. Registration order decides
// resolution priority.
func (r *Registry) Register(matcher Matcher, parser Parser) {
	r.entries = append(r.entries, registryEntry{matcher: matcher, parser: parser})
}

// Resolve returns the parser for a path, or nil when the path is unsupported.
func (r *Registry) Resolve(path string) Parser {
	for _, e := range r.entries {
		if e.matcher(path) {
			return e.parser
		}
	}
	return nil
}

// Parse resolves and invokes the parser for a path.
func (r *Registry) Parse(path string, content []byte) (*model.ParseResult, error) {
	p := r.Resolve(path)
	if p == nil {
		return nil, ErrUnsupported
	}
	return p.Parse(path, content)
}

// ExtensionMatcher matches paths by file extension.
func ExtensionMatcher(exts ...string) Matcher {
	set := make(map[string]bool, len(exts))
	for _, ext := range exts {
		set[ext] = true
	}
	return func(path string) bool {
		return set[filepath.Ext(path)]
	}
}

// DefaultRegistry registers a comment parser for every supported language.
func DefaultRegistry(markers []string) *Registry {
	r := NewRegistry()
	for _, l := range lang.AllLanguages() {
		spec := lang.ForLanguage(l)
		if spec == nil {
			continue
		}
		r.Register(ExtensionMatcher(spec.FileExtensions...), NewCommentParser(spec, markers))
	}
	return r
}
