package annotate

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/knowgraph/knowgraph/internal/model"
)

// StandaloneParser reads documents that are annotation blocks themselves
// rather than source code: a YAML stream where each document is one block.
// Connectors feeding entities from wikis or issue trackers use this to emit
// the same ParseResult shape as file-based parsing.
type StandaloneParser struct {
	// Origin tags emitted entities; defaults to OriginFile when empty.
	Origin string
}

// Parse decodes every YAML document in content. Documents are decoded
// independently, so a malformed document becomes a diagnostic without
// losing the rest of the stream. Blocks without a name become diagnostics,
// since standalone documents have no construct to borrow one from.
func (p *StandaloneParser) Parse(source string, content []byte) (*model.ParseResult, error) {
	origin := p.Origin
	if origin == "" {
		origin = model.OriginFile
	}
	result := &model.ParseResult{Source: source, Origin: origin}

	seen := make(map[string]bool)
	for i, doc := range splitDocuments(content) {
		docIdx := i + 1
		var b block
		if err := yaml.Unmarshal(doc, &b); err != nil {
			result.Diagnostics = append(result.Diagnostics, model.Diagnostic{
				FilePath: source,
				Line:     docIdx,
				Message:  fmt.Sprintf("malformed annotation document: %v", err),
			})
			continue
		}
		if b.Name == "" {
			result.Diagnostics = append(result.Diagnostics, model.Diagnostic{
				FilePath: source,
				Line:     docIdx,
				Message:  "annotation document missing name",
			})
			continue
		}

		entType := b.Type
		if entType == "" {
			entType = "document"
		}
		ent := &model.Entity{
			ID:            EntityID(source, b.Name),
			Type:          entType,
			Name:          b.Name,
			Description:   b.Description,
			Owner:         b.Owner,
			Status:        b.Status,
			Tags:          dedupTags(b.Tags),
			FilePath:      source,
			BusinessGoal:  b.Context.BusinessGoal,
			FunnelStage:   b.Context.FunnelStage,
			RevenueImpact: b.Context.RevenueImpact,
			Origin:        origin,
			Properties:    blockProperties(&b),
		}
		if seen[ent.ID] {
			result.Diagnostics = append(result.Diagnostics, model.Diagnostic{
				FilePath: source,
				Line:     docIdx,
				Message:  fmt.Sprintf("duplicate annotation for %q", ent.ID),
			})
			continue
		}
		seen[ent.ID] = true

		result.Entities = append(result.Entities, ent)
		result.Edges = append(result.Edges, dependencyEdges(ent.ID, b.Dependencies)...)
		result.Links = append(result.Links, externalLinks(ent.ID, &b)...)
	}
	return result, nil
}

// splitDocuments cuts a YAML stream at "---" separator lines. Splitting
// before decode keeps each document's errors local to that document; a
// shared decoder would abort the whole stream on the first bad one.
func splitDocuments(content []byte) [][]byte {
	var docs [][]byte
	var current [][]byte

	flush := func() {
		if len(current) == 0 {
			return
		}
		doc := bytes.Join(current, []byte("\n"))
		current = nil
		if len(bytes.TrimSpace(doc)) == 0 {
			return
		}
		docs = append(docs, doc)
	}

	for _, line := range bytes.Split(content, []byte("\n")) {
		trimmed := bytes.TrimRight(line, " \t\r")
		if bytes.Equal(trimmed, []byte("---")) {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()
	return docs
}
