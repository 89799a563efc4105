package annotate

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/knowgraph/knowgraph/internal/lang"
	"github.com/knowgraph/knowgraph/internal/model"
	"github.com/knowgraph/knowgraph/internal/parser"
)

// DefaultMarkers are the annotation marker tags recognized out of the box.
func DefaultMarkers() []string {
	return []string{"knowgraph", "codegraph"}
}

// CommentParser extracts annotation blocks from one language's comments and
// docstrings. An annotation is a marker tag followed by a YAML body; the
// block attaches to the nearest following construct, or to the file itself
// for module-level annotations.
type CommentParser struct {
	spec    *lang.LanguageSpec
	markers []string
}

// NewCommentParser builds a parser for a language spec. Marker tags may be
// given with or without the leading "@" or trailing ":".
func NewCommentParser(spec *lang.LanguageSpec, markers []string) *CommentParser {
	if len(markers) == 0 {
		markers = DefaultMarkers()
	}
	normalized := make([]string, 0, len(markers))
	for _, m := range markers {
		m = strings.TrimPrefix(strings.TrimSuffix(m, ":"), "@")
		if m != "" {
			normalized = append(normalized, m)
		}
	}
	return &CommentParser{spec: spec, markers: normalized}
}

// Parse extracts every annotation block in content. Malformed blocks become
// diagnostics on the result; the rest of the file is still parsed. A non-nil
// error means the file could not be parsed at all.
func (p *CommentParser) Parse(path string, content []byte) (*model.ParseResult, error) {
	tree, err := parser.Parse(p.spec.Language, content)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	regions := parser.CommentRegions(root, content, p.spec)
	constructs := parser.Constructs(root, content, p.spec)
	sort.Slice(regions, func(i, j int) bool { return regions[i].StartLine < regions[j].StartLine })
	sort.Slice(constructs, func(i, j int) bool { return constructs[i].StartLine < constructs[j].StartLine })

	result := &model.ParseResult{
		Source:   path,
		Language: string(p.spec.Language),
		Origin:   model.OriginFile,
	}

	seen := make(map[string]bool)
	for _, region := range regions {
		body, ok := p.annotationBody(region)
		if !ok {
			continue
		}

		var b block
		if err := yaml.Unmarshal([]byte(body), &b); err != nil {
			result.Diagnostics = append(result.Diagnostics, model.Diagnostic{
				FilePath: path,
				Line:     region.StartLine,
				Message:  fmt.Sprintf("malformed annotation: %v", err),
			})
			continue
		}

		ent := p.buildEntity(path, region, constructs, &b)
		if seen[ent.ID] {
			result.Diagnostics = append(result.Diagnostics, model.Diagnostic{
				FilePath: path,
				Line:     region.StartLine,
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

// annotationBody strips comment syntax from a region, finds the marker line,
// and returns the dedented YAML body that follows it.
func (p *CommentParser) annotationBody(region parser.CommentRegion) (string, bool) {
	lines := p.stripCommentSyntax(region)

	markerIdx := -1
	for i, line := range lines {
		if p.isMarkerLine(strings.TrimSpace(line)) {
			markerIdx = i
			break
		}
	}
	if markerIdx < 0 {
		return "", false
	}
	return dedent(lines[markerIdx+1:]), true
}

// isMarkerLine matches "@marker", "marker:", and "@marker:" forms.
func (p *CommentParser) isMarkerLine(line string) bool {
	for _, m := range p.markers {
		if line == "@"+m || line == m+":" || line == "@"+m+":" {
			return true
		}
	}
	return false
}

// stripCommentSyntax removes comment delimiters and prefixes, returning the
// region's payload lines.
func (p *CommentParser) stripCommentSyntax(region parser.CommentRegion) []string {
	text := region.Text

	if region.Docstring {
		for _, q := range []string{`"""`, `'''`, `"`, `'`} {
			if strings.HasPrefix(text, q) && strings.HasSuffix(text, q) && len(text) >= 2*len(q) {
				text = strings.TrimSuffix(strings.TrimPrefix(text, q), q)
				break
			}
		}
		return strings.Split(text, "\n")
	}

	if p.spec.BlockCommentOpen != "" && strings.HasPrefix(strings.TrimSpace(text), p.spec.BlockCommentOpen) {
		text = strings.TrimSpace(text)
		text = strings.TrimPrefix(text, p.spec.BlockCommentOpen)
		text = strings.TrimSuffix(text, p.spec.BlockCommentClose)
		lines := strings.Split(text, "\n")
		for i, line := range lines {
			// Strip the decorative "*" gutter of Javadoc-style blocks.
			trimmed := strings.TrimLeft(line, " \t")
			if strings.HasPrefix(trimmed, "*") {
				lines[i] = strings.TrimPrefix(strings.TrimPrefix(trimmed, "*"), " ")
			} else {
				lines[i] = line
			}
		}
		return lines
	}

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		trimmed := strings.TrimLeft(line, " \t")
		if strings.HasPrefix(trimmed, p.spec.LineComment) {
			lines[i] = strings.TrimPrefix(strings.TrimPrefix(trimmed, p.spec.LineComment), " ")
		} else {
			lines[i] = line
		}
	}
	return lines
}

// dedent removes the common leading indentation so an indented YAML mapping
// parses as a top-level document. Only spaces count as indentation; a tab
// has no fixed width, so stripping it by byte count would cut into content.
func dedent(lines []string) string {
	minIndent := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := leadingSpaces(line)
		if minIndent < 0 || indent < minIndent {
			minIndent = indent
		}
	}
	if minIndent <= 0 {
		return strings.Join(lines, "\n")
	}
	out := make([]string, len(lines))
	for i, line := range lines {
		if len(line) >= minIndent {
			out[i] = line[minIndent:]
		}
	}
	return strings.Join(out, "\n")
}

func leadingSpaces(s string) int {
	n := 0
	for n < len(s) && s[n] == ' ' {
		n++
	}
	return n
}

// buildEntity derives the entity for one annotation block. The declared name
// and type win; otherwise the associated construct supplies them, falling
// back to a module-level entity named after the file.
func (p *CommentParser) buildEntity(path string, region parser.CommentRegion, constructs []parser.Construct, b *block) *model.Entity {
	var assoc *parser.Construct
	if b.Type != "module" {
		if region.Docstring {
			assoc = containingConstruct(constructs, region)
		} else {
			assoc = followingConstruct(constructs, region)
		}
	}

	name := b.Name
	entType := b.Type
	line := region.StartLine
	signature := ""
	if assoc != nil {
		if name == "" {
			name = assoc.Name
		}
		if entType == "" {
			entType = assoc.Kind
		}
		line = assoc.StartLine
		signature = assoc.Signature
	}
	if name == "" {
		base := filepath.Base(path)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if entType == "" {
		entType = "module"
	}

	ent := &model.Entity{
		ID:            EntityID(path, name),
		Type:          entType,
		Name:          name,
		Description:   b.Description,
		Owner:         b.Owner,
		Status:        b.Status,
		Tags:          dedupTags(b.Tags),
		Language:      string(p.spec.Language),
		FilePath:      path,
		Line:          line,
		Signature:     signature,
		BusinessGoal:  b.Context.BusinessGoal,
		FunnelStage:   b.Context.FunnelStage,
		RevenueImpact: b.Context.RevenueImpact,
		Origin:        model.OriginFile,
	}

	ent.Properties = blockProperties(b)
	return ent
}

// blockProperties maps the schemaless annotation sections into the entity's
// properties bag. Returns nil when nothing is declared.
func blockProperties(b *block) map[string]any {
	if len(b.Compliance) == 0 && b.Operational.empty() {
		return nil
	}
	props := map[string]any{}
	if len(b.Compliance) > 0 {
		props["compliance"] = b.Compliance
	}
	if !b.Operational.empty() {
		op := map[string]any{}
		if b.Operational.SLA != "" {
			op["sla"] = b.Operational.SLA
		}
		if b.Operational.OnCallTeam != "" {
			op["on_call_team"] = b.Operational.OnCallTeam
		}
		props["operational"] = op
	}
	return props
}

// EntityID derives the stable identifier for a construct: the source path
// joined with the declared name. Re-parsing the same construct always yields
// the same id.
func EntityID(source, name string) string {
	return source + "::" + name
}

// followingConstruct returns the first construct starting after the region.
func followingConstruct(constructs []parser.Construct, region parser.CommentRegion) *parser.Construct {
	for i := range constructs {
		if constructs[i].StartLine > region.EndLine {
			return &constructs[i]
		}
	}
	return nil
}

// containingConstruct returns the innermost construct whose span contains the
// region (docstrings live inside the construct they document).
func containingConstruct(constructs []parser.Construct, region parser.CommentRegion) *parser.Construct {
	var best *parser.Construct
	for i := range constructs {
		c := &constructs[i]
		if c.StartLine <= region.StartLine && c.EndLine >= region.EndLine {
			if best == nil || c.StartLine > best.StartLine {
				best = c
			}
		}
	}
	return best
}

// dependencyEdges converts the declared dependency groups into edges with a
// deterministic order (group name, then declaration order).
func dependencyEdges(sourceID string, deps map[string][]string) []*model.DependencyEdge {
	if len(deps) == 0 {
		return nil
	}
	types := make([]string, 0, len(deps))
	for t := range deps {
		types = append(types, t)
	}
	sort.Strings(types)

	var edges []*model.DependencyEdge
	seen := make(map[string]bool)
	for _, t := range types {
		for _, target := range deps[t] {
			target = strings.TrimSpace(target)
			if target == "" {
				continue
			}
			key := t + "\x00" + target
			if seen[key] {
				continue
			}
			seen[key] = true
			edges = append(edges, &model.DependencyEdge{SourceID: sourceID, TargetID: target, Type: t})
		}
	}
	return edges
}

// externalLinks collects declared links plus operational monitoring
// dashboards, deduplicated by URL.
func externalLinks(entityID string, b *block) []*model.ExternalLink {
	decls := make([]linkDecl, 0, len(b.Links)+len(b.Operational.MonitoringDashboards))
	decls = append(decls, b.Links...)
	decls = append(decls, b.Operational.MonitoringDashboards...)

	var links []*model.ExternalLink
	seen := make(map[string]bool)
	for _, d := range decls {
		if d.URL == "" || seen[d.URL] {
			continue
		}
		seen[d.URL] = true
		links = append(links, &model.ExternalLink{
			EntityID: entityID,
			URL:      d.URL,
			Title:    d.Title,
			Type:     d.Type,
		})
	}
	return links
}

func dedupTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
