package parser

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/knowgraph/knowgraph/internal/lang"
)

// Construct is a named code construct an annotation block can describe.
type Construct struct {
	Kind      string // "function", "method", or "class"
	Name      string
	StartLine int
	EndLine   int
	Signature string
}

// CommentRegion is a contiguous comment (or docstring) with its line span.
// Adjacent line comments are merged into one region so a YAML annotation
// spread over many comment lines arrives as a single block.
type CommentRegion struct {
	StartLine int
	EndLine   int
	Text      string
	Docstring bool
}

// safeRowToLine converts a zero-based tree-sitter row to a 1-based line.
func safeRowToLine(row uint) int {
	return int(row) + 1
}

func toSet(kinds []string) map[string]bool {
	set := make(map[string]bool, len(kinds))
	for _, k := range kinds {
		set[k] = true
	}
	return set
}

// Constructs extracts all named functions, methods, and classes in source
// order. Functions nested inside a class construct are reported as methods.
func Constructs(root *tree_sitter.Node, source []byte, spec *lang.LanguageSpec) []Construct {
	funcTypes := toSet(spec.FunctionNodeTypes)
	classTypes := toSet(spec.ClassNodeTypes)

	var out []Construct
	var visit func(node *tree_sitter.Node, insideClass bool)
	visit = func(node *tree_sitter.Node, insideClass bool) {
		kind := node.Kind()

		if classTypes[kind] {
			if name := constructName(node, source); name != "" {
				out = append(out, Construct{
					Kind:      "class",
					Name:      name,
					StartLine: safeRowToLine(node.StartPosition().Row),
					EndLine:   safeRowToLine(node.EndPosition().Row),
				})
			}
			for i := uint(0); i < node.ChildCount(); i++ {
				if child := node.Child(i); child != nil {
					visit(child, true)
				}
			}
			return
		}

		if funcTypes[kind] {
			if name := constructName(node, source); name != "" {
				c := Construct{
					Kind:      "function",
					Name:      name,
					StartLine: safeRowToLine(node.StartPosition().Row),
					EndLine:   safeRowToLine(node.EndPosition().Row),
				}
				if insideClass {
					c.Kind = "method"
				}
				if params := node.ChildByFieldName("parameters"); params != nil {
					c.Signature = name + NodeText(params, source)
				}
				out = append(out, c)
			}
			// Nested functions keep the enclosing classification.
		}

		for i := uint(0); i < node.ChildCount(); i++ {
			if child := node.Child(i); child != nil {
				visit(child, insideClass)
			}
		}
	}
	visit(root, false)
	return out
}

// constructName resolves the declared name of a construct node, covering the
// grammars that do not expose a "name" field.
func constructName(node *tree_sitter.Node, source []byte) string {
	if nameNode := node.ChildByFieldName("name"); nameNode != nil {
		return NodeText(nameNode, source)
	}

	// JS/TS arrow functions: const f = () => {}. The name lives on the
	// parent variable_declarator.
	if node.Kind() == "arrow_function" || node.Kind() == "function_expression" {
		if p := node.Parent(); p != nil && p.Kind() == "variable_declarator" {
			if nameNode := p.ChildByFieldName("name"); nameNode != nil {
				return NodeText(nameNode, source)
			}
		}
		return ""
	}

	// Kotlin and a few grammars expose the name as a bare identifier child.
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "identifier", "simple_identifier", "type_identifier", "word", "constant":
			return NodeText(child, source)
		}
	}
	return ""
}

// CommentRegions collects every comment region in source order, merging runs
// of adjacent line comments, and appends docstring regions for languages that
// carry annotations in docstrings.
func CommentRegions(root *tree_sitter.Node, source []byte, spec *lang.LanguageSpec) []CommentRegion {
	commentTypes := toSet(spec.CommentNodeTypes)

	var regions []CommentRegion
	Walk(root, func(node *tree_sitter.Node) bool {
		if !commentTypes[node.Kind()] {
			return true
		}
		text := NodeText(node, source)
		start := safeRowToLine(node.StartPosition().Row)
		end := safeRowToLine(node.EndPosition().Row)

		// Merge with the previous region when both are line comments on
		// consecutive lines.
		if n := len(regions); n > 0 && spec.LineComment != "" {
			prev := &regions[n-1]
			if !prev.Docstring && prev.EndLine == start-1 &&
				strings.HasPrefix(strings.TrimSpace(text), spec.LineComment) &&
				strings.HasPrefix(strings.TrimSpace(prev.Text), spec.LineComment) {
				prev.Text += "\n" + text
				prev.EndLine = end
				return false
			}
		}
		regions = append(regions, CommentRegion{StartLine: start, EndLine: end, Text: text})
		return false
	})

	if spec.HasDocstrings {
		regions = append(regions, docstringRegions(root, source, spec)...)
	}
	return regions
}

// docstringRegions finds string literals opening a module, class, or function
// body (Python-style docstrings).
func docstringRegions(root *tree_sitter.Node, source []byte, spec *lang.LanguageSpec) []CommentRegion {
	ownerTypes := toSet(spec.FunctionNodeTypes)
	for _, k := range spec.ClassNodeTypes {
		ownerTypes[k] = true
	}

	var regions []CommentRegion
	appendDocstring := func(body *tree_sitter.Node) {
		if body == nil || body.NamedChildCount() == 0 {
			return
		}
		first := body.NamedChild(0)
		if first == nil || first.Kind() != "expression_statement" || first.NamedChildCount() == 0 {
			return
		}
		str := first.NamedChild(0)
		if str == nil || str.Kind() != "string" {
			return
		}
		regions = append(regions, CommentRegion{
			StartLine: safeRowToLine(str.StartPosition().Row),
			EndLine:   safeRowToLine(str.EndPosition().Row),
			Text:      NodeText(str, source),
			Docstring: true,
		})
	}

	appendDocstring(root) // module docstring
	Walk(root, func(node *tree_sitter.Node) bool {
		if ownerTypes[node.Kind()] {
			appendDocstring(node.ChildByFieldName("body"))
		}
		return true
	})
	return regions
}
