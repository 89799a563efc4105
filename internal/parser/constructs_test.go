package parser

import (
	"testing"

	"github.com/knowgraph/knowgraph/internal/lang"
)

func parseSource(t *testing.T, l lang.Language, src string) ([]Construct, []CommentRegion) {
	t.Helper()
	spec := lang.ForLanguage(l)
	if spec == nil {
		t.Fatalf("no spec for %s", l)
	}
	tree, err := Parse(l, []byte(src))
	if err != nil {
		t.Fatal(err)
	}
	defer tree.Close()
	root := tree.RootNode()
	return Constructs(root, []byte(src), spec), CommentRegions(root, []byte(src), spec)
}

func TestConstructsGo(t *testing.T) {
	src := `package p

func Charge(amount int) error { return nil }

type Ledger struct{}

func (l *Ledger) Append(entry string) {}
`
	constructs, _ := parseSource(t, lang.Go, src)
	if len(constructs) != 3 {
		t.Fatalf("constructs = %+v", constructs)
	}

	byName := map[string]Construct{}
	for _, c := range constructs {
		byName[c.Name] = c
	}
	if c := byName["Charge"]; c.Kind != "function" || c.StartLine != 3 {
		t.Errorf("Charge = %+v", c)
	}
	if c := byName["Charge"]; c.Signature != "Charge(amount int)" {
		t.Errorf("signature = %q", c.Signature)
	}
	if c := byName["Ledger"]; c.Kind != "class" {
		t.Errorf("Ledger = %+v", c)
	}
	if c := byName["Append"]; c.Kind != "function" {
		// Go methods are not nested inside the type node.
		t.Errorf("Append = %+v", c)
	}
}

func TestConstructsPythonMethods(t *testing.T) {
	src := `class Wallet:
    def deposit(self, amount):
        pass

def helper():
    pass
`
	constructs, _ := parseSource(t, lang.Python, src)
	byName := map[string]Construct{}
	for _, c := range constructs {
		byName[c.Name] = c
	}
	if c := byName["Wallet"]; c.Kind != "class" {
		t.Errorf("Wallet = %+v", c)
	}
	if c := byName["deposit"]; c.Kind != "method" {
		t.Errorf("deposit = %+v", c)
	}
	if c := byName["helper"]; c.Kind != "function" {
		t.Errorf("helper = %+v", c)
	}
}

func TestConstructsArrowFunction(t *testing.T) {
	src := `const charge = (amount) => amount > 0;
`
	constructs, _ := parseSource(t, lang.JavaScript, src)
	if len(constructs) != 1 || constructs[0].Name != "charge" {
		t.Fatalf("constructs = %+v", constructs)
	}
}

func TestCommentRegionsMergeAdjacentLines(t *testing.T) {
	src := `package p

// line one
// line two

// separate
func F() {}
`
	_, regions := parseSource(t, lang.Go, src)
	if len(regions) != 2 {
		t.Fatalf("regions = %+v", regions)
	}
	if regions[0].StartLine != 3 || regions[0].EndLine != 4 {
		t.Errorf("merged region = %+v", regions[0])
	}
	if regions[1].StartLine != 6 {
		t.Errorf("separate region = %+v", regions[1])
	}
}

func TestCommentRegionsPythonDocstrings(t *testing.T) {
	src := `"""module docstring"""

def f():
    """function docstring"""
    return 1
`
	_, regions := parseSource(t, lang.Python, src)
	var docstrings int
	for _, r := range regions {
		if r.Docstring {
			docstrings++
		}
	}
	if docstrings != 2 {
		t.Errorf("docstring regions = %d, want 2: %+v", docstrings, regions)
	}
}

func TestParseUnsupportedLanguage(t *testing.T) {
	if _, err := Parse(lang.Language("cobol"), []byte("x")); err == nil {
		t.Error("expected an error for an unregistered language")
	}
}
