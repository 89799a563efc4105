package annotate

import (
	"strings"
	"testing"
)

func TestStandaloneParseStream(t *testing.T) {
	content := []byte(`name: billing-runbook
type: runbook
description: Recovery steps for billing outages.
owner: payments-team
tags:
  - billing
dependencies:
  documents:
    - billing-service
---
name: checkout-flow
description: How checkout hands off to billing.
owner: growth-team
`)
	p := &StandaloneParser{Origin: "wiki"}
	res, err := p.Parse("wiki://runbooks/billing", content)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Diagnostics) != 0 {
		t.Fatalf("diagnostics = %+v", res.Diagnostics)
	}
	if len(res.Entities) != 2 {
		t.Fatalf("entities = %d, want 2", len(res.Entities))
	}

	first := res.Entities[0]
	if first.ID != "wiki://runbooks/billing::billing-runbook" {
		t.Errorf("id = %q", first.ID)
	}
	if first.Type != "runbook" || first.Origin != "wiki" {
		t.Errorf("type/origin = %s/%s", first.Type, first.Origin)
	}

	// Missing type defaults to document.
	second := res.Entities[1]
	if second.Type != "document" {
		t.Errorf("type = %q, want document", second.Type)
	}

	if len(res.Edges) != 1 || res.Edges[0].TargetID != "billing-service" {
		t.Errorf("edges = %+v", res.Edges)
	}
}

func TestStandaloneMissingName(t *testing.T) {
	content := []byte(`description: A block nobody can address.
owner: some-team
---
name: fine
owner: some-team
`)
	p := &StandaloneParser{Origin: "wiki"}
	res, err := p.Parse("wiki://page", content)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Entities) != 1 || res.Entities[0].Name != "fine" {
		t.Errorf("entities = %+v", res.Entities)
	}
	if len(res.Diagnostics) != 1 || !strings.Contains(res.Diagnostics[0].Message, "missing name") {
		t.Errorf("diagnostics = %+v", res.Diagnostics)
	}
}

func TestStandaloneDuplicateName(t *testing.T) {
	content := []byte(`name: dup
owner: a-team
---
name: dup
owner: b-team
`)
	p := &StandaloneParser{}
	res, err := p.Parse("doc.yaml", content)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Entities) != 1 || res.Entities[0].Owner != "a-team" {
		t.Errorf("entities = %+v", res.Entities)
	}
	if len(res.Diagnostics) != 1 || !strings.Contains(res.Diagnostics[0].Message, "duplicate") {
		t.Errorf("diagnostics = %+v", res.Diagnostics)
	}
}

func TestStandaloneMalformedDocumentIsIsolated(t *testing.T) {
	content := []byte(`name: ok
owner: a-team
---
	tabs: are not yaml indentation
---
name: also-ok
owner: b-team
`)
	p := &StandaloneParser{}
	res, err := p.Parse("doc.yaml", content)
	if err != nil {
		t.Fatal(err)
	}
	// The bad document yields a diagnostic; the documents before and after
	// it still produce entities.
	if len(res.Entities) != 2 {
		t.Fatalf("entities = %+v", res.Entities)
	}
	if res.Entities[0].Name != "ok" || res.Entities[1].Name != "also-ok" {
		t.Errorf("entities = %+v", res.Entities)
	}
	if len(res.Diagnostics) != 1 || !strings.Contains(res.Diagnostics[0].Message, "malformed") {
		t.Errorf("diagnostics = %+v", res.Diagnostics)
	}
	if res.Diagnostics[0].Line != 2 {
		t.Errorf("diagnostic document index = %d, want 2", res.Diagnostics[0].Line)
	}
}

func TestStandaloneDefaultOrigin(t *testing.T) {
	p := &StandaloneParser{}
	res, err := p.Parse("doc.yaml", []byte("name: x\n"))
	if err != nil {
		t.Fatal(err)
	}
	if res.Origin != "file" || res.Entities[0].Origin != "file" {
		t.Errorf("origin = %q / %q", res.Origin, res.Entities[0].Origin)
	}
}
