package query

import (
	"testing"

	"github.com/knowgraph/knowgraph/internal/model"
	"github.com/knowgraph/knowgraph/internal/store"
)

func seedGraph(t *testing.T) (*Engine, *store.Store) {
	t.Helper()
	s, err := store.OpenMemory()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })

	billing := &model.Entity{
		ID: "a.go::billing", Type: "service", Name: "billing",
		Owner: "platform-team", FilePath: "a.go", Origin: model.OriginFile,
	}
	ledger := &model.Entity{
		ID: "b.go::ledger", Type: "service", Name: "ledger",
		Owner: "platform-team", FilePath: "b.go", Origin: model.OriginFile,
	}

	err = s.ReplaceSource("a.go", "h1", []*model.Entity{billing},
		[]*model.DependencyEdge{
			{SourceID: billing.ID, TargetID: "ledger", Type: "calls"},
			{SourceID: billing.ID, TargetID: "ghost-service", Type: "calls"},
		},
		[]*model.ExternalLink{{EntityID: billing.ID, URL: "https://wiki/billing", Type: "documentation"}})
	if err != nil {
		t.Fatal(err)
	}
	err = s.ReplaceSource("b.go", "h2", []*model.Entity{ledger},
		[]*model.DependencyEdge{{SourceID: ledger.ID, TargetID: "a.go::billing", Type: "reads_from"}}, nil)
	if err != nil {
		t.Fatal(err)
	}
	return NewEngine(s), s
}

func TestGetResolvesDependencies(t *testing.T) {
	engine, _ := seedGraph(t)

	detail, err := engine.Get("a.go::billing")
	if err != nil {
		t.Fatal(err)
	}
	if detail == nil {
		t.Fatal("entity not found")
	}

	var outbound, inbound []model.ResolvedDependency
	for _, d := range detail.Dependencies {
		switch d.Direction {
		case "outbound":
			outbound = append(outbound, d)
		case "inbound":
			inbound = append(inbound, d)
		}
	}

	if len(outbound) != 2 {
		t.Fatalf("outbound = %d, want 2", len(outbound))
	}
	// "ghost-service" matches nothing; "ledger" resolves by bare name.
	byTarget := map[string]model.ResolvedDependency{}
	for _, d := range outbound {
		byTarget[d.Edge.TargetID] = d
	}
	ledger, ok := byTarget["ledger"]
	if !ok || !ledger.Resolved || ledger.Target == nil || ledger.Target.ID != "b.go::ledger" {
		t.Errorf("ledger edge = %+v", ledger)
	}
	ghost, ok := byTarget["ghost-service"]
	if !ok || ghost.Resolved || ghost.Target != nil {
		t.Errorf("dangling edge = %+v", ghost)
	}

	// ledger targets billing by full entity id.
	if len(inbound) != 1 {
		t.Fatalf("inbound = %d, want 1", len(inbound))
	}
	if inbound[0].Edge.SourceID != "b.go::ledger" || !inbound[0].Resolved {
		t.Errorf("inbound edge = %+v", inbound[0])
	}

	if len(detail.Links) != 1 || detail.Links[0].URL != "https://wiki/billing" {
		t.Errorf("links = %+v", detail.Links)
	}
}

func TestGetInboundByBareName(t *testing.T) {
	engine, _ := seedGraph(t)

	// billing -> "ledger" is declared by bare name; it must surface as an
	// inbound edge on the ledger entity.
	detail, err := engine.Get("b.go::ledger")
	if err != nil {
		t.Fatal(err)
	}
	var inbound int
	for _, d := range detail.Dependencies {
		if d.Direction == "inbound" {
			inbound++
			if d.Edge.SourceID != "a.go::billing" {
				t.Errorf("inbound source = %s", d.Edge.SourceID)
			}
		}
	}
	if inbound != 1 {
		t.Errorf("inbound edges = %d, want 1", inbound)
	}
}

func TestGetUnknownID(t *testing.T) {
	engine, _ := seedGraph(t)

	detail, err := engine.Get("nope::nothing")
	if err != nil {
		t.Fatal(err)
	}
	if detail != nil {
		t.Errorf("detail = %+v, want nil", detail)
	}
}

func TestSearchIsDeterministic(t *testing.T) {
	engine, _ := seedGraph(t)

	for i := 0; i < 3; i++ {
		got, err := engine.Search(store.SearchParams{Type: "service"})
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 2 || got[0].ID != "a.go::billing" || got[1].ID != "b.go::ledger" {
			t.Fatalf("run %d: unexpected order %+v", i, got)
		}
	}
}
