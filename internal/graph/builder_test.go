package graph

import (
	"reflect"
	"testing"

	"github.com/sajidalishaik45/coauthor-network/internal/records"
)

func parse(t *testing.T, recs ...records.Record) []records.Publication {
	t.Helper()
	pubs, _ := records.ParseAll(recs)
	return pubs
}

func TestBuildTwoAuthors(t *testing.T) {
	g := Build(parse(t, records.Record{
		Year:                    "2020",
		Authors:                 "A, B",
		AuthorIDs:               "1;2",
		Title:                   "P1",
		AuthorsWithAffiliations: "Aff1, USA; Aff2, USA",
	}))

	if len(g.Nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(g.Nodes))
	}
	for i, want := range []string{"1", "2"} {
		n := g.Nodes[i]
		if n.ID != want || n.Degree != 1 || n.Country != "USA" {
			t.Errorf("node %d = %+v", i, n)
		}
	}
	if g.Nodes[0].DisplayName != "A" || g.Nodes[0].AffiliationText != "Aff1, USA" {
		t.Errorf("unexpected first node metadata %+v", g.Nodes[0])
	}
	want := []Link{{SourceID: "1", TargetID: "2", PublicationTitle: "P1"}}
	if !reflect.DeepEqual(g.Links, want) {
		t.Errorf("links = %+v, want %+v", g.Links, want)
	}
}

func TestBuildRejectedRecordContributesNothing(t *testing.T) {
	g := Build(parse(t, records.Record{
		Authors:                 "A, B",
		AuthorIDs:               "1;2",
		Title:                   "P1",
		AuthorsWithAffiliations: "Aff1, USA; Aff2, USA",
	}))
	if len(g.Nodes) != 0 || len(g.Links) != 0 {
		t.Fatalf("expected empty graph, got %d nodes %d links", len(g.Nodes), len(g.Links))
	}
}

func TestBuildPartialAuthorData(t *testing.T) {
	// Third author has neither an ID nor an affiliation
	g := Build(parse(t, records.Record{
		Year:                    "2021",
		Authors:                 "A, B, C",
		AuthorIDs:               "1;2",
		Title:                   "P",
		AuthorsWithAffiliations: "X, DE; Y, FR",
	}))
	if len(g.Nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(g.Nodes))
	}
	if len(g.Links) != 1 {
		t.Fatalf("expected 1 link, got %d", len(g.Links))
	}
}

func TestBuildDropsLinksToAuthorsWithoutAffiliation(t *testing.T) {
	g := Build(parse(t, records.Record{
		Year:                    "2021",
		Authors:                 "A, B, C",
		AuthorIDs:               "1;2;3",
		Title:                   "P",
		AuthorsWithAffiliations: "X, DE; Y, FR",
	}))
	if len(g.Nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(g.Nodes))
	}
	if len(g.Links) != 1 || g.DroppedLinks != 2 {
		t.Fatalf("expected 1 kept and 2 dropped links, got %d kept %d dropped", len(g.Links), g.DroppedLinks)
	}
	if _, ok := g.Node("3"); ok {
		t.Error("author without affiliation must not become a node")
	}
}

func TestBuildAggregatesPapers(t *testing.T) {
	g := Build(parse(t,
		records.Record{Year: "2020", Authors: "A, B", AuthorIDs: "1;2", Title: "P1", AuthorsWithAffiliations: "Aff1, USA; Aff2, UK"},
		records.Record{Year: "2021", Authors: "A., C", AuthorIDs: "1;3", Title: "P2", AuthorsWithAffiliations: "Other Aff, Canada; Aff3, UK"},
		records.Record{Year: "2021", Authors: "A, B", AuthorIDs: "1;2", Title: "P1", AuthorsWithAffiliations: "Aff1, USA; Aff2, UK"},
	))

	a, ok := g.Node("1")
	if !ok {
		t.Fatal("expected node 1")
	}
	// First occurrence wins; repeated titles collapse
	if a.DisplayName != "A" || a.Country != "USA" {
		t.Errorf("unexpected node metadata %+v", a)
	}
	if a.Degree != 2 || !reflect.DeepEqual(a.PaperTitles, []string{"P1", "P2"}) {
		t.Errorf("unexpected papers %v degree %d", a.PaperTitles, a.Degree)
	}
	// Links are not deduplicated across papers
	if len(g.Links) != 3 {
		t.Errorf("expected 3 links, got %d", len(g.Links))
	}
}

func TestEmitLinks(t *testing.T) {
	tests := []struct {
		name string
		pub  records.Publication
		want int
	}{
		{"single author", records.Publication{Authors: []string{"A"}, AuthorIDs: []string{"1"}}, 0},
		{"four authors", records.Publication{Authors: []string{"A", "B", "C", "D"}, AuthorIDs: []string{"1", "2", "3", "4"}}, 6},
		{"missing id in middle", records.Publication{Authors: []string{"A", "B", "C"}, AuthorIDs: []string{"1", "", "3"}}, 1},
		{"more ids than authors", records.Publication{Authors: []string{"A", "B"}, AuthorIDs: []string{"1", "2", "3"}}, 1},
		{"no ids", records.Publication{Authors: []string{"A", "B"}, AuthorIDs: []string{""}}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(EmitLinks(tt.pub)); got != tt.want {
				t.Errorf("EmitLinks() produced %d links, want %d", got, tt.want)
			}
		})
	}
}

func TestCountryOf(t *testing.T) {
	tests := map[string]string{
		"Dept. of CS, MIT, Cambridge, USA": "USA",
		" Lab, UK ":                        "UK",
		"Nowhere":                          "Nowhere",
		"Trailing,":                        "",
	}
	for in, want := range tests {
		if got := CountryOf(in); got != want {
			t.Errorf("CountryOf(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestEdgesAndNodeIDs(t *testing.T) {
	g := Build(parse(t, records.Record{
		Year: "2020", Authors: "A, B", AuthorIDs: "1;2", Title: "P1",
		AuthorsWithAffiliations: "Aff1, USA; Aff2, USA",
	}))
	if !reflect.DeepEqual(g.NodeIDs(), []string{"1", "2"}) {
		t.Errorf("unexpected ids %v", g.NodeIDs())
	}
	edges := g.Edges()
	if len(edges) != 1 || edges[0].Source != "1" || edges[0].Target != "2" {
		t.Errorf("unexpected edges %+v", edges)
	}

	sim := g.NewSimulation(forceDefaults())
	if sim.Len() != 2 {
		t.Errorf("expected simulation over 2 nodes, got %d", sim.Len())
	}
}

func TestBuildEmpty(t *testing.T) {
	g := Build(nil)
	if len(g.Nodes) != 0 || len(g.Links) != 0 {
		t.Fatal("expected empty graph")
	}
	if len(g.Countries().Top) != 0 {
		t.Error("expected no countries")
	}
}

func TestBuildWhitespaceAffiliationStillCreatesNode(t *testing.T) {
	g := Build(parse(t, records.Record{
		Year:                    "2021",
		Authors:                 "A, B",
		AuthorIDs:               "1;2",
		Title:                   "P2",
		AuthorsWithAffiliations: "Aff1, USA; ",
	}))

	if len(g.Nodes) != 2 || len(g.Links) != 1 {
		t.Fatalf("expected 2 nodes and 1 link, got %d and %d", len(g.Nodes), len(g.Links))
	}
	n, ok := g.Node("2")
	if !ok {
		t.Fatal("node 2 missing")
	}
	if n.AffiliationText != " " || n.Country != "" {
		t.Errorf("unexpected node %+v", n)
	}
}
