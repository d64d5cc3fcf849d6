// Package graph turns parsed publications into the co-authorship network:
// one node per author ID and one link per co-authoring pair per paper.
package graph

import (
	"strings"

	"github.com/sajidalishaik45/coauthor-network/internal/force"
	"github.com/sajidalishaik45/coauthor-network/internal/records"
)

// Node is a unique author. Name, affiliation and country come from the
// first publication the ID appears in with an affiliation.
type Node struct {
	ID              string   `json:"id"`
	DisplayName     string   `json:"name"`
	AffiliationText string   `json:"affiliation"`
	Country         string   `json:"country"`
	PaperTitles     []string `json:"papers"`
	Degree          int      `json:"degree"`
}

// Link is one co-authorship instance, tagged with the paper that produced it.
type Link struct {
	SourceID         string `json:"source"`
	TargetID         string `json:"target"`
	PublicationTitle string `json:"publication"`
}

// Graph is the finalised network. Membership is fixed after Build.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Links []Link `json:"links"`

	// DroppedLinks counts links whose endpoints were not both nodes.
	DroppedLinks int `json:"droppedLinks"`

	index     map[string]int
	countries CountryStats
}

// Build constructs the graph from accepted publications. It is a pure
// function of its input.
func Build(pubs []records.Publication) *Graph {
	g := &Graph{index: make(map[string]int)}
	titles := make([]map[string]struct{}, 0)

	var raw []Link
	for _, p := range pubs {
		n := min(len(p.Authors), len(p.AuthorIDs), len(p.Affiliations))
		for i := 0; i < n; i++ {
			id, aff := p.AuthorIDs[i], p.Affiliations[i]
			if id == "" || aff == "" {
				continue
			}
			k, ok := g.index[id]
			if !ok {
				k = len(g.Nodes)
				g.index[id] = k
				g.Nodes = append(g.Nodes, Node{
					ID:              id,
					DisplayName:     p.Authors[i],
					AffiliationText: aff,
					Country:         CountryOf(aff),
				})
				titles = append(titles, make(map[string]struct{}))
			}
			if _, seen := titles[k][p.Title]; !seen {
				titles[k][p.Title] = struct{}{}
				g.Nodes[k].PaperTitles = append(g.Nodes[k].PaperTitles, p.Title)
			}
		}
		raw = append(raw, EmitLinks(p)...)
	}

	for i := range g.Nodes {
		g.Nodes[i].Degree = len(g.Nodes[i].PaperTitles)
	}

	g.Links = make([]Link, 0, len(raw))
	for _, l := range raw {
		_, okS := g.index[l.SourceID]
		_, okT := g.index[l.TargetID]
		if !okS || !okT {
			g.DroppedLinks++
			continue
		}
		g.Links = append(g.Links, l)
	}

	g.countries = tallyCountries(g.Nodes)
	return g
}

// EmitLinks returns one link per unordered pair of author positions i < j
// whose IDs are both present. Affiliations are not required. A paper with k
// such authors yields k(k-1)/2 links.
func EmitLinks(p records.Publication) []Link {
	var out []Link
	for i := 0; i < len(p.Authors); i++ {
		a := records.At(p.AuthorIDs, i)
		if a == "" {
			continue
		}
		for j := i + 1; j < len(p.Authors); j++ {
			b := records.At(p.AuthorIDs, j)
			if b == "" {
				continue
			}
			out = append(out, Link{SourceID: a, TargetID: b, PublicationTitle: p.Title})
		}
	}
	return out
}

// CountryOf returns the text after the last comma of an affiliation entry,
// trimmed. Entries without a comma yield the whole entry trimmed.
func CountryOf(affiliation string) string {
	if i := strings.LastIndexByte(affiliation, ','); i >= 0 {
		affiliation = affiliation[i+1:]
	}
	return strings.TrimSpace(affiliation)
}

// Node looks up a node by author ID.
func (g *Graph) Node(id string) (Node, bool) {
	i, ok := g.index[id]
	if !ok {
		return Node{}, false
	}
	return g.Nodes[i], true
}

// NodeIDs returns node IDs in construction order.
func (g *Graph) NodeIDs() []string {
	ids := make([]string, len(g.Nodes))
	for i, n := range g.Nodes {
		ids[i] = n.ID
	}
	return ids
}

// Edges converts links into simulation edges.
func (g *Graph) Edges() []force.Edge {
	edges := make([]force.Edge, len(g.Links))
	for i, l := range g.Links {
		edges[i] = force.Edge{Source: l.SourceID, Target: l.TargetID}
	}
	return edges
}

// Countries returns the country aggregate computed at build time.
func (g *Graph) Countries() CountryStats {
	return g.countries
}

// NewSimulation creates a layout simulation over the graph.
func (g *Graph) NewSimulation(p force.Params, opts ...force.Option) *force.Simulation {
	return force.New(g.NodeIDs(), g.Edges(), p, opts...)
}
