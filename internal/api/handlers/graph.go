package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/sajidalishaik45/coauthor-network/internal/apierr"
	"github.com/sajidalishaik45/coauthor-network/internal/cache"
	"github.com/sajidalishaik45/coauthor-network/internal/graph"
	"github.com/sajidalishaik45/coauthor-network/internal/logger"
	"github.com/sajidalishaik45/coauthor-network/internal/metrics"
)

// Cache keys for the serialized graph payloads.
const (
	graphCacheKey     = "graph:v1"
	countriesCacheKey = "countries:v1"
)

// GraphHandler serves the static co-authorship network. The graph is fixed
// once loaded, so encoded responses are cached until the TTL expires.
type GraphHandler struct {
	graph *graph.Graph
	cache cache.Cache
	ttl   time.Duration
}

// NewGraphHandler creates a new graph handler.
func NewGraphHandler(g *graph.Graph, c cache.Cache, ttl time.Duration) *GraphHandler {
	return &GraphHandler{graph: g, cache: c, ttl: ttl}
}

type GraphNode struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Affiliation string   `json:"affiliation"`
	Country     string   `json:"country"`
	Group       string   `json:"group"`
	Papers      []string `json:"papers"`
	Degree      int      `json:"degree"`
}

type GraphLink struct {
	Source      string `json:"source"`
	Target      string `json:"target"`
	Publication string `json:"publication"`
}

type GraphMeta struct {
	NodeCount    int `json:"node_count"`
	LinkCount    int `json:"link_count"`
	DroppedLinks int `json:"dropped_links"`
	CountryCount int `json:"country_count"`
}

type GraphResponse struct {
	Nodes []GraphNode `json:"nodes"`
	Links []GraphLink `json:"links"`
	Meta  GraphMeta   `json:"meta"`
}

type CountryEntry struct {
	Country string `json:"country"`
	Count   int    `json:"count"`
}

// CountriesResponse is the legend: the highlighted countries by node count,
// followed by the number of nodes grouped under Other.
type CountriesResponse struct {
	Top   []CountryEntry `json:"top"`
	Other int            `json:"other"`
	Total int            `json:"total"`
}

// GetGraph returns every node with its metadata and every link.
// GET /api/graph
func (h *GraphHandler) GetGraph(w http.ResponseWriter, r *http.Request) {
	h.serveCached(w, r, "graph", graphCacheKey, func() any { return h.graphResponse() })
}

// GetCountries returns the country legend.
// GET /api/countries
func (h *GraphHandler) GetCountries(w http.ResponseWriter, r *http.Request) {
	h.serveCached(w, r, "countries", countriesCacheKey, func() any { return h.countriesResponse() })
}

func (h *GraphHandler) serveCached(w http.ResponseWriter, r *http.Request, endpoint, key string, build func() any) {
	if h.graph == nil {
		apierr.WriteErrorWithContext(w, r, apierr.GraphNoData())
		return
	}

	body, hit, err := cache.Fetch(h.cache, key, h.ttl, func() ([]byte, error) {
		return json.Marshal(build())
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "Failed to encode response", "endpoint", endpoint, "error", err)
		apierr.WriteErrorWithContext(w, r, apierr.GraphEncode(""))
		return
	}

	if hit {
		metrics.APICacheHits.WithLabelValues(endpoint).Inc()
		w.Header().Set("X-Cache", "HIT")
	} else {
		metrics.APICacheMisses.WithLabelValues(endpoint).Inc()
		w.Header().Set("X-Cache", "MISS")
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "public, max-age=60")
	w.Write(body)
}

func (h *GraphHandler) graphResponse() GraphResponse {
	stats := h.graph.Countries()
	resp := GraphResponse{
		Nodes: make([]GraphNode, len(h.graph.Nodes)),
		Links: make([]GraphLink, len(h.graph.Links)),
		Meta: GraphMeta{
			NodeCount:    len(h.graph.Nodes),
			LinkCount:    len(h.graph.Links),
			DroppedLinks: h.graph.DroppedLinks,
			CountryCount: len(stats.Order),
		},
	}
	for i, n := range h.graph.Nodes {
		papers := n.PaperTitles
		if papers == nil {
			papers = []string{}
		}
		resp.Nodes[i] = GraphNode{
			ID:          n.ID,
			Name:        n.DisplayName,
			Affiliation: n.AffiliationText,
			Country:     n.Country,
			Group:       stats.Group(n.Country),
			Papers:      papers,
			Degree:      n.Degree,
		}
	}
	for i, l := range h.graph.Links {
		resp.Links[i] = GraphLink{Source: l.SourceID, Target: l.TargetID, Publication: l.PublicationTitle}
	}
	return resp
}

func (h *GraphHandler) countriesResponse() CountriesResponse {
	stats := h.graph.Countries()
	resp := CountriesResponse{
		Top:   make([]CountryEntry, 0, len(stats.Top)),
		Other: stats.OtherCount,
		Total: len(h.graph.Nodes),
	}
	for _, c := range stats.Top {
		resp.Top = append(resp.Top, CountryEntry{Country: c, Count: stats.Counts[c]})
	}
	return resp
}
