package graph

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/sajidalishaik45/coauthor-network/internal/logger"
	"github.com/sajidalishaik45/coauthor-network/internal/metrics"
	"github.com/sajidalishaik45/coauthor-network/internal/records"
	"github.com/sajidalishaik45/coauthor-network/internal/tracing"
)

// Service loads publication records from a source and builds the graph.
type Service struct {
	source records.Source
}

// NewService returns a Service reading from source.
func NewService(source records.Source) *Service {
	return &Service{source: source}
}

// Load reads, parses and builds in one pass. A source failure is returned
// as is; rejected records and dangling links are counted, not errors.
func (s *Service) Load(ctx context.Context) (*Graph, error) {
	ctx, span := tracing.StartSpan(ctx, "graph.Load")
	defer span.End()

	log := logger.WithComponent("graph")
	start := time.Now()

	recs, err := s.source.Records(ctx)
	if err != nil {
		metrics.GraphLoadErrors.Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "read records")
		return nil, fmt.Errorf("failed to read records: %w", err)
	}

	pubs, st := records.ParseAll(recs)
	metrics.RecordsTotal.WithLabelValues("accepted").Add(float64(st.Accepted))
	metrics.RecordsTotal.WithLabelValues("rejected").Add(float64(st.Rejected))
	if st.Rejected > 0 {
		log.Debug("Dropped incomplete records", "rejected", st.Rejected)
	}

	g := Build(pubs)
	countries := g.Countries()

	metrics.GraphBuildDuration.Observe(time.Since(start).Seconds())
	metrics.GraphNodesTotal.Set(float64(len(g.Nodes)))
	metrics.GraphLinksTotal.WithLabelValues("kept").Set(float64(len(g.Links)))
	metrics.GraphLinksTotal.WithLabelValues("dropped").Set(float64(g.DroppedLinks))
	metrics.GraphCountriesTotal.Set(float64(len(countries.Order)))

	span.SetAttributes(
		attribute.Int("records.accepted", st.Accepted),
		attribute.Int("records.rejected", st.Rejected),
		attribute.Int("graph.nodes", len(g.Nodes)),
		attribute.Int("graph.links", len(g.Links)),
		attribute.Int("graph.links_dropped", g.DroppedLinks),
	)

	log.Info("Graph built",
		"records", len(recs),
		"accepted", st.Accepted,
		"nodes", len(g.Nodes),
		"links", len(g.Links),
		"dropped_links", g.DroppedLinks,
		"countries", len(countries.Order),
		"duration", time.Since(start),
	)
	return g, nil
}
