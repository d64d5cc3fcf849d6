package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sajidalishaik45/coauthor-network/internal/apierr"
	"github.com/sajidalishaik45/coauthor-network/internal/force"
	"github.com/sajidalishaik45/coauthor-network/internal/graph"
	"github.com/sajidalishaik45/coauthor-network/internal/records"
)

// testGraph has four authors from four countries: three co-wrote one paper
// and the first also wrote with the fourth.
func testGraph(t *testing.T) *graph.Graph {
	t.Helper()
	pubs, st := records.ParseAll([]records.Record{
		{
			Year:      "2020",
			Authors:   "Lee A., Chen B., Diaz C.",
			AuthorIDs: "1;2;3",
			AuthorsWithAffiliations: "Lee A., MIT, Cambridge, United States; " +
				"Chen B., Tsinghua University, Beijing, China; " +
				"Diaz C., UNAM, Mexico City, Mexico",
			Title: "Paper A",
		},
		{
			Year:                    "2021",
			Authors:                 "Lee A., Fox D.",
			AuthorIDs:               "1;4",
			AuthorsWithAffiliations: "Lee A., MIT, Cambridge, United States; Fox D., ETH, Zurich, Switzerland",
			Title:                   "Paper B",
		},
	})
	require.Equal(t, 2, st.Accepted)
	return graph.Build(pubs)
}

func testDriver(t *testing.T, g *graph.Graph) *force.Driver {
	t.Helper()
	sim := g.NewSimulation(force.DefaultParams(), force.WithSeed(1))
	return force.NewDriver(sim, time.Millisecond)
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) *apierr.Error {
	t.Helper()
	var resp apierr.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return resp.Error
}

func nodeByID(t *testing.T, snap force.Snapshot, id string) force.NodePosition {
	t.Helper()
	for _, n := range snap.Nodes {
		if n.ID == id {
			return n
		}
	}
	t.Fatalf("node %q not in snapshot", id)
	return force.NodePosition{}
}
