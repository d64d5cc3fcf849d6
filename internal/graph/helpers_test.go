package graph

import (
	"context"
	"errors"

	"github.com/sajidalishaik45/coauthor-network/internal/force"
	"github.com/sajidalishaik45/coauthor-network/internal/records"
)

// fakeSource implements records.Source without touching disk or a database.
type fakeSource struct {
	recs []records.Record
	err  error
}

func (f *fakeSource) Records(ctx context.Context) ([]records.Record, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.recs, nil
}

var errSourceDown = errors.New("source down")

func forceDefaults() force.Params {
	return force.DefaultParams()
}
