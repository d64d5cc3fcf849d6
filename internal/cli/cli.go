// Package cli implements the offline layout tool: it computes a settled
// layout from a publication export, or prints statistics about the network.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sajidalishaik45/coauthor-network/internal/graph"
	"github.com/sajidalishaik45/coauthor-network/internal/logger"
	"github.com/sajidalishaik45/coauthor-network/internal/records"
)

// CLI carries the output streams shared by every command.
type CLI struct {
	out    io.Writer
	errOut io.Writer
}

// New creates a CLI writing results to out and logs to errOut.
func New(out, errOut io.Writer) *CLI {
	return &CLI{out: out, errOut: errOut}
}

// RootCommand builds the command tree.
func (c *CLI) RootCommand() *cobra.Command {
	var (
		verbose   bool
		logFormat string
	)

	root := &cobra.Command{
		Use:           "layout",
		Short:         "Lay out a co-authorship network offline",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := "warn"
			if verbose {
				level = "debug"
			}
			logger.Setup(logger.Options{Level: level, Format: logFormat, Output: c.errOut})
		},
	}
	root.SetOut(c.out)
	root.SetErr(c.errOut)

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format: text or json")

	root.AddCommand(c.runCommand())
	root.AddCommand(c.statsCommand())
	return root
}

// Execute runs the command tree with args.
func (c *CLI) Execute(ctx context.Context, args []string) error {
	root := c.RootCommand()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// loadGraph reads and builds the network from a CSV export, returning the
// parse outcome alongside.
func loadGraph(ctx context.Context, input string) (*graph.Graph, records.Stats, error) {
	recs, err := records.NewCSVSource(input).Records(ctx)
	if err != nil {
		return nil, records.Stats{}, fmt.Errorf("load records: %w", err)
	}
	pubs, st := records.ParseAll(recs)
	g := graph.Build(pubs)
	logger.Debug("Graph built",
		"accepted", st.Accepted,
		"rejected", st.Rejected,
		"nodes", len(g.Nodes),
		"links", len(g.Links),
		"dropped_links", g.DroppedLinks)
	return g, st, nil
}
