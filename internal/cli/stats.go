package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sajidalishaik45/coauthor-network/internal/graph"
	"github.com/sajidalishaik45/coauthor-network/internal/records"
)

// Summary describes a loaded network.
type Summary struct {
	Accepted     int            `json:"accepted"`
	Rejected     int            `json:"rejected"`
	Nodes        int            `json:"nodes"`
	Links        int            `json:"links"`
	DroppedLinks int            `json:"dropped_links"`
	Countries    int            `json:"countries"`
	Top          []CountryCount `json:"top"`
	Other        int            `json:"other"`
}

type CountryCount struct {
	Country string `json:"country"`
	Count   int    `json:"count"`
}

func summarize(g *graph.Graph, st records.Stats) Summary {
	cs := g.Countries()
	s := Summary{
		Accepted:     st.Accepted,
		Rejected:     st.Rejected,
		Nodes:        len(g.Nodes),
		Links:        len(g.Links),
		DroppedLinks: g.DroppedLinks,
		Countries:    len(cs.Order),
		Top:          make([]CountryCount, 0, len(cs.Top)),
		Other:        cs.OtherCount,
	}
	for _, c := range cs.Top {
		s.Top = append(s.Top, CountryCount{Country: c, Count: cs.Counts[c]})
	}
	return s
}

func (c *CLI) statsCommand() *cobra.Command {
	var (
		input  string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print record, node, link and country counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runStats(cmd.Context(), input, asJSON)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "publication CSV export")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	cmd.MarkFlagRequired("input")

	return cmd
}

func (c *CLI) runStats(ctx context.Context, input string, asJSON bool) error {
	g, st, err := loadGraph(ctx, input)
	if err != nil {
		return err
	}
	s := summarize(g, st)

	if asJSON {
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	}

	tw := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Records accepted\t%d\n", s.Accepted)
	fmt.Fprintf(tw, "Records rejected\t%d\n", s.Rejected)
	fmt.Fprintf(tw, "Authors\t%d\n", s.Nodes)
	fmt.Fprintf(tw, "Links\t%d\n", s.Links)
	fmt.Fprintf(tw, "Dropped links\t%d\n", s.DroppedLinks)
	fmt.Fprintf(tw, "Countries\t%d\n", s.Countries)
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "COUNTRY\tAUTHORS")
	for _, cc := range s.Top {
		fmt.Fprintf(tw, "%s\t%d\n", cc.Country, cc.Count)
	}
	if s.Other > 0 {
		fmt.Fprintf(tw, "%s\t%d\n", graph.OtherCountry, s.Other)
	}
	return tw.Flush()
}
