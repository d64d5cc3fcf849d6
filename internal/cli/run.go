package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sajidalishaik45/coauthor-network/internal/config"
	"github.com/sajidalishaik45/coauthor-network/internal/force"
	"github.com/sajidalishaik45/coauthor-network/internal/graph"
	"github.com/sajidalishaik45/coauthor-network/internal/logger"
)

// defaultMaxTicks bounds a run that is left to go cold on its own. The
// default cooling schedule needs about 300.
const defaultMaxTicks = 1000

type runOptions struct {
	input  string
	ticks  int
	params string
	out    string
	width  float64
	height float64
	seed   int64
	pretty bool
}

// LayoutFile is the settled layout written by the run command.
type LayoutFile struct {
	Ticks  int          `json:"ticks"`
	Alpha  float64      `json:"alpha"`
	State  force.State  `json:"state"`
	Params force.Params `json:"params"`
	Nodes  []LayoutNode `json:"nodes"`
	Links  []LayoutLink `json:"links"`
}

type LayoutNode struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Country string  `json:"country"`
	Group   string  `json:"group"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
}

type LayoutLink struct {
	Source      string `json:"source"`
	Target      string `json:"target"`
	Publication string `json:"publication"`
}

func (c *CLI) runCommand() *cobra.Command {
	opts := runOptions{width: 960, height: 600, seed: 1}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Compute a settled layout and write it as JSON",
		Long: `Compute a settled layout and write it as JSON.

The simulation starts hot and runs until it goes cold, or for at most
--ticks steps. Force parameters default to the stock values and may be
overridden by a YAML file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "publication CSV export")
	cmd.Flags().IntVarP(&opts.ticks, "ticks", "n", 0, fmt.Sprintf("maximum ticks (default %d)", defaultMaxTicks))
	cmd.Flags().StringVarP(&opts.params, "params", "p", "", "YAML file with force parameters")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "output file (default: stdout)")
	cmd.Flags().Float64Var(&opts.width, "width", opts.width, "canvas width")
	cmd.Flags().Float64Var(&opts.height, "height", opts.height, "canvas height")
	cmd.Flags().Int64Var(&opts.seed, "seed", opts.seed, "seed for the jiggle source")
	cmd.Flags().BoolVar(&opts.pretty, "pretty", false, "indent the JSON output")
	cmd.MarkFlagRequired("input")

	return cmd
}

func (c *CLI) runLayout(ctx context.Context, opts runOptions) error {
	params := force.DefaultParams()
	if opts.params != "" {
		p, err := config.LoadForceParams(opts.params, params)
		if err != nil {
			return err
		}
		params = p
	}

	g, _, err := loadGraph(ctx, opts.input)
	if err != nil {
		return err
	}

	sim := g.NewSimulation(params,
		force.WithCanvas(opts.width, opts.height),
		force.WithSeed(opts.seed))
	sim.Start()

	limit := opts.ticks
	if limit <= 0 {
		limit = defaultMaxTicks
	}
	for i := 0; i < limit && sim.Tick(); i++ {
		if i%50 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
	}
	logger.Info("Layout finished", "ticks", sim.Ticks(), "alpha", sim.Alpha(), "state", sim.State())

	out := c.out
	if opts.out != "" {
		f, err := os.Create(opts.out)
		if err != nil {
			return fmt.Errorf("create %s: %w", opts.out, err)
		}
		defer f.Close()
		out = f
	}
	if err := writeLayout(out, g, sim, opts.pretty); err != nil {
		return fmt.Errorf("write layout: %w", err)
	}
	if opts.out != "" {
		fmt.Fprintf(c.errOut, "Wrote %d nodes and %d links to %s\n", len(g.Nodes), len(g.Links), opts.out)
	}
	return nil
}

func writeLayout(w io.Writer, g *graph.Graph, sim *force.Simulation, pretty bool) error {
	snap := sim.Snapshot()
	countries := g.Countries()

	file := LayoutFile{
		Ticks:  snap.Tick,
		Alpha:  snap.Alpha,
		State:  snap.State,
		Params: sim.Params(),
		Nodes:  make([]LayoutNode, 0, len(snap.Nodes)),
		Links:  make([]LayoutLink, 0, len(g.Links)),
	}
	for _, p := range snap.Nodes {
		n, _ := g.Node(p.ID)
		file.Nodes = append(file.Nodes, LayoutNode{
			ID:      p.ID,
			Name:    n.DisplayName,
			Country: n.Country,
			Group:   countries.Group(n.Country),
			X:       p.X,
			Y:       p.Y,
		})
	}
	for _, l := range g.Links {
		file.Links = append(file.Links, LayoutLink{Source: l.SourceID, Target: l.TargetID, Publication: l.PublicationTitle})
	}

	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(file)
}
