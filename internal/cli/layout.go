package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mindmap/pkg/edges"
	"github.com/matzehuels/mindmap/pkg/session"
)

// layoutCommand creates the layout command for printing computed positions.
func (c *CLI) layoutCommand() *cobra.Command {
	var connectors bool

	cmd := &cobra.Command{
		Use:   "layout MAP",
		Short: "Print the node positions and connectors of a map",
		Long: `Print the node positions and connectors of a map.

The layout mode is taken from --mode or the config file. In freeform mode
the stored positions are shown; nodes without one are placed and saved. In
hierarchical mode the positions are computed level by level and nothing is
stored.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd, args[0], func(s *session.Session) error {
				prog := newProgress(c.Logger)
				v := s.View()
				prog.done(fmt.Sprintf("Arranged %d nodes in %s mode", len(v.Nodes), v.Mode))

				fmt.Fprintln(stdout, StyleTitle.Render(v.Map)+" "+StyleDim.Render(fmt.Sprintf("%s · %gx%g", v.Mode, v.Container.Width, v.Container.Height)))
				fmt.Fprintln(stdout, renderTable([]string{"ID", "Text", "Parent", "X", "Y", "W", "H"}, nodeRows(v)))
				if connectors {
					fmt.Fprintln(stdout, renderTable([]string{"Parent", "Child", "From", "To"}, connectorRows(v.Connectors)))
				}
				printMapStats(len(v.Nodes), len(s.Map().Roots()), len(v.Connectors))
				return nil
			})
		},
		ValidArgsFunction: c.completeMapNames,
	}

	cmd.Flags().BoolVarP(&connectors, "connectors", "c", true, "also print the connector segments")
	return cmd
}

func nodeRows(v session.View) [][]string {
	rows := make([][]string, 0, len(v.Nodes))
	for _, n := range v.Nodes {
		x, y := "-", "-"
		if n.Position != nil {
			x, y = formatCoord(n.Position.X), formatCoord(n.Position.Y)
		}
		parent := n.ParentID
		if parent == "" {
			parent = "-"
		}
		rows = append(rows, []string{n.ID, n.Text, parent, x, y, formatCoord(n.Width), formatCoord(n.Height)})
	}
	return rows
}

func connectorRows(conns []edges.Connector) [][]string {
	rows := make([][]string, 0, len(conns))
	for _, c := range conns {
		rows = append(rows, []string{
			c.ParentID,
			c.ChildID,
			formatCoord(c.From.X) + "," + formatCoord(c.From.Y),
			formatCoord(c.To.X) + "," + formatCoord(c.To.Y),
		})
	}
	return rows
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

