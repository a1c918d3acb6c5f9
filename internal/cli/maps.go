package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mindmap/pkg/errors"
	"github.com/matzehuels/mindmap/pkg/layout"
	"github.com/matzehuels/mindmap/pkg/mindmap"
	"github.com/matzehuels/mindmap/pkg/registry"
)

// mapsCommand creates the map management command.
func (c *CLI) mapsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "maps",
		Short: "Manage named mind maps",
	}

	cmd.AddCommand(c.mapsListCommand())
	cmd.AddCommand(c.mapsNewCommand())
	cmd.AddCommand(c.mapsShowCommand())
	cmd.AddCommand(c.mapsDeleteCommand())

	return cmd
}

// mapsListCommand creates the "maps list" subcommand.
func (c *CLI) mapsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List stored maps in registry order",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := c.openEnv(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			maps, err := e.mgr.List(ctx)
			if err != nil {
				return err
			}
			if maps.Empty() {
				printInfo("%s", maps.Display()[0])
				printNextStep("Create one", appName+" maps new NAME")
				return nil
			}

			rows := make([][]string, 0, len(maps))
			for _, name := range maps {
				m, status, err := e.mgr.Load(ctx, name)
				if err != nil {
					return err
				}
				rows = append(rows, []string{name, strconv.Itoa(m.Len()), strconv.Itoa(len(m.Roots())), status.String()})
			}
			fmt.Fprintln(stdout, renderTable([]string{"Map", "Nodes", "Roots", "Status"}, rows))
			return nil
		},
	}
}

// mapsNewCommand creates the "maps new" subcommand.
func (c *CLI) mapsNewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "new NAME",
		Short: "Create a map holding a single root",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := c.openEnv(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			s, err := e.openSession(ctx, c.Logger, layout.PixelSizer(), "")
			if err != nil {
				return err
			}
			if err := s.NewMap(ctx, args[0]); err != nil {
				return err
			}
			printSuccess("Created map %s", StyleHighlight.Render(s.Name()))
			printNextStep("Add a node", fmt.Sprintf("%s node add %q %s TEXT", appName, s.Name(), s.Map().Roots()[0].ID))
			return nil
		},
	}
}

// mapsShowCommand creates the "maps show" subcommand.
func (c *CLI) mapsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show NAME",
		Short: "Print a map as an indented tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := c.openEnv(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			name := args[0]
			ok, err := e.mgr.Exists(ctx, name)
			if err != nil {
				return err
			}
			if !ok {
				return errors.New(errors.ErrCodeMapNotFound, "map %q not found", name)
			}
			m, status, err := e.mgr.Load(ctx, name)
			if err != nil {
				return err
			}

			fmt.Fprintln(stdout, StyleTitle.Render(name))
			fmt.Fprint(stdout, renderTree(m))
			printMapStats(m.Len(), len(m.Roots()), m.Len()-len(m.Roots()))
			if status != registry.StatusLoaded {
				printWarning("stored data was %s while loading", status)
			}
			return nil
		},
		ValidArgsFunction: c.completeMapNames,
	}
}

// mapsDeleteCommand creates the "maps delete" subcommand.
func (c *CLI) mapsDeleteCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "delete NAME",
		Aliases: []string{"rm"},
		Short:   "Delete a map",
		Long: `Delete a map from the registry.

When the last map is deleted, a fresh default map takes its place.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name := args[0]
			if !yes && !confirm(cmd.InOrStdin(), stdout, fmt.Sprintf("Delete map %q?", name)) {
				return errDeclined
			}

			e, err := c.openEnv(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			s, err := e.openSession(ctx, c.Logger, layout.PixelSizer(), "")
			if err != nil {
				return err
			}
			if err := s.DeleteMap(ctx, name); err != nil {
				return err
			}
			printSuccess("Deleted map %s", StyleHighlight.Render(name))
			printDetail("Active map: %s", s.Name())
			return nil
		},
		ValidArgsFunction: c.completeMapNames,
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

// =============================================================================
// Rendering helpers
// =============================================================================

// renderTable renders rows under headers with the shared table style.
func renderTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader.Padding(0, 1)
			}
			if col == 0 {
				return lipgloss.NewStyle().Foreground(colorCyan).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Render()
}

// renderTree renders every root and its descendants, one node per line.
func renderTree(m *mindmap.Map) string {
	var b strings.Builder
	var walk func(id string, depth int)
	walk = func(id string, depth int) {
		n, ok := m.Node(id)
		if !ok {
			return
		}
		prefix := styleIconInfo.Render(iconActive)
		if depth > 0 {
			prefix = strings.Repeat("   ", depth-1) + StyleDim.Render(iconBranch)
		}
		fmt.Fprintf(&b, "%s %s %s\n", prefix, StyleValue.Render(n.Text), StyleDim.Render(n.ID))
		for _, child := range n.Children {
			walk(child, depth+1)
		}
	}
	for _, root := range m.Roots() {
		walk(root.ID, 0)
	}
	return b.String()
}
