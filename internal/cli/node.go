package cli

import (
	"fmt"
	"math"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mindmap/pkg/errors"
	"github.com/matzehuels/mindmap/pkg/layout"
	"github.com/matzehuels/mindmap/pkg/session"
)

// nodeCommand creates the node editing command.
func (c *CLI) nodeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "node",
		Short: "Add, rename, move and delete nodes",
		Long: `Add, rename, move and delete nodes of a stored map.

Every change is saved immediately. Node ids are shown by 'maps show'.`,
	}

	cmd.AddCommand(c.nodeRootCommand())
	cmd.AddCommand(c.nodeAddCommand())
	cmd.AddCommand(c.nodeRenameCommand())
	cmd.AddCommand(c.nodeMoveCommand())
	cmd.AddCommand(c.nodeRemoveCommand())

	return cmd
}

// withSession runs fn on a session opened on the named map.
func (c *CLI) withSession(cmd *cobra.Command, name string, fn func(s *session.Session) error) error {
	ctx := cmd.Context()
	e, err := c.openEnv(ctx)
	if err != nil {
		return err
	}
	defer e.Close()

	s, err := e.openSession(ctx, c.Logger, layout.PixelSizer(), name)
	if err != nil {
		return err
	}
	return fn(s)
}

func (c *CLI) nodeRootCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "root MAP TEXT",
		Short: "Add a root node",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd, args[0], func(s *session.Session) error {
				n, err := s.AddRoot(cmd.Context(), args[1])
				if err != nil {
					return err
				}
				printSuccess("Added root %s %s", StyleHighlight.Render(n.ID), StyleValue.Render(n.Text))
				return nil
			})
		},
		ValidArgsFunction: c.completeMapNames,
	}
}

func (c *CLI) nodeAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add MAP PARENT TEXT",
		Short: "Add a child node below PARENT",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := errors.ValidateNodeID(args[1]); err != nil {
				return err
			}
			return c.withSession(cmd, args[0], func(s *session.Session) error {
				n, err := s.AddChild(cmd.Context(), args[1], args[2])
				if err != nil {
					return err
				}
				printSuccess("Added %s %s under %s", StyleHighlight.Render(n.ID), StyleValue.Render(n.Text), n.ParentID)
				return nil
			})
		},
		ValidArgsFunction: c.completeMapNames,
	}
}

func (c *CLI) nodeRenameCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rename MAP ID TEXT",
		Short: "Replace the text of a node",
		Long: `Replace the text of a node.

Blank text is replaced by the configured placeholder ("New node").`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := errors.ValidateNodeID(args[1]); err != nil {
				return err
			}
			return c.withSession(cmd, args[0], func(s *session.Session) error {
				if err := s.Rename(cmd.Context(), args[1], args[2]); err != nil {
					return err
				}
				n, _ := s.Map().Node(args[1])
				printSuccess("Renamed %s to %s", StyleHighlight.Render(n.ID), StyleValue.Render(n.Text))
				return nil
			})
		},
		ValidArgsFunction: c.completeMapNames,
	}
}

func (c *CLI) nodeMoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "move MAP ID X Y",
		Short: "Move a node (freeform layout only)",
		Long: `Move a node to the top-left position X,Y.

The position is clamped so that the node box stays inside the container.`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := errors.ValidateNodeID(args[1]); err != nil {
				return err
			}
			x, err := parseCoord(args[2])
			if err != nil {
				return err
			}
			y, err := parseCoord(args[3])
			if err != nil {
				return err
			}
			return c.withSession(cmd, args[0], func(s *session.Session) error {
				pos, err := s.MoveNode(cmd.Context(), args[1], x, y)
				if err != nil {
					return err
				}
				printSuccess("Moved %s to %s", StyleHighlight.Render(args[1]), StyleNumber.Render(fmt.Sprintf("%g,%g", pos.X, pos.Y)))
				if pos.X != x || pos.Y != y {
					printDetail("clamped to the %gx%g container", s.Container().Width, s.Container().Height)
				}
				return nil
			})
		},
		ValidArgsFunction: c.completeMapNames,
	}
}

func (c *CLI) nodeRemoveCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "rm MAP ID",
		Aliases: []string{"delete"},
		Short:   "Delete a node and everything below it",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := errors.ValidateNodeID(args[1]); err != nil {
				return err
			}
			return c.withSession(cmd, args[0], func(s *session.Session) error {
				if _, ok := s.Map().Node(args[1]); !ok {
					return errors.New(errors.ErrCodeNodeNotFound, "node %q not found", args[1])
				}
				below := len(s.Map().Descendants(args[1]))
				q := fmt.Sprintf("Delete %s and %d nodes below it?", args[1], below)
				if !yes && !confirm(cmd.InOrStdin(), stdout, q) {
					return errDeclined
				}
				removed, err := s.DeleteNode(cmd.Context(), args[1])
				if err != nil {
					return err
				}
				printSuccess("Deleted %d nodes", len(removed))
				return nil
			})
		},
		ValidArgsFunction: c.completeMapNames,
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func parseCoord(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err == nil && (math.IsNaN(v) || math.IsInf(v, 0)) {
		err = strconv.ErrRange
	}
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid coordinate %q", s)
	}
	return v, nil
}
