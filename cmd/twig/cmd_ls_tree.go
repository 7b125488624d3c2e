package main

import (
	"errors"

	"github.com/odvcencio/twig/pkg/object"
	"github.com/odvcencio/twig/pkg/repo"
	"github.com/spf13/cobra"
)

func newLsTreeCmd(g *globalOptions) *cobra.Command {
	var opts repo.ListTreeOptions

	cmd := &cobra.Command{
		Use:   "ls-tree [--name-only] [-r] <tree>",
		Short: "List the contents of a tree object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := g.openRepo()
			if err != nil {
				return err
			}

			h, err := resolveObject(r, args[0])
			if err != nil {
				return err
			}

			listings, err := r.ListTree(h, opts)
			if err != nil {
				if errors.Is(err, object.ErrNotATree) {
					return errors.New("not a tree object")
				}
				return err
			}
			return repo.WriteListing(cmd.OutOrStdout(), listings)
		},
	}

	cmd.Flags().BoolVar(&opts.NameOnly, "name-only", false, "list only entry names")
	cmd.Flags().BoolVarP(&opts.Recursive, "recursive", "r", false, "recurse into sub-trees")
	return cmd
}
