package main

import (
	"fmt"

	"github.com/odvcencio/twig/pkg/object"
	"github.com/odvcencio/twig/pkg/repo"
	"github.com/spf13/cobra"
)

func newHashObjectCmd(g *globalOptions) *cobra.Command {
	var write bool
	var objType string

	cmd := &cobra.Command{
		Use:   "hash-object [-w] [-t <type>] <file>",
		Short: "Compute an object digest and optionally store the object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t := object.ObjectType(objType)
			if !t.Valid() {
				return usageErrorf("invalid object type %q", objType)
			}

			var store *object.Store
			if write {
				r, err := g.openRepo()
				if err != nil {
					return err
				}
				store = r.Store
			}

			h, err := repo.HashFile(g.path(args[0]), t, store)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), h)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "write the object into the object store")
	cmd.Flags().StringVarP(&objType, "type", "t", string(object.TypeBlob), "object type (blob, tree, commit)")
	return cmd
}
