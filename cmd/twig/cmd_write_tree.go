package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newWriteTreeCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "write-tree",
		Short: "Store the working directory as a tree object",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := g.openRepo()
			if err != nil {
				return err
			}

			h, err := r.WriteWorkingTree()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), h)
			return nil
		},
	}
}
