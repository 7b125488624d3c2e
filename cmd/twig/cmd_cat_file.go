package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCatFileCmd(g *globalOptions) *cobra.Command {
	var pretty, showType, showSize, exists bool

	cmd := &cobra.Command{
		Use:   "cat-file (-p | -t | -s | -e) <object>",
		Short: "Show the content, type or size of a stored object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			selected := 0
			for _, set := range []bool{pretty, showType, showSize, exists} {
				if set {
					selected++
				}
			}
			if selected != 1 {
				return usageErrorf("exactly one of -p, -t, -s or -e is required")
			}

			r, err := g.openRepo()
			if err != nil {
				return err
			}

			h, err := resolveObject(r, args[0])
			if err != nil {
				if exists {
					return &exitCodeError{code: 1}
				}
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case exists:
				return nil
			case pretty:
				return r.PrettyPrint(out, h)
			}

			info, err := r.Stat(h)
			if err != nil {
				return err
			}
			if showType {
				fmt.Fprintln(out, info.Type)
			} else {
				fmt.Fprintln(out, info.Size)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&pretty, "pretty", "p", false, "pretty-print the object content")
	cmd.Flags().BoolVarP(&showType, "type", "t", false, "show the object type")
	cmd.Flags().BoolVarP(&showSize, "size", "s", false, "show the object size")
	cmd.Flags().BoolVarP(&exists, "exists", "e", false, "exit with zero status if the object exists")
	return cmd
}
