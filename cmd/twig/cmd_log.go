package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// logDateLayout matches git's default date format.
const logDateLayout = "Mon Jan 2 15:04:05 2006 -0700"

func newLogCmd(g *globalOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "log <commit>",
		Short: "Show commit history following first parents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := g.openRepo()
			if err != nil {
				return err
			}

			start, err := resolveObject(r, args[0])
			if err != nil {
				return err
			}

			entries, err := r.Log(start, limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, entry := range entries {
				c := entry.Commit
				fmt.Fprintf(out, "commit %s\n", entry.Hash)
				fmt.Fprintf(out, "Author: %s <%s>\n", c.Author.Name, c.Author.Email)
				fmt.Fprintf(out, "Date:   %s\n", c.Author.Time().Format(logDateLayout))
				fmt.Fprintln(out)
				for _, line := range strings.Split(c.Message, "\n") {
					fmt.Fprintf(out, "    %s\n", line)
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "max-count", "n", 0, "maximum number of commits to show (0 for all)")
	return cmd
}
