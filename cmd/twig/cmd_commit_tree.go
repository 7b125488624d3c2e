package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/odvcencio/twig/pkg/object"
	"github.com/odvcencio/twig/pkg/repo"
	"github.com/spf13/cobra"
)

func newCommitTreeCmd(g *globalOptions) *cobra.Command {
	var parent string
	var message string

	cmd := &cobra.Command{
		Use:   "commit-tree <tree> [-p <parent>] -m <message>",
		Short: "Create a commit object for a stored tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("message") {
				return usageErrorf("a commit message is required (-m)")
			}

			r, err := g.openRepo()
			if err != nil {
				return err
			}

			tree, err := resolveObject(r, args[0])
			if err != nil {
				return err
			}
			var parentHash object.Hash
			if strings.TrimSpace(parent) != "" {
				parentHash, err = resolveObject(r, parent)
				if err != nil {
					return err
				}
			}

			author, committer := r.Config.Identity().Signatures(time.Now())
			h, err := r.CommitTree(repo.CommitOptions{
				Tree:      tree,
				Parent:    parentHash,
				Message:   message,
				Author:    author,
				Committer: committer,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), h)
			return nil
		},
	}

	cmd.Flags().StringVarP(&parent, "parent", "p", "", "parent commit")
	cmd.Flags().StringVarP(&message, "message", "m", "", "commit message")
	return cmd
}
