package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/odvcencio/twig/pkg/repo"
	"github.com/spf13/cobra"
)

func newInitCmd(g *globalOptions) *cobra.Command {
	var branch string

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Create an empty repository",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}

			abs, err := filepath.Abs(g.path(path))
			if err != nil {
				return fmt.Errorf("resolve path: %w", err)
			}

			// Ensure the target directory exists.
			if err := os.MkdirAll(abs, 0o755); err != nil {
				return fmt.Errorf("create directory: %w", err)
			}

			r, err := repo.Init(abs, repo.WithLogger(g.log), repo.WithInitialBranch(branch))
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Initialized empty Git repository in %s\n", r.GitDir+string(filepath.Separator))
			return nil
		},
	}

	cmd.Flags().StringVarP(&branch, "initial-branch", "b", repo.DefaultBranch, "name of the branch HEAD points at")
	return cmd
}
