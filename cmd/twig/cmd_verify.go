package main

import (
	"fmt"
	"strings"

	"github.com/odvcencio/twig/pkg/object"
	"github.com/spf13/cobra"
)

func newVerifyCmd(g *globalOptions) *cobra.Command {
	var reachable []string

	cmd := &cobra.Command{
		Use:   "verify [--reachable <object>...]",
		Short: "Verify loose object integrity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := g.openRepo()
			if err != nil {
				return err
			}

			report, err := r.Store.Verify()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(
				out,
				"ok: verified %d loose object(s) (%d blob, %d tree, %d commit)\n",
				report.LooseObjects,
				report.ByType[object.TypeBlob],
				report.ByType[object.TypeTree],
				report.ByType[object.TypeCommit],
			)

			if len(reachable) == 0 {
				return nil
			}
			roots := make([]object.Hash, 0, len(reachable))
			for _, name := range reachable {
				h, err := object.ParseHash(name)
				if err != nil {
					return &objectNameError{name: name, err: err}
				}
				roots = append(roots, h)
			}

			missing, err := r.Store.Missing(roots)
			if err != nil {
				return err
			}
			if len(missing) > 0 {
				names := make([]string, len(missing))
				for i, h := range missing {
					names[i] = h.String()
				}
				return fmt.Errorf("%d reachable object(s) missing: %s", len(missing), strings.Join(names, ", "))
			}

			set, err := r.Store.ReachableSet(roots)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "ok: %d reachable object(s) present\n", len(set))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&reachable, "reachable", nil, "also check that every object reachable from these roots is present")
	return cmd
}
