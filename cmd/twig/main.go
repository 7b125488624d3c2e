package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/odvcencio/twig/pkg/object"
	"github.com/odvcencio/twig/pkg/repo"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	exitFatal = 128
	exitUsage = 129
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// globalOptions holds the persistent flags and the state derived from them.
type globalOptions struct {
	dir     string
	verbose bool
	log     *zap.Logger
	// started is set once flag parsing and argument validation succeed.
	started bool
}

// run executes the CLI and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	g := &globalOptions{dir: ".", log: zap.NewNop()}
	root := newRootCmd(g)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	cmd, err := root.ExecuteC()
	_ = g.log.Sync()
	if err == nil {
		return 0
	}

	var exitErr *exitCodeError
	if errors.As(err, &exitErr) {
		return exitErr.code
	}

	var usageErr *usageError
	if errors.As(err, &usageErr) || !g.started {
		fmt.Fprintf(stderr, "error: %v\n", err)
		if cmd != nil {
			fmt.Fprintf(stderr, "usage: %s\n", cmd.UseLine())
		}
		return exitUsage
	}

	fmt.Fprintf(stderr, "fatal: %v\n", err)
	return exitFatal
}

func newRootCmd(g *globalOptions) *cobra.Command {
	root := &cobra.Command{
		Use:           "twig",
		Short:         "A git-compatible content-addressed object store",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			g.started = true
			if g.verbose {
				g.log = newLogger(cmd.ErrOrStderr())
			}
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&g.dir, "directory", "C", ".", "run as if started in this directory")
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "log object store activity to stderr")
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(g))
	root.AddCommand(newHashObjectCmd(g))
	root.AddCommand(newCatFileCmd(g))
	root.AddCommand(newWriteTreeCmd(g))
	root.AddCommand(newLsTreeCmd(g))
	root.AddCommand(newCommitTreeCmd(g))
	root.AddCommand(newLogCmd(g))
	root.AddCommand(newVerifyCmd(g))
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "twig 0.1.0-dev")
		},
	}
}

// newLogger builds a human-readable debug logger writing to w.
func newLogger(w io.Writer) *zap.Logger {
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(w),
		zap.DebugLevel,
	)
	return zap.New(core)
}

// path resolves p against the -C directory.
func (g *globalOptions) path(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(g.dir, p)
}

func (g *globalOptions) openRepo() (*repo.Repo, error) {
	return repo.Open(g.dir, repo.WithLogger(g.log))
}

// resolveObject parses a user-supplied object name and checks that the
// object exists.
func resolveObject(r *repo.Repo, name string) (object.Hash, error) {
	h, err := object.ParseHash(name)
	if err != nil {
		return "", &objectNameError{name: name, err: err}
	}
	if !r.Store.Has(h) {
		return "", &objectNameError{name: name, err: object.ErrObjectNotFound}
	}
	return h, nil
}

// usageError marks malformed invocations.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func usageErrorf(format string, args ...any) error {
	return &usageError{err: fmt.Errorf(format, args...)}
}

// exitCodeError ends the process with code and no message.
type exitCodeError struct {
	code int
}

func (e *exitCodeError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

type objectNameError struct {
	name string
	err  error
}

func (e *objectNameError) Error() string { return "Not a valid object name " + e.name }
func (e *objectNameError) Unwrap() error { return e.err }
