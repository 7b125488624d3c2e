package repo

import (
	"errors"

	"github.com/odvcencio/twig/pkg/object"
	"go.uber.org/zap"
)

// MetadataDirName is the repository metadata directory. It is skipped when
// snapshotting the working tree.
const MetadataDirName = ".git"

var (
	// ErrUnreadableSource is returned when a path to be hashed is missing,
	// is a directory where a file was expected, or cannot be read.
	ErrUnreadableSource = errors.New("unreadable source")
	// ErrNotARepository is returned by Open when no metadata directory is found.
	ErrNotARepository = errors.New("not a repository")
	// ErrAlreadyExists is returned by Init when the metadata directory exists.
	ErrAlreadyExists = errors.New("repository already exists")
)

// Repo represents an opened repository.
type Repo struct {
	RootDir string        // working directory root
	GitDir  string        // .git/ directory
	Store   *object.Store // content-addressed object store
	Config  *Config

	log *zap.Logger
}

// Option configures Init and Open.
type Option func(*options)

type options struct {
	logger        *zap.Logger
	initialBranch string
}

// WithLogger sets the logger shared by the repository and its object store.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithInitialBranch sets the branch HEAD points at after Init.
func WithInitialBranch(name string) Option {
	return func(o *options) {
		if name != "" {
			o.initialBranch = name
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		logger:        zap.NewNop(),
		initialBranch: DefaultBranch,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func newRepo(rootDir, gitDir string, cfg *Config, o options) *Repo {
	return &Repo{
		RootDir: rootDir,
		GitDir:  gitDir,
		Config:  cfg,
		Store: object.NewStore(gitDir,
			object.WithLogger(o.logger),
			object.WithCompressionLevel(cfg.Core.CompressionLevel),
			object.WithCacheSize(cfg.Core.CacheSize),
		),
		log: o.logger.With(zap.String("repo", rootDir)),
	}
}
