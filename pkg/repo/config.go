package repo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/klauspost/compress/zlib"
	"github.com/odvcencio/twig/pkg/object"
	"go.uber.org/multierr"
)

// ConfigFileName is the repository-local settings file inside .git/.
const ConfigFileName = "twig.toml"

const (
	defaultUserName  = "Author"
	defaultUserEmail = "author@example.net"
)

// Config stores repository-local settings.
type Config struct {
	User      IdentityConfig `toml:"user"`
	Committer IdentityConfig `toml:"committer"`
	Core      CoreConfig     `toml:"core"`
}

// IdentityConfig names a person recorded in commits.
type IdentityConfig struct {
	Name  string `toml:"name"`
	Email string `toml:"email"`
}

// CoreConfig tunes the object store.
type CoreConfig struct {
	CompressionLevel int `toml:"compression_level"`
	CacheSize        int `toml:"cache_size"`
}

// DefaultConfig returns the settings used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		User: IdentityConfig{
			Name:  defaultUserName,
			Email: defaultUserEmail,
		},
		Core: CoreConfig{
			CompressionLevel: zlib.DefaultCompression,
			CacheSize:        object.DefaultCacheSize,
		},
	}
}

func configPath(gitDir string) string {
	return filepath.Join(gitDir, ConfigFileName)
}

// LoadConfig reads .git/twig.toml on top of DefaultConfig. A missing file
// yields the defaults.
func LoadConfig(gitDir string) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(configPath(gitDir), cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if cfg.Core.CompressionLevel < zlib.HuffmanOnly || cfg.Core.CompressionLevel > zlib.BestCompression {
		return nil, fmt.Errorf("read config: compression_level %d out of range", cfg.Core.CompressionLevel)
	}
	return cfg, nil
}

// WriteConfig atomically writes .git/twig.toml and makes cfg the active
// configuration. The object store keeps the settings it was opened with.
func (r *Repo) WriteConfig(cfg *Config) error {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	tmp, err := os.CreateTemp(r.GitDir, ".config-tmp-*")
	if err != nil {
		return fmt.Errorf("write config: tmpfile: %w", err)
	}
	tmpName := tmp.Name()

	if err := toml.NewEncoder(tmp).Encode(cfg); err != nil {
		return fmt.Errorf("write config: encode: %w", multierr.Combine(err, tmp.Close(), os.Remove(tmpName)))
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write config: close: %w", multierr.Append(err, os.Remove(tmpName)))
	}
	if err := os.Rename(tmpName, configPath(r.GitDir)); err != nil {
		return fmt.Errorf("write config: rename: %w", multierr.Append(err, os.Remove(tmpName)))
	}
	r.Config = cfg
	return nil
}

// Identity is the author and committer recorded on new commits.
type Identity struct {
	Author    IdentityConfig
	Committer IdentityConfig
}

// Identity resolves the commit identity from the config and the
// GIT_AUTHOR_* / GIT_COMMITTER_* environment variables. The committer falls
// back to the author when unset.
func (c *Config) Identity() Identity {
	return c.identity(os.LookupEnv)
}

func (c *Config) identity(lookup func(string) (string, bool)) Identity {
	id := Identity{Author: c.User}
	if v, ok := lookup("GIT_AUTHOR_NAME"); ok {
		id.Author.Name = v
	}
	if v, ok := lookup("GIT_AUTHOR_EMAIL"); ok {
		id.Author.Email = v
	}

	id.Committer = c.Committer
	if id.Committer.Name == "" {
		id.Committer.Name = id.Author.Name
	}
	if id.Committer.Email == "" {
		id.Committer.Email = id.Author.Email
	}
	if v, ok := lookup("GIT_COMMITTER_NAME"); ok {
		id.Committer.Name = v
	}
	if v, ok := lookup("GIT_COMMITTER_EMAIL"); ok {
		id.Committer.Email = v
	}
	return id
}

// Signatures stamps the identity with time t.
func (id Identity) Signatures(t time.Time) (author, committer object.Signature) {
	author = object.NewSignature(id.Author.Name, id.Author.Email, t)
	committer = object.NewSignature(id.Committer.Name, id.Committer.Email, t)
	return author, committer
}
