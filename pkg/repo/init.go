package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// DefaultBranch is the branch a new repository's HEAD points at.
const DefaultBranch = "main"

// Init creates a new repository at path. It creates the .git/ directory
// structure: HEAD, objects/, and refs/heads/. Returns ErrAlreadyExists if a
// .git/ directory already exists.
func Init(path string, opts ...Option) (*Repo, error) {
	o := buildOptions(opts)
	gitDir := filepath.Join(path, MetadataDirName)

	// Fail if .git/ already exists.
	if _, err := os.Stat(gitDir); err == nil {
		return nil, fmt.Errorf("init: %w at %s", ErrAlreadyExists, gitDir)
	}

	// Create directory structure.
	dirs := []string{
		filepath.Join(gitDir, "objects"),
		filepath.Join(gitDir, "refs", "heads"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return nil, fmt.Errorf("init: mkdir %s: %w", d, err)
		}
	}

	// Write default HEAD.
	headPath := filepath.Join(gitDir, "HEAD")
	head := "ref: refs/heads/" + o.initialBranch + "\n"
	if err := os.WriteFile(headPath, []byte(head), 0o644); err != nil {
		return nil, fmt.Errorf("init: write HEAD: %w", err)
	}

	r := newRepo(path, gitDir, DefaultConfig(), o)
	r.log.Debug("initialized repository", zap.String("branch", o.initialBranch))
	return r, nil
}

// Open searches upward from path for a .git/ directory and opens the
// repository. Returns ErrNotARepository if none is found.
func Open(path string, opts ...Option) (*Repo, error) {
	o := buildOptions(opts)

	// Resolve to absolute path for consistent traversal.
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("open: abs path: %w", err)
	}

	cur := abs
	for {
		gitDir := filepath.Join(cur, MetadataDirName)
		info, err := os.Stat(gitDir)
		if err == nil && info.IsDir() {
			cfg, err := LoadConfig(gitDir)
			if err != nil {
				return nil, fmt.Errorf("open: %w", err)
			}
			return newRepo(cur, gitDir, cfg, o), nil
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			// Reached filesystem root without finding .git/.
			return nil, fmt.Errorf("open %s: %w (or any parent up to /)", abs, ErrNotARepository)
		}
		cur = parent
	}
}

// Head reads .git/HEAD. If the content starts with "ref: ", it returns the
// ref path (e.g., "refs/heads/main"). Otherwise it returns the raw content
// as a detached hash string.
func (r *Repo) Head() (string, error) {
	data, err := os.ReadFile(filepath.Join(r.GitDir, "HEAD"))
	if err != nil {
		return "", fmt.Errorf("head: %w", err)
	}
	content := strings.TrimRight(string(data), "\n")

	if strings.HasPrefix(content, "ref: ") {
		return strings.TrimPrefix(content, "ref: "), nil
	}
	return content, nil
}
