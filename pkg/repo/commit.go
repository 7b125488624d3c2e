package repo

import (
	"fmt"

	"github.com/odvcencio/twig/pkg/object"
	"go.uber.org/zap"
)

// CommitOptions describes a commit to create from an existing tree.
type CommitOptions struct {
	Tree      object.Hash
	Parent    object.Hash // empty for a root commit
	Message   string
	Author    object.Signature
	Committer object.Signature
}

// CommitTree writes a commit object for an already-stored tree. The tree
// must be a tree object and the parent, when set, a commit. No ref is
// updated.
func (r *Repo) CommitTree(opts CommitOptions) (object.Hash, error) {
	if _, err := r.Store.ReadTree(opts.Tree); err != nil {
		return "", fmt.Errorf("commit-tree: tree %s: %w", opts.Tree, err)
	}
	if opts.Parent != "" {
		if _, err := r.Store.ReadCommit(opts.Parent); err != nil {
			return "", fmt.Errorf("commit-tree: parent %s: %w", opts.Parent, err)
		}
	}

	commitObj := &object.CommitObj{
		TreeHash:  opts.Tree,
		Parent:    opts.Parent,
		Author:    opts.Author,
		Committer: opts.Committer,
		Message:   opts.Message,
	}
	h, err := r.Store.WriteCommit(commitObj)
	if err != nil {
		return "", fmt.Errorf("commit-tree: write commit: %w", err)
	}
	r.log.Debug("commit written", zap.Stringer("hash", h), zap.Stringer("tree", opts.Tree))
	return h, nil
}

// LogEntry is one commit visited by Log.
type LogEntry struct {
	Hash   object.Hash
	Commit *object.CommitObj
}

// Log walks the commit history starting from the given hash, following
// parent links, returning up to limit commits newest first. A limit of zero
// or less means no limit. A parent missing from the store is an error.
func (r *Repo) Log(start object.Hash, limit int) ([]LogEntry, error) {
	var entries []LogEntry
	current := start

	for limit <= 0 || len(entries) < limit {
		c, err := r.Store.ReadCommit(current)
		if err != nil {
			if current != start {
				return nil, fmt.Errorf("log: parent of %s: %w", entries[len(entries)-1].Hash, err)
			}
			return nil, fmt.Errorf("log: read commit %s: %w", current, err)
		}
		entries = append(entries, LogEntry{Hash: current, Commit: c})

		if c.Parent == "" {
			break
		}
		current = c.Parent
	}

	return entries, nil
}
