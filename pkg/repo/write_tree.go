package repo

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/odvcencio/twig/pkg/object"
	"go.uber.org/zap"
)

// WriteWorkingTree snapshots the repository's working directory.
func (r *Repo) WriteWorkingTree() (object.Hash, error) {
	return r.WriteTree(r.RootDir)
}

// WriteTree recursively stores dir as a tree object and returns its hash.
// Children are stored before the tree that references them. Directories
// named .git are skipped at every level; empty directories become empty
// trees.
func (r *Repo) WriteTree(dir string) (object.Hash, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return "", fmt.Errorf("write tree: %w: %w", ErrUnreadableSource, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("write tree: %w: %s is not a directory", ErrUnreadableSource, dir)
	}
	return r.writeTreeDir(dir)
}

func (r *Repo) writeTreeDir(dir string) (object.Hash, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("write tree %s: %w: %w", dir, ErrUnreadableSource, err)
	}
	// The tree body is ordered by raw name bytes; visit children in the
	// same order.
	sort.Slice(dirEntries, func(i, j int) bool {
		return dirEntries[i].Name() < dirEntries[j].Name()
	})

	entries := make([]object.TreeEntry, 0, len(dirEntries))
	for _, d := range dirEntries {
		name := d.Name()
		if name == MetadataDirName {
			continue
		}
		entry, err := r.writeTreeEntry(filepath.Join(dir, name), d)
		if err != nil {
			return "", err
		}
		entries = append(entries, entry)
	}

	h, err := r.Store.WriteTree(&object.TreeObj{Entries: entries})
	if err != nil {
		return "", fmt.Errorf("write tree %s: %w", dir, err)
	}
	r.log.Debug("tree written", zap.String("dir", dir), zap.Stringer("hash", h), zap.Int("entries", len(entries)))
	return h, nil
}

func (r *Repo) writeTreeEntry(path string, d fs.DirEntry) (object.TreeEntry, error) {
	// Stat follows symlinks so a link is snapshotted as its target's content.
	info, err := os.Stat(path)
	if err != nil {
		return object.TreeEntry{}, fmt.Errorf("write tree: %w: %w", ErrUnreadableSource, err)
	}

	switch {
	case info.IsDir():
		if d.Type()&fs.ModeSymlink != 0 {
			return object.TreeEntry{}, fmt.Errorf("write tree: %w: %s is a symlink to a directory", ErrUnreadableSource, path)
		}
		h, err := r.writeTreeDir(path)
		if err != nil {
			return object.TreeEntry{}, err
		}
		return object.TreeEntry{Name: d.Name(), IsDir: true, Mode: object.TreeModeDir, Hash: h}, nil
	case info.Mode().IsRegular():
		h, err := HashFile(path, object.TypeBlob, r.Store)
		if err != nil {
			return object.TreeEntry{}, err
		}
		mode := modeFromFileInfo(info)
		r.log.Debug("tree entry hashed", zap.String("path", path), zap.String("mode", mode), zap.Stringer("hash", h))
		return object.TreeEntry{Name: d.Name(), Mode: mode, Hash: h}, nil
	default:
		return object.TreeEntry{}, fmt.Errorf("write tree: %w: %s is not a regular file (%s)", ErrUnreadableSource, path, info.Mode().Type())
	}
}

// HashFile hashes the file at path as an object of objType. When store is
// non-nil the object is also written. Tree and commit content must decode.
func HashFile(path string, objType object.ObjectType, store *object.Store) (object.Hash, error) {
	data, err := readSource(path)
	if err != nil {
		return "", err
	}
	if objType != object.TypeBlob {
		if _, err := object.Decode(objType, data); err != nil {
			return "", fmt.Errorf("hash %s: %w", path, err)
		}
	}
	if store == nil {
		return object.HashObject(objType, data), nil
	}
	h, err := store.Write(objType, data)
	if err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return h, nil
}

func readSource(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: could not open %q for reading: %w", ErrUnreadableSource, path, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrUnreadableSource, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: unable to hash %s: is a directory", ErrUnreadableSource, path)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: unable to hash %s: not a regular file", ErrUnreadableSource, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadableSource, err)
	}
	return data, nil
}
