package repo

import (
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/odvcencio/twig/pkg/object"
)

// ListTreeOptions selects how ListTree reports entries.
type ListTreeOptions struct {
	NameOnly  bool // report names only
	Recursive bool // descend into sub-trees, reporting their entries by path
}

// TreeListing is one line of a tree listing. With NameOnly only Name is set.
type TreeListing struct {
	Mode string
	Type object.ObjectType
	Hash object.Hash
	Name string
}

// String renders the listing the way git ls-tree does, with directory modes
// zero-padded to six digits.
func (l TreeListing) String() string {
	if l.Type == "" {
		return l.Name
	}
	mode := l.Mode
	if n := len(mode); n < 6 {
		mode = strings.Repeat("0", 6-n) + mode
	}
	return fmt.Sprintf("%s %s %s\t%s", mode, l.Type, l.Hash, l.Name)
}

// ListTree decodes the tree stored under h. Without Recursive only the
// tree's direct entries are reported; with it, sub-trees are resolved and
// their leaf entries reported under slash-joined paths.
func (r *Repo) ListTree(h object.Hash, opts ListTreeOptions) ([]TreeListing, error) {
	var out []TreeListing
	if err := r.listTreeRec(h, "", opts, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) listTreeRec(h object.Hash, prefix string, opts ListTreeOptions, out *[]TreeListing) error {
	treeObj, err := r.Store.ReadTree(h)
	if err != nil {
		if prefix == "" {
			return fmt.Errorf("ls-tree: %w", err)
		}
		return fmt.Errorf("ls-tree %s: %w", prefix, err)
	}

	for _, entry := range treeObj.Entries {
		name := entry.Name
		if prefix != "" {
			name = path.Join(prefix, entry.Name)
		}

		if entry.IsDir && opts.Recursive {
			if err := r.listTreeRec(entry.Hash, name, opts, out); err != nil {
				return err
			}
			continue
		}
		if opts.NameOnly {
			*out = append(*out, TreeListing{Name: name})
			continue
		}
		*out = append(*out, TreeListing{
			Mode: entry.Mode,
			Type: entry.Type(),
			Hash: entry.Hash,
			Name: name,
		})
	}
	return nil
}

// WriteListing prints one listing per line.
func WriteListing(w io.Writer, listings []TreeListing) error {
	for _, l := range listings {
		if _, err := fmt.Fprintln(w, l.String()); err != nil {
			return err
		}
	}
	return nil
}
