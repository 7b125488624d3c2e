package repo

import (
	"fmt"
	"io"

	"github.com/odvcencio/twig/pkg/object"
)

// ObjectInfo describes a stored object without decoding it.
type ObjectInfo struct {
	Type object.ObjectType
	Size int
}

// Stat returns the type and body size of the object stored under h.
func (r *Repo) Stat(h object.Hash) (ObjectInfo, error) {
	objType, data, err := r.Store.Read(h)
	if err != nil {
		return ObjectInfo{}, err
	}
	return ObjectInfo{Type: objType, Size: len(data)}, nil
}

// PrettyPrint writes the object stored under h to w: blob and commit bodies
// verbatim, trees as a full listing.
func (r *Repo) PrettyPrint(w io.Writer, h object.Hash) error {
	objType, data, err := r.Store.Read(h)
	if err != nil {
		return err
	}
	switch objType {
	case object.TypeBlob, object.TypeCommit:
		if _, err := object.Decode(objType, data); err != nil {
			return fmt.Errorf("object %s: %w", h, err)
		}
		_, err = w.Write(data)
		return err
	case object.TypeTree:
		listings, err := r.ListTree(h, ListTreeOptions{})
		if err != nil {
			return err
		}
		return WriteListing(w, listings)
	default:
		return fmt.Errorf("object %s: %w %q", h, object.ErrUnknownObjectType, objType)
	}
}
