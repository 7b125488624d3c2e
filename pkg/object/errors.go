package object

import "errors"

var (
	// ErrInvalidDigest is returned for identifiers that are not 40 hex characters.
	ErrInvalidDigest = errors.New("invalid object digest")
	// ErrObjectNotFound is returned when a well-formed digest has no stored object.
	ErrObjectNotFound = errors.New("object not found")
	// ErrUnknownObjectType is returned for type tags other than blob, tree and commit.
	ErrUnknownObjectType = errors.New("unknown object type")
	// ErrNotATree is returned when a tree was requested but another kind was stored.
	ErrNotATree = errors.New("not a tree object")
	// ErrTypeMismatch is returned when a typed read finds a different kind.
	ErrTypeMismatch = errors.New("object type mismatch")
	// ErrCorruptObject is returned when stored bytes do not decode.
	ErrCorruptObject = errors.New("corrupt object")
	// ErrInvalidSignature is returned when an author or committer cannot be
	// encoded in a commit header.
	ErrInvalidSignature = errors.New("invalid signature")
)
