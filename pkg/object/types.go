package object

// ObjectType identifies the kind of object stored.
type ObjectType string

const (
	TypeBlob   ObjectType = "blob"
	TypeTree   ObjectType = "tree"
	TypeCommit ObjectType = "commit"
)

// Valid reports whether t is one of the three known object kinds.
func (t ObjectType) Valid() bool {
	switch t {
	case TypeBlob, TypeTree, TypeCommit:
		return true
	}
	return false
}

const (
	// Tree mode constants compatible with Git's canonical mode strings.
	TreeModeDir        = "40000"
	TreeModeFile       = "100644"
	TreeModeExecutable = "100755"
	TreeModeSymlink    = "120000"
	TreeModeGitlink    = "160000"

	// treeModeDirPadded is how some writers render directories.
	treeModeDirPadded = "040000"
)

// Object is one of *Blob, *TreeObj or *CommitObj. The set is closed: the
// marker method is unexported.
type Object interface {
	Type() ObjectType
	object()
}

// Blob holds raw file data.
type Blob struct {
	Data []byte
}

func (*Blob) Type() ObjectType { return TypeBlob }
func (*Blob) object()          {}

// TreeEntry is one entry in a tree object. Hash references a blob for files
// and symlinks, a tree for directories and a commit for gitlinks.
//
// Mode may be left empty when encoding: directories encode as 40000 and other
// entries as 100644. Decoded entries always carry the mode from the body.
type TreeEntry struct {
	Name  string
	IsDir bool
	Mode  string
	Hash  Hash
}

// Type returns the kind of object the entry points at.
func (e TreeEntry) Type() ObjectType {
	switch {
	case e.IsDir:
		return TypeTree
	case e.Mode == TreeModeGitlink:
		return TypeCommit
	}
	return TypeBlob
}

// TreeObj holds tree entries sorted by the raw bytes of their names.
type TreeObj struct {
	Entries []TreeEntry
}

func (*TreeObj) Type() ObjectType { return TypeTree }
func (*TreeObj) object()          {}

// CommitObj represents a commit pointing to a tree with metadata. Parent is
// empty for a root commit.
type CommitObj struct {
	TreeHash  Hash
	Parent    Hash
	Author    Signature
	Committer Signature
	Message   string
}

func (*CommitObj) Type() ObjectType { return TypeCommit }
func (*CommitObj) object()          {}
