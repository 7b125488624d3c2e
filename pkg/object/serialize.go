package object

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
)

// Encode returns the type tag and canonical body of o.
func Encode(o Object) (ObjectType, []byte, error) {
	switch obj := o.(type) {
	case *Blob:
		return TypeBlob, MarshalBlob(obj), nil
	case *TreeObj:
		data, err := MarshalTree(obj)
		if err != nil {
			return "", nil, err
		}
		return TypeTree, data, nil
	case *CommitObj:
		data, err := MarshalCommit(obj)
		if err != nil {
			return "", nil, err
		}
		return TypeCommit, data, nil
	case nil:
		return "", nil, fmt.Errorf("encode: nil object")
	default:
		return "", nil, fmt.Errorf("encode %T: %w", o, ErrUnknownObjectType)
	}
}

// Decode parses a canonical body according to its type tag. Unknown tags are
// rejected before the body is inspected.
func Decode(objType ObjectType, data []byte) (Object, error) {
	switch objType {
	case TypeBlob:
		return UnmarshalBlob(data)
	case TypeTree:
		return UnmarshalTree(data)
	case TypeCommit:
		return UnmarshalCommit(data)
	default:
		return nil, fmt.Errorf("decode %q: %w", string(objType), ErrUnknownObjectType)
	}
}

// ---------------------------------------------------------------------------
// Blob
// ---------------------------------------------------------------------------

// MarshalBlob serializes a Blob to raw bytes (identity).
func MarshalBlob(b *Blob) []byte {
	out := make([]byte, len(b.Data))
	copy(out, b.Data)
	return out
}

// UnmarshalBlob deserializes raw bytes into a Blob.
func UnmarshalBlob(data []byte) (*Blob, error) {
	out := make([]byte, len(data))
	copy(out, data)
	return &Blob{Data: out}, nil
}

// ---------------------------------------------------------------------------
// TreeObj
// ---------------------------------------------------------------------------

// MarshalTree serializes a TreeObj in git's binary tree format. Entries are
// sorted by the raw bytes of their names; each one is
//
//	<mode> SP <name> NUL <20-byte digest>
//
// Directories are always written with mode 40000.
func MarshalTree(tr *TreeObj) ([]byte, error) {
	sorted := make([]TreeEntry, len(tr.Entries))
	copy(sorted, tr.Entries)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})

	var buf bytes.Buffer
	for i, e := range sorted {
		if err := validateEntryName(e.Name); err != nil {
			return nil, fmt.Errorf("marshal tree: %w", err)
		}
		if i > 0 && sorted[i-1].Name == e.Name {
			return nil, fmt.Errorf("marshal tree: duplicate entry %q", e.Name)
		}
		mode, err := treeModeOrDefault(e)
		if err != nil {
			return nil, fmt.Errorf("marshal tree: entry %q: %w", e.Name, err)
		}
		raw, err := e.Hash.Raw()
		if err != nil {
			return nil, fmt.Errorf("marshal tree: entry %q: %w", e.Name, err)
		}
		buf.WriteString(mode)
		buf.WriteByte(' ')
		buf.WriteString(e.Name)
		buf.WriteByte(0)
		buf.Write(raw[:])
	}
	return buf.Bytes(), nil
}

// UnmarshalTree parses a TreeObj from its binary form.
func UnmarshalTree(data []byte) (*TreeObj, error) {
	tr := &TreeObj{}
	for len(data) > 0 {
		sp := bytes.IndexByte(data, ' ')
		if sp < 0 {
			return nil, fmt.Errorf("unmarshal tree: %w: entry %d has no mode separator", ErrCorruptObject, len(tr.Entries))
		}
		isDir, mode, err := parseTreeMode(string(data[:sp]))
		if err != nil {
			return nil, fmt.Errorf("unmarshal tree: %w: %v", ErrCorruptObject, err)
		}
		data = data[sp+1:]

		nul := bytes.IndexByte(data, 0)
		if nul < 0 {
			return nil, fmt.Errorf("unmarshal tree: %w: entry %d has no name terminator", ErrCorruptObject, len(tr.Entries))
		}
		name := string(data[:nul])
		if err := validateEntryName(name); err != nil {
			return nil, fmt.Errorf("unmarshal tree: %w: %v", ErrCorruptObject, err)
		}
		data = data[nul+1:]

		if len(data) < HashSize {
			return nil, fmt.Errorf("unmarshal tree: %w: entry %q has truncated digest", ErrCorruptObject, name)
		}
		h, err := HashFromRaw(data[:HashSize])
		if err != nil {
			return nil, fmt.Errorf("unmarshal tree: %w", err)
		}
		data = data[HashSize:]

		tr.Entries = append(tr.Entries, TreeEntry{
			Name:  name,
			IsDir: isDir,
			Mode:  mode,
			Hash:  h,
		})
	}
	return tr, nil
}

func validateEntryName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("empty entry name")
	case strings.ContainsAny(name, "/\x00"):
		return fmt.Errorf("entry name %q contains a path separator or NUL", name)
	}
	return nil
}

func treeModeOrDefault(e TreeEntry) (string, error) {
	if e.IsDir {
		return TreeModeDir, nil
	}
	if strings.TrimSpace(e.Mode) == "" {
		return TreeModeFile, nil
	}
	isDir, mode, err := parseTreeMode(e.Mode)
	if err != nil {
		return "", err
	}
	if isDir {
		return "", fmt.Errorf("directory mode %q on a file entry", e.Mode)
	}
	return mode, nil
}

// parseTreeMode accepts 40000 and the zero-padded 040000 for directories,
// 100 followed by three octal permission digits for regular files, and the
// symlink and gitlink modes written by git.
func parseTreeMode(mode string) (bool, string, error) {
	switch mode {
	case TreeModeDir, treeModeDirPadded:
		return true, TreeModeDir, nil
	case TreeModeSymlink, TreeModeGitlink:
		return false, mode, nil
	}
	if len(mode) == len(TreeModeFile) && strings.HasPrefix(mode, "100") && isOctal(mode[3:]) {
		return false, mode, nil
	}
	return false, "", fmt.Errorf("unknown mode %q", mode)
}

func isOctal(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '7' {
			return false
		}
	}
	return true
}

// ---------------------------------------------------------------------------
// CommitObj
// ---------------------------------------------------------------------------

// MarshalCommit serializes a CommitObj:
//
//	tree H
//	parent H     (optional)
//	author A
//	committer C
//
//	message
func MarshalCommit(c *CommitObj) ([]byte, error) {
	if err := c.TreeHash.Validate(); err != nil {
		return nil, fmt.Errorf("marshal commit: tree: %w", err)
	}
	if c.Parent != "" {
		if err := c.Parent.Validate(); err != nil {
			return nil, fmt.Errorf("marshal commit: parent: %w", err)
		}
	}
	if err := c.Author.Validate(); err != nil {
		return nil, fmt.Errorf("marshal commit: author: %w", err)
	}
	if err := c.Committer.Validate(); err != nil {
		return nil, fmt.Errorf("marshal commit: committer: %w", err)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "tree %s\n", c.TreeHash)
	if c.Parent != "" {
		fmt.Fprintf(&buf, "parent %s\n", c.Parent)
	}
	fmt.Fprintf(&buf, "author %s\n", c.Author)
	fmt.Fprintf(&buf, "committer %s\n", c.Committer)
	buf.WriteByte('\n')
	buf.WriteString(c.Message)
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// UnmarshalCommit parses a CommitObj from its serialized form. Headers it does
// not model, including multi-line ones such as gpgsig, are skipped.
func UnmarshalCommit(data []byte) (*CommitObj, error) {
	idx := bytes.Index(data, []byte("\n\n"))
	if idx < 0 {
		return nil, fmt.Errorf("unmarshal commit: %w: missing header/message separator", ErrCorruptObject)
	}
	header := string(data[:idx])
	message := strings.TrimSuffix(string(data[idx+2:]), "\n")

	c := &CommitObj{Message: message}
	var haveTree, haveAuthor, haveCommitter bool
	seen := make(map[string]bool, 4)
	for _, line := range strings.Split(header, "\n") {
		if strings.HasPrefix(line, " ") {
			// Continuation of the previous header.
			continue
		}
		key, val, ok := strings.Cut(line, " ")
		if !ok {
			return nil, fmt.Errorf("unmarshal commit: %w: malformed header line %q", ErrCorruptObject, line)
		}
		switch key {
		case "tree", "parent", "author", "committer":
			if seen[key] {
				return nil, fmt.Errorf("unmarshal commit: %w: duplicate %s header", ErrCorruptObject, key)
			}
			seen[key] = true
		}
		switch key {
		case "tree":
			h, err := ParseHash(val)
			if err != nil {
				return nil, fmt.Errorf("unmarshal commit: tree: %w", err)
			}
			c.TreeHash = h
			haveTree = true
		case "parent":
			h, err := ParseHash(val)
			if err != nil {
				return nil, fmt.Errorf("unmarshal commit: parent: %w", err)
			}
			c.Parent = h
		case "author":
			sig, err := ParseSignature(val)
			if err != nil {
				return nil, fmt.Errorf("unmarshal commit: %w: author: %v", ErrCorruptObject, err)
			}
			c.Author = sig
			haveAuthor = true
		case "committer":
			sig, err := ParseSignature(val)
			if err != nil {
				return nil, fmt.Errorf("unmarshal commit: %w: committer: %v", ErrCorruptObject, err)
			}
			c.Committer = sig
			haveCommitter = true
		}
	}
	switch {
	case !haveTree:
		return nil, fmt.Errorf("unmarshal commit: %w: missing tree header", ErrCorruptObject)
	case !haveAuthor:
		return nil, fmt.Errorf("unmarshal commit: %w: missing author header", ErrCorruptObject)
	case !haveCommitter:
		return nil, fmt.Errorf("unmarshal commit: %w: missing committer header", ErrCorruptObject)
	}
	return c, nil
}
