package repo

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/odvcencio/twig/pkg/object"
)

func setupListingRepo(t *testing.T) (*Repo, object.Hash) {
	t.Helper()
	r := newTestRepo(t)
	writeFile(t, filepath.Join(r.RootDir, "hello.txt"), "hello\n", 0o644)
	if err := os.Mkdir(filepath.Join(r.RootDir, "empty"), 0o755); err != nil {
		t.Fatal(err)
	}
	h, err := r.WriteWorkingTree()
	if err != nil {
		t.Fatalf("WriteWorkingTree: %v", err)
	}
	return r, h
}

func TestListTree_NameOnly(t *testing.T) {
	r, h := setupListingRepo(t)

	got, err := r.ListTree(h, ListTreeOptions{NameOnly: true})
	if err != nil {
		t.Fatalf("ListTree: %v", err)
	}
	want := []TreeListing{{Name: "empty"}, {Name: "hello.txt"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("listing (-want +got):\n%s", diff)
	}
}

func TestListTree_Full(t *testing.T) {
	r, h := setupListingRepo(t)

	got, err := r.ListTree(h, ListTreeOptions{})
	if err != nil {
		t.Fatalf("ListTree: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteListing(&buf, got); err != nil {
		t.Fatalf("WriteListing: %v", err)
	}
	want := "040000 tree " + string(emptyTreeHash) + "\tempty\n" +
		"100644 blob " + string(helloBlobHash) + "\thello.txt\n"
	if buf.String() != want {
		t.Errorf("listing =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestListTree_Recursive(t *testing.T) {
	r := newTestRepo(t)
	writeFile(t, filepath.Join(r.RootDir, "a", "b", "deep.txt"), "hello\n", 0o644)
	writeFile(t, filepath.Join(r.RootDir, "top.txt"), "hello\n", 0o644)
	h, err := r.WriteWorkingTree()
	if err != nil {
		t.Fatalf("WriteWorkingTree: %v", err)
	}

	got, err := r.ListTree(h, ListTreeOptions{Recursive: true})
	if err != nil {
		t.Fatalf("ListTree: %v", err)
	}
	want := []TreeListing{
		{Mode: object.TreeModeFile, Type: object.TypeBlob, Hash: helloBlobHash, Name: "a/b/deep.txt"},
		{Mode: object.TreeModeFile, Type: object.TypeBlob, Hash: helloBlobHash, Name: "top.txt"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("listing (-want +got):\n%s", diff)
	}
}

func TestListTree_Errors(t *testing.T) {
	r, _ := setupListingRepo(t)

	tests := []struct {
		name string
		hash object.Hash
		want error
	}{
		{name: "blob", hash: helloBlobHash, want: object.ErrNotATree},
		{name: "short digest", hash: object.Hash(string(helloBlobHash)[:39]), want: object.ErrInvalidDigest},
		{name: "missing", hash: helloOnlyTree, want: object.ErrObjectNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := r.ListTree(tc.hash, ListTreeOptions{NameOnly: true})
			if !errors.Is(err, tc.want) {
				t.Fatalf("ListTree error = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestTreeListingString(t *testing.T) {
	tests := []struct {
		name    string
		listing TreeListing
		want    string
	}{
		{name: "name only", listing: TreeListing{Name: "x"}, want: "x"},
		{
			name:    "dir mode padded",
			listing: TreeListing{Mode: "40000", Type: object.TypeTree, Hash: emptyTreeHash, Name: "d"},
			want:    "040000 tree 4b825dc642cb6eb9a060e54bf8d69288fbee4904\td",
		},
		{
			name:    "executable",
			listing: TreeListing{Mode: "100755", Type: object.TypeBlob, Hash: helloBlobHash, Name: "run"},
			want:    "100755 blob ce013625030ba8dba906f756967f9e9ca394464a\trun",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.listing.String(); got != tc.want {
				t.Errorf("String() = %q, want %q", got, tc.want)
			}
		})
	}
}
