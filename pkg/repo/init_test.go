package repo

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func assertDir(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("expected directory %s: %v", path, err)
	}
	if !info.IsDir() {
		t.Fatalf("%s is not a directory", path)
	}
}

func assertFile(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("expected file %s: %v", path, err)
	}
	if info.IsDir() {
		t.Fatalf("%s is a directory, want file", path)
	}
}

// Init creates .git/ structure (HEAD, objects/, refs/heads/).
func TestInit_CreatesStructure(t *testing.T) {
	dir := t.TempDir()

	r, err := Init(dir)
	if err != nil {
		t.Fatalf("Init(%q): %v", dir, err)
	}
	if r.RootDir != dir {
		t.Errorf("RootDir = %q, want %q", r.RootDir, dir)
	}

	gitDir := filepath.Join(dir, ".git")
	if r.GitDir != gitDir {
		t.Errorf("GitDir = %q, want %q", r.GitDir, gitDir)
	}

	assertDir(t, gitDir)
	assertFile(t, filepath.Join(gitDir, "HEAD"))
	assertDir(t, filepath.Join(gitDir, "objects"))
	assertDir(t, filepath.Join(gitDir, "refs", "heads"))

	head, err := os.ReadFile(filepath.Join(gitDir, "HEAD"))
	if err != nil {
		t.Fatalf("read HEAD: %v", err)
	}
	if string(head) != "ref: refs/heads/main\n" {
		t.Errorf("HEAD = %q, want %q", head, "ref: refs/heads/main\n")
	}

	if r.Store == nil {
		t.Error("Store is nil after Init")
	}
	if r.Store.Root() != gitDir {
		t.Errorf("Store root = %q, want %q", r.Store.Root(), gitDir)
	}
}

func TestInit_ExistingRepo_Error(t *testing.T) {
	dir := t.TempDir()

	if _, err := Init(dir); err != nil {
		t.Fatalf("first Init: %v", err)
	}
	_, err := Init(dir)
	if !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("second Init error = %v, want ErrAlreadyExists", err)
	}
}

func TestInit_InitialBranch(t *testing.T) {
	r, err := Init(t.TempDir(), WithInitialBranch("master"))
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	ref, err := r.Head()
	if err != nil {
		t.Fatalf("Head(): %v", err)
	}
	if ref != "refs/heads/master" {
		t.Errorf("Head() = %q, want %q", ref, "refs/heads/master")
	}
}

func TestInit_HeadDefault(t *testing.T) {
	r, err := Init(t.TempDir())
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	ref, err := r.Head()
	if err != nil {
		t.Fatalf("Head(): %v", err)
	}
	if ref != "refs/heads/main" {
		t.Errorf("Head() = %q, want %q", ref, "refs/heads/main")
	}
}

func TestHead_Detached(t *testing.T) {
	r, err := Init(t.TempDir())
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	const detached = "ce013625030ba8dba906f756967f9e9ca394464a"
	if err := os.WriteFile(filepath.Join(r.GitDir, "HEAD"), []byte(detached+"\n"), 0o644); err != nil {
		t.Fatalf("write HEAD: %v", err)
	}
	ref, err := r.Head()
	if err != nil {
		t.Fatalf("Head(): %v", err)
	}
	if ref != detached {
		t.Errorf("Head() = %q, want %q", ref, detached)
	}
}

// Open finds .git/ from a subdirectory.
func TestOpen_FromSubdirectory(t *testing.T) {
	dir := t.TempDir()

	if _, err := Init(dir); err != nil {
		t.Fatalf("Init: %v", err)
	}

	sub := filepath.Join(dir, "a", "b", "c")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	r, err := Open(sub)
	if err != nil {
		t.Fatalf("Open(%q): %v", sub, err)
	}
	if r.RootDir != dir {
		t.Errorf("RootDir = %q, want %q", r.RootDir, dir)
	}
	if r.GitDir != filepath.Join(dir, ".git") {
		t.Errorf("GitDir = %q, want %q", r.GitDir, filepath.Join(dir, ".git"))
	}
	if r.Config == nil {
		t.Error("Config is nil after Open")
	}
}

func TestOpen_NoRepo_Error(t *testing.T) {
	_, err := Open(t.TempDir())
	if !errors.Is(err, ErrNotARepository) {
		t.Fatalf("Open error = %v, want ErrNotARepository", err)
	}
}
