package main

import (
	"path/filepath"
	"strings"
	"testing"
)

func setCommitIdentity(t *testing.T) {
	t.Helper()
	t.Setenv("GIT_AUTHOR_NAME", "Env Author")
	t.Setenv("GIT_AUTHOR_EMAIL", "author@example.com")
	t.Setenv("GIT_COMMITTER_NAME", "Env Committer")
	t.Setenv("GIT_COMMITTER_EMAIL", "committer@example.com")
}

func TestCommitTreeAndLogCmd(t *testing.T) {
	setCommitIdentity(t)
	dir := initRepoDir(t)
	writeCmdFile(t, filepath.Join(dir, "a.txt"), "one\n")
	tree1 := strings.TrimSpace(mustRunTwig(t, dir, "write-tree"))
	first := strings.TrimSpace(mustRunTwig(t, dir, "commit-tree", tree1, "-m", "first"))

	writeCmdFile(t, filepath.Join(dir, "a.txt"), "two\n")
	tree2 := strings.TrimSpace(mustRunTwig(t, dir, "write-tree"))
	second := strings.TrimSpace(mustRunTwig(t, dir, "commit-tree", tree2, "-p", first, "-m", "second"))

	body := mustRunTwig(t, dir, "cat-file", "-p", second)
	for _, want := range []string{
		"tree " + tree2 + "\n",
		"parent " + first + "\n",
		"author Env Author <author@example.com> ",
		"committer Env Committer <committer@example.com> ",
		"\n\nsecond\n",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("commit body missing %q:\n%s", want, body)
		}
	}

	out := mustRunTwig(t, dir, "log", second)
	if got := strings.Count(out, "commit "); got != 2 {
		t.Fatalf("log shows %d commits, want 2:\n%s", got, out)
	}
	if !strings.HasPrefix(out, "commit "+second+"\nAuthor: Env Author <author@example.com>\nDate:   ") {
		t.Errorf("log header =\n%s", out)
	}
	if !strings.Contains(out, "\n\n    second\n\n") || !strings.Contains(out, "\n\n    first\n\n") {
		t.Errorf("log messages missing:\n%s", out)
	}
	if strings.Index(out, "second") > strings.Index(out, "first") {
		t.Errorf("log not newest first:\n%s", out)
	}

	out = mustRunTwig(t, dir, "log", "-n", "1", second)
	if strings.Count(out, "commit ") != 1 {
		t.Errorf("log -n 1 =\n%s", out)
	}
}

func TestCommitTreeCmdRejectsNonTree(t *testing.T) {
	setCommitIdentity(t)
	dir := initRepoDir(t)
	writeCmdFile(t, filepath.Join(dir, "hello.txt"), "hello\n")
	mustRunTwig(t, dir, "hash-object", "-w", "hello.txt")

	res := runTwig(t, dir, "commit-tree", helloBlobHash, "-m", "msg")
	if res.code != exitFatal {
		t.Fatalf("exit = %d, want %d", res.code, exitFatal)
	}
	if !strings.Contains(res.stderr, "not a tree object") {
		t.Errorf("stderr = %q", res.stderr)
	}

	tree := strings.TrimSpace(mustRunTwig(t, dir, "write-tree"))
	res = runTwig(t, dir, "commit-tree", tree, "-p", tree, "-m", "msg")
	if res.code != exitFatal {
		t.Fatalf("parent tree exit = %d, want %d", res.code, exitFatal)
	}
	if !strings.Contains(res.stderr, "object type mismatch") {
		t.Errorf("stderr = %q", res.stderr)
	}
}

func TestLogCmdIndentsEveryMessageLine(t *testing.T) {
	setCommitIdentity(t)
	dir := initRepoDir(t)
	tree := strings.TrimSpace(mustRunTwig(t, dir, "write-tree"))
	h := strings.TrimSpace(mustRunTwig(t, dir, "commit-tree", tree, "-m", "subject\n\nbody line one\nbody line two"))

	out := mustRunTwig(t, dir, "log", h)
	want := "\n\n    subject\n    \n    body line one\n    body line two\n\n"
	if !strings.HasSuffix(out, want) {
		t.Errorf("log output =\n%q\nwant suffix\n%q", out, want)
	}
}

func TestCommitTreeCmdRejectsNewlineInIdentity(t *testing.T) {
	setCommitIdentity(t)
	t.Setenv("GIT_AUTHOR_NAME", "Mallory\nencoding x")
	dir := initRepoDir(t)
	tree := strings.TrimSpace(mustRunTwig(t, dir, "write-tree"))

	res := runTwig(t, dir, "commit-tree", tree, "-m", "msg")
	if res.code != exitFatal {
		t.Fatalf("exit = %d, want %d", res.code, exitFatal)
	}
	if !strings.Contains(res.stderr, "invalid signature") {
		t.Errorf("stderr = %q", res.stderr)
	}

	out := mustRunTwig(t, dir, "verify")
	if !strings.Contains(out, "0 commit") {
		t.Errorf("verify = %q, want no stored commits", out)
	}
}
