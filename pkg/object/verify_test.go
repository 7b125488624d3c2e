package object

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestStoreVerify(t *testing.T) {
	s := tempStore(t)
	blobHash, err := s.WriteBlob(&Blob{Data: []byte("verify me\n")})
	if err != nil {
		t.Fatalf("WriteBlob: %v", err)
	}
	if _, err := s.WriteTree(&TreeObj{Entries: []TreeEntry{{Name: "a", Hash: blobHash}}}); err != nil {
		t.Fatalf("WriteTree: %v", err)
	}

	// Stray files in the objects directory are ignored.
	if err := os.WriteFile(filepath.Join(s.Root(), "objects", "README"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write stray file: %v", err)
	}

	report, err := s.Verify()
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if report.LooseObjects != 2 {
		t.Errorf("LooseObjects = %d, want 2", report.LooseObjects)
	}
	if report.ByType[TypeBlob] != 1 || report.ByType[TypeTree] != 1 {
		t.Errorf("ByType = %v, want one blob and one tree", report.ByType)
	}
}

func TestStoreVerifyDetectsMisplacedObject(t *testing.T) {
	s := tempStore(t)
	raw := []byte("blob 5\x00hello")
	wrong := Hash("3333333333333333333333333333333333333333")
	if err := s.Put(wrong, raw); err != nil {
		t.Fatalf("Put: %v", err)
	}

	_, err := s.Verify()
	if !errors.Is(err, ErrCorruptObject) {
		t.Fatalf("Verify error = %v, want ErrCorruptObject", err)
	}
}

func TestStoreVerifyEmpty(t *testing.T) {
	s := NewStore(t.TempDir())
	report, err := s.Verify()
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if report.LooseObjects != 0 {
		t.Errorf("LooseObjects = %d, want 0", report.LooseObjects)
	}
}
