package fsutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestAtomicWriteCreatesFileAndNoTempLeftover(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")
	if err := AtomicWrite(path, []byte("hello\n")); err != nil {
		t.Fatalf("AtomicWrite: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "hello\n" {
		t.Errorf("content = %q, want %q", data, "hello\n")
	}

	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if e.Name() != "out.txt" {
			t.Errorf("unexpected leftover file: %s", e.Name())
		}
	}
}

func TestCheckPreconditionMismatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	if err := os.WriteFile(path, []byte("v1\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	wrong := "WRONG"
	ok, actual, err := Check(path, &Precondition{ExpectedHash: &wrong})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if ok {
		t.Error("Check returned ok=true for mismatched hash")
	}
	if !actual.Exists || actual.SizeBytes != 3 {
		t.Errorf("actual = %+v", actual)
	}
}

func TestCheckPreconditionMatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	if err := os.WriteFile(path, []byte("v1\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	snap, err := Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	ok, _, err := Check(path, &Precondition{ExpectedHash: &snap.Hash})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !ok {
		t.Error("Check returned ok=false for matching hash")
	}
}

func TestValidateRelativePathRejectsParentAndAbsolute(t *testing.T) {
	cases := []string{"../escape", "a/../../b", "/abs/path", ""}
	for _, c := range cases {
		if err := ValidateRelativePath(c); err == nil {
			t.Errorf("ValidateRelativePath(%q) = nil, want error", c)
		}
	}
}

func TestValidateRelativePathAcceptsOrdinary(t *testing.T) {
	if err := ValidateRelativePath("a/b/c.txt"); err != nil {
		t.Errorf("ValidateRelativePath: %v", err)
	}
}

func TestSortEntriesOrdersKindThenName(t *testing.T) {
	entries := []Entry{
		{Name: "zzz", Kind: KindFile},
		{Name: "a", Kind: KindOther},
		{Name: "bbb", Kind: KindDir},
		{Name: "aaa", Kind: KindDir},
		{Name: "link", Kind: KindSymlink},
	}
	SortEntries(entries)
	want := []string{"aaa", "bbb", "zzz", "link", "a"}
	for i, name := range want {
		if entries[i].Name != name {
			t.Errorf("entries[%d].Name = %q, want %q", i, entries[i].Name, name)
		}
	}
}
