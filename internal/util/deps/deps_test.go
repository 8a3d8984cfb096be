package deps

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFindToolCustomPath(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, "myrar")
	if err := os.WriteFile(bin, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := FindTool("rar", bin)
	if err != nil {
		t.Fatalf("FindTool: %v", err)
	}
	if got != bin {
		t.Errorf("FindTool = %q, want %q", got, bin)
	}
}

func TestFindToolMissing(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	if _, err := FindTool("rar", filepath.Join(t.TempDir(), "nope")); !errors.Is(err, ErrNotFound) {
		t.Errorf("custom path: err = %v, want ErrNotFound", err)
	}
	if _, err := FindRar(""); !errors.Is(err, ErrNotFound) {
		t.Errorf("PATH lookup: err = %v, want ErrNotFound", err)
	}
	if _, err := FindTool("dir", t.TempDir()); !errors.Is(err, ErrNotFound) {
		t.Errorf("directory accepted as tool: %v", err)
	}
}

func TestFindToolSearchesNamesInOrder(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []string{"par2"} {
		if err := os.WriteFile(filepath.Join(dir, n), []byte("#!/bin/sh\n"), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	t.Setenv("PATH", dir)

	got, err := FindPar2("")
	if err != nil {
		t.Fatalf("FindPar2: %v", err)
	}
	if filepath.Base(got) != "par2" {
		t.Errorf("FindPar2 = %q, want fallback name par2", got)
	}
}
