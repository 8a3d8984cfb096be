package packager

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestListVolumes(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []string{
		"Show.r10", "Show.rar", "Show.r00", "Show.r09", "Show.sfv", "Show.nfo",
		"Show.par2", "Show.vol0+1.par2", "Show.Extra.rar", "Other.rar",
	} {
		if err := os.WriteFile(filepath.Join(dir, n), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	got, err := ListVolumes(filepath.Join(dir, "Show"))
	if err != nil {
		t.Fatalf("ListVolumes: %v", err)
	}
	want := []string{
		filepath.Join(dir, "Show.rar"),
		filepath.Join(dir, "Show.r00"),
		filepath.Join(dir, "Show.r09"),
		filepath.Join(dir, "Show.r10"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ListVolumes mismatch (-want +got):\n%s", diff)
	}
}

func TestListVolumesNewStyleNames(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []string{"X.part10.rar", "X.part2.rar", "X.part1.rar"} {
		if err := os.WriteFile(filepath.Join(dir, n), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	got, err := ListVolumes(filepath.Join(dir, "X"))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		filepath.Join(dir, "X.part1.rar"),
		filepath.Join(dir, "X.part2.rar"),
		filepath.Join(dir, "X.part10.rar"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ListVolumes mismatch (-want +got):\n%s", diff)
	}
}

func TestFirstVolume(t *testing.T) {
	if got := FirstVolume("/r/X"); got != "/r/X.rar" {
		t.Errorf("FirstVolume = %q", got)
	}
}
