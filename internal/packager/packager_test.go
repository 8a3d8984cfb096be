package packager

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"

	"liftcup/internal/progress"
	"liftcup/internal/util"
)

type recordingReporter struct {
	updates []progress.Update
	logs    []progress.Log
}

func (r *recordingReporter) Update(u progress.Update)   { r.updates = append(r.updates, u) }
func (r *recordingReporter) Log(l progress.Log)         { r.logs = append(r.logs, l) }
func (r *recordingReporter) Result(res progress.Result) {}

// fakeTools simulates rar, cksfv and par2create by writing the files they
// would produce.
type fakeTools struct {
	t     *testing.T
	specs []util.CmdSpec
	fail  string // tool path that exits non-zero
}

func (f *fakeTools) Run(ctx context.Context, spec util.CmdSpec) (util.CmdResult, error) {
	f.specs = append(f.specs, spec)
	if spec.Path == f.fail {
		return util.CmdResult{Code: 1}, errors.New("command failed (exit 1)")
	}
	switch filepath.Base(spec.Path) {
	case "rar":
		archive := spec.Args[8]
		for _, suffix := range []string{".r01", ".rar", ".r00"} {
			if err := os.WriteFile(archive+suffix, []byte("vol"), 0o644); err != nil {
				f.t.Fatal(err)
			}
		}
		for _, rel := range spec.Args[9:] {
			if filepath.IsAbs(rel) {
				f.t.Errorf("rar got absolute file %q", rel)
			}
			if _, err := os.Stat(filepath.Join(spec.Dir, rel)); err != nil {
				f.t.Errorf("rar input %q not found relative to %q", rel, spec.Dir)
			}
		}
		if spec.StdoutLine != nil {
			spec.StdoutLine("Adding    a.mkv")
			spec.StdoutLine(" 50%")
			spec.StdoutLine("100%")
		}
	case "cksfv":
		var b strings.Builder
		b.WriteString("; Generated by cksfv\n")
		for _, v := range spec.Args[1:] {
			b.WriteString(filepath.Base(v) + " DEADBEEF\n")
		}
		return util.CmdResult{Stdout: []byte(b.String())}, nil
	case "par2create":
		archive := spec.Args[2]
		for _, suffix := range []string{".par2", ".vol0+1.par2"} {
			if err := os.WriteFile(archive+suffix, []byte("par"), 0o644); err != nil {
				f.t.Fatal(err)
			}
		}
		if spec.StdoutLine != nil {
			spec.StdoutLine("Processing: 42.0%")
		}
	}
	return util.CmdResult{}, nil
}

func TestArchiveListsVolumesInOrder(t *testing.T) {
	tmp := t.TempDir()
	src := filepath.Join(tmp, "Show.720p.HDTV.x264-GRP.mkv")
	sub := filepath.Join(tmp, "Show.720p.HDTV.x264-GRP.en.srt")
	for _, p := range []string{src, sub} {
		if err := os.WriteFile(p, []byte("data"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	archive := filepath.Join(tmp, "Show.720p.HDTV.x264-GRP", "Show.720p.HDTV.x264-GRP")

	ft := &fakeTools{t: t}
	rep := &recordingReporter{}
	vols, err := Archive(context.Background(), ArchiveSpec{
		RarPath:  "/usr/bin/rar",
		Archive:  archive,
		Files:    []string{src, sub},
		VolumeMB: 15,
	}, Options{Runner: ft, Reporter: rep, JobID: "job-1"})
	if err != nil {
		t.Fatalf("Archive: %v", err)
	}

	want := []string{archive + ".rar", archive + ".r00", archive + ".r01"}
	if diff := cmp.Diff(want, vols); diff != "" {
		t.Errorf("volumes mismatch (-want +got):\n%s", diff)
	}
	if ft.specs[0].Dir != tmp {
		t.Errorf("rar working dir = %q, want %q", ft.specs[0].Dir, tmp)
	}
	last := rep.updates[len(rep.updates)-1]
	if last.Stage != progress.StageArchive || last.Percent <= 0 {
		t.Errorf("last update = %+v, want archive progress", last)
	}
}

func TestArchiveTestModePredictsFirstVolume(t *testing.T) {
	tmp := t.TempDir()
	src := filepath.Join(tmp, "a.mkv")
	if err := os.WriteFile(src, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	archive := filepath.Join(tmp, "a", "a")
	vols, err := Archive(context.Background(), ArchiveSpec{
		RarPath: "rar", Archive: archive, Files: []string{src}, VolumeMB: 15,
	}, Options{Runner: util.NewDryRunner(zerolog.Nop()), Test: true})
	if err != nil {
		t.Fatalf("Archive: %v", err)
	}
	if diff := cmp.Diff([]string{archive + ".rar"}, vols); diff != "" {
		t.Errorf("volumes mismatch (-want +got):\n%s", diff)
	}
}

func TestArchiveFailure(t *testing.T) {
	tmp := t.TempDir()
	src := filepath.Join(tmp, "a.mkv")
	if err := os.WriteFile(src, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	ft := &fakeTools{t: t, fail: "/usr/bin/rar"}
	_, err := Archive(context.Background(), ArchiveSpec{
		RarPath: "/usr/bin/rar", Archive: filepath.Join(tmp, "a", "a"), Files: []string{src}, VolumeMB: 15,
	}, Options{Runner: ft})
	if err == nil || !strings.Contains(err.Error(), "rar failed") {
		t.Errorf("err = %v, want rar failure", err)
	}

	if _, err := Archive(context.Background(), ArchiveSpec{RarPath: "rar", Archive: "x"}, Options{Runner: ft}); err == nil {
		t.Error("expected error for empty file list")
	}
}

func TestChecksumWritesToolOutput(t *testing.T) {
	tmp := t.TempDir()
	sfv := filepath.Join(tmp, "x.sfv")
	vols := []string{filepath.Join(tmp, "x.rar"), filepath.Join(tmp, "x.r00")}

	err := Checksum(context.Background(), "/usr/bin/cksfv", sfv, vols, Options{Runner: &fakeTools{t: t}})
	if err != nil {
		t.Fatalf("Checksum: %v", err)
	}
	data, err := os.ReadFile(sfv)
	if err != nil {
		t.Fatal(err)
	}
	want := "; Generated by cksfv\nx.rar DEADBEEF\nx.r00 DEADBEEF\n"
	if string(data) != want {
		t.Errorf("sfv = %q, want %q", data, want)
	}
}

func TestChecksumTestModeWritesNothing(t *testing.T) {
	tmp := t.TempDir()
	sfv := filepath.Join(tmp, "x.sfv")
	err := Checksum(context.Background(), "cksfv", sfv, []string{"x.rar"}, Options{Runner: util.NewDryRunner(zerolog.Nop()), Test: true})
	if err != nil {
		t.Fatalf("Checksum: %v", err)
	}
	if util.Exists(sfv) {
		t.Error("sfv written in test mode")
	}
}

func TestRecovery(t *testing.T) {
	tmp := t.TempDir()
	archive := filepath.Join(tmp, "Show [x]")
	rep := &recordingReporter{}

	files, err := Recovery(context.Background(), "/usr/bin/par2create", archive,
		[]string{archive + ".rar"}, archive+".nfo", Options{Runner: &fakeTools{t: t}, Reporter: rep})
	if err != nil {
		t.Fatalf("Recovery: %v", err)
	}
	want := []string{archive + ".par2", archive + ".vol0+1.par2"}
	if diff := cmp.Diff(want, files); diff != "" {
		t.Errorf("par2 files mismatch (-want +got):\n%s", diff)
	}

	var sawPercent bool
	for _, u := range rep.updates {
		if u.Stage == progress.StageRecovery && u.Percent == 42.0 {
			sawPercent = true
		}
	}
	if !sawPercent {
		t.Errorf("expected par2 progress update, got %+v", rep.updates)
	}
}
