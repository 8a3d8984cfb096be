package uploader

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"liftcup/internal/progress"
	"liftcup/internal/util"
)

type captureRunner struct {
	spec util.CmdSpec
	err  error
}

func (c *captureRunner) Run(ctx context.Context, spec util.CmdSpec) (util.CmdResult, error) {
	c.spec = spec
	if spec.StdoutLine != nil {
		spec.StdoutLine("[1/2] 50.0% at 1.00MiB/s ETA 00:02")
		spec.StdoutLine("done")
	}
	return util.CmdResult{}, c.err
}

type recordingReporter struct {
	updates []progress.Update
	logs    []progress.Log
}

func (r *recordingReporter) Update(u progress.Update)   { r.updates = append(r.updates, u) }
func (r *recordingReporter) Log(l progress.Log)         { r.logs = append(r.logs, l) }
func (r *recordingReporter) Result(res progress.Result) {}

func TestUpload(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "Show.720p.HDTV.x264-GRP")
	r := &captureRunner{}
	rep := &recordingReporter{}

	err := Upload(context.Background(), dir, Options{
		Path: "/usr/bin/newsmangler", Config: "/etc/nm.conf", Runner: r, Reporter: rep, JobID: "j",
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if diff := cmp.Diff([]string{"-c", "/etc/nm.conf", dir + string(filepath.Separator)}, r.spec.Args); diff != "" {
		t.Errorf("args mismatch (-want +got):\n%s", diff)
	}
	if r.spec.Dir != filepath.Dir(dir) {
		t.Errorf("Dir = %q, want %q", r.spec.Dir, filepath.Dir(dir))
	}
	if len(rep.updates) != 2 || rep.updates[1].Percent != 50 {
		t.Errorf("updates = %+v", rep.updates)
	}
	if len(rep.logs) != 1 || rep.logs[0].Line != "done" {
		t.Errorf("logs = %+v", rep.logs)
	}
}

func TestUploadErrors(t *testing.T) {
	if err := Upload(context.Background(), "/x", Options{Runner: &captureRunner{}}); err == nil {
		t.Error("expected error without uploader path")
	}
	err := Upload(context.Background(), "/x", Options{Path: "poster", Runner: &captureRunner{err: errors.New("exit 1")}})
	if err == nil {
		t.Error("expected error from failing poster")
	}
}
