// Package uploader posts a finished release directory to usenet through an
// external poster.
package uploader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"liftcup/internal/packager"
	"liftcup/internal/progress"
	"liftcup/internal/util"
)

// Options controls the poster invocation.
type Options struct {
	Path     string // Poster binary
	Config   string // Poster config, passed as "-c"
	Runner   util.CmdRunner
	Reporter progress.Reporter
	JobID    string
}

// Upload posts dir. The poster runs from dir's parent so relative names in
// its output match the release layout.
func Upload(ctx context.Context, dir string, opts Options) error {
	if opts.Path == "" {
		return errors.New("uploader path is required")
	}
	if opts.Runner == nil {
		return errors.New("runner is required")
	}
	if fi, err := os.Stat(dir); err == nil && !fi.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	if opts.Reporter != nil {
		opts.Reporter.Update(progress.Update{
			JobID:   opts.JobID,
			Stage:   progress.StageUpload,
			Percent: -1,
			Message: "Uploading",
		})
	}

	onLine := func(line string) {
		if opts.Reporter == nil {
			return
		}
		if u, ok := ParseProgress(line, opts.JobID); ok {
			opts.Reporter.Update(u)
			return
		}
		opts.Reporter.Log(progress.Log{JobID: opts.JobID, Stream: progress.StreamStdout, Line: line})
	}

	_, err := opts.Runner.Run(ctx, util.CmdSpec{
		Path:       opts.Path,
		Args:       packager.BuildUploadArgs(opts.Config, dir),
		Dir:        filepath.Dir(filepath.Clean(dir)),
		StdoutLine: onLine,
		StderrLine: onLine,
	})
	if err != nil {
		return fmt.Errorf("uploader failed: %w", err)
	}
	return nil
}
