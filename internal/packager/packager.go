// Package packager drives the external tools that turn a release into a
// usenet-ready set: split rar volumes, an sfv checksum file and par2
// recovery files.
package packager

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"liftcup/internal/progress"
	"liftcup/internal/util"
)

// Options control tool execution.
type Options struct {
	Runner   util.CmdRunner
	Reporter progress.Reporter
	JobID    string
	// Test means the runner does not really execute anything, so outputs
	// are predicted instead of discovered.
	Test bool
}

// ArchiveSpec describes one rar invocation.
type ArchiveSpec struct {
	RarPath  string
	Archive  string   // Output path without extension
	Files    []string // Absolute paths of the files to store
	VolumeMB int
}

// Archive stores the files in a volume set and returns the volumes. Files
// are passed relative to their common directory, which becomes the working
// directory.
func Archive(ctx context.Context, spec ArchiveSpec, opts Options) ([]string, error) {
	if spec.RarPath == "" {
		return nil, errors.New("rar path is required")
	}
	if len(spec.Files) == 0 {
		return nil, errors.New("nothing to archive")
	}
	if err := util.EnsureDir(filepath.Dir(spec.Archive)); err != nil {
		return nil, fmt.Errorf("ensure archive dir: %w", err)
	}

	workDir := util.CommonDir(spec.Files)
	rel := make([]string, len(spec.Files))
	sizes := make([]int64, len(spec.Files))
	for i, f := range spec.Files {
		r, err := filepath.Rel(workDir, f)
		if err != nil {
			return nil, fmt.Errorf("relative path for %s: %w", f, err)
		}
		rel[i] = r
		if fi, err := os.Stat(f); err == nil {
			sizes[i] = fi.Size()
		}
	}

	tracker := NewArchiveTracker(sizes)
	report(opts, progress.StageArchive, 0, "Archiving")
	_, err := opts.Runner.Run(ctx, util.CmdSpec{
		Path: spec.RarPath,
		Args: BuildRarArgs(spec.VolumeMB, spec.Archive, rel),
		Dir:  workDir,
		StdoutLine: func(line string) {
			if p, ok := tracker.Line(line); ok {
				report(opts, progress.StageArchive, p, "Archiving")
			}
		},
		StderrLine: logLine(opts),
	})
	if err != nil {
		return nil, fmt.Errorf("rar failed: %w", err)
	}

	if opts.Test {
		return []string{FirstVolume(spec.Archive)}, nil
	}
	vols, err := ListVolumes(spec.Archive)
	if err != nil {
		return nil, fmt.Errorf("list volumes: %w", err)
	}
	if len(vols) == 0 {
		return nil, fmt.Errorf("rar produced no volumes for %s", filepath.Base(spec.Archive))
	}
	return vols, nil
}

// Checksum runs the sfv tool over the volumes and writes its output to
// sfvFile. Comment lines the tool emits are kept.
func Checksum(ctx context.Context, sfvPath, sfvFile string, volumes []string, opts Options) error {
	if sfvPath == "" {
		return errors.New("sfv tool path is required")
	}
	report(opts, progress.StageChecksum, -1, "Writing sfv")
	res, err := opts.Runner.Run(ctx, util.CmdSpec{
		Path:          sfvPath,
		Args:          BuildSFVArgs(volumes),
		Dir:           filepath.Dir(sfvFile),
		CaptureStdout: true,
		StderrLine:    logLine(opts),
	})
	if err != nil {
		return fmt.Errorf("sfv failed: %w", err)
	}
	if opts.Test {
		return nil
	}
	body := strings.TrimSpace(string(res.Stdout))
	if body == "" {
		return errors.New("sfv tool produced no output")
	}
	if err := os.WriteFile(sfvFile, []byte(body+"\n"), 0o644); err != nil {
		return fmt.Errorf("write sfv: %w", err)
	}
	return nil
}

// Recovery creates the par2 set for archive and returns the par2 files.
func Recovery(ctx context.Context, par2Path, archive string, volumes []string, nfo string, opts Options) ([]string, error) {
	if par2Path == "" {
		return nil, errors.New("par2 path is required")
	}
	report(opts, progress.StageRecovery, 0, "Creating recovery set")
	_, err := opts.Runner.Run(ctx, util.CmdSpec{
		Path: par2Path,
		Args: BuildPar2Args(par2Path, archive, volumes, nfo),
		Dir:  filepath.Dir(archive),
		StdoutLine: func(line string) {
			if u, ok := ParsePercentLine(line, opts.JobID, progress.StageRecovery, "Creating recovery set"); ok && opts.Reporter != nil {
				opts.Reporter.Update(u)
			}
		},
		StderrLine: logLine(opts),
	})
	if err != nil {
		return nil, fmt.Errorf("par2 failed: %w", err)
	}
	if opts.Test {
		return []string{archive + ".par2"}, nil
	}
	files, err := filepath.Glob(escapeGlob(archive) + "*.par2")
	if err != nil {
		return nil, fmt.Errorf("list par2 files: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("par2 produced no files for %s", filepath.Base(archive))
	}
	sort.Strings(files)
	return files, nil
}

func escapeGlob(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`)
	return r.Replace(s)
}

func report(opts Options, stage progress.Stage, pct float64, msg string) {
	if opts.Reporter == nil {
		return
	}
	opts.Reporter.Update(progress.Update{
		JobID:   opts.JobID,
		Stage:   stage,
		Percent: pct,
		Message: msg,
	})
}

func logLine(opts Options) func(string) {
	if opts.Reporter == nil {
		return nil
	}
	return func(line string) {
		opts.Reporter.Log(progress.Log{JobID: opts.JobID, Stream: progress.StreamStderr, Line: line})
	}
}
