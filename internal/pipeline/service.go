// Package pipeline provides planning and orchestration for building and
// posting a release.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/gofrs/flock"
	"github.com/rs/zerolog"

	"liftcup/internal/model"
	"liftcup/internal/nfo"
	"liftcup/internal/packager"
	"liftcup/internal/progress"
	"liftcup/internal/uploader"
	"liftcup/internal/util"
)

// Failure classes; the CLI maps them to exit codes.
var (
	ErrNaming    = errors.New("naming failed")
	ErrPackaging = errors.New("packaging failed")
	ErrUpload    = errors.New("upload failed")
)

// Service orchestrates the name → copy → archive → verify → sfv → nfo →
// par2 → upload → cleanup workflow for one release at a time.
type Service struct {
	opts     model.Options
	runner   util.CmdRunner
	reporter progress.Reporter
	jobID    string
	log      zerolog.Logger
	prober   nfo.Prober
	verify   func(firstVolume string, want []string) ([]packager.ArchiveEntry, error)
}

// Option configures a Service.
type Option func(*Service)

// WithOptions sets the runtime options used for planning and execution.
func WithOptions(o model.Options) Option {
	return func(s *Service) {
		s.opts = o
	}
}

// WithRunner injects a custom command runner (useful for testing).
func WithRunner(r util.CmdRunner) Option {
	return func(s *Service) {
		s.runner = r
	}
}

// WithReporter attaches a progress reporter (used by TUI).
func WithReporter(rp progress.Reporter) Option {
	return func(s *Service) {
		s.reporter = rp
	}
}

// WithJobID sets the job ID associated with reporter events.
func WithJobID(id string) Option {
	return func(s *Service) {
		s.jobID = id
	}
}

// WithLogger sets the release logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) {
		s.log = l
	}
}

// WithProber enables media lines in the NFO.
func WithProber(p nfo.Prober) Option {
	return func(s *Service) {
		s.prober = p
	}
}

// NewService constructs a new Service with the provided options.
// In test mode the default runner only logs commands.
func NewService(opts ...Option) *Service {
	s := &Service{log: zerolog.Nop(), verify: packager.VerifyArchive}
	for _, o := range opts {
		o(s)
	}
	if s.runner == nil {
		if s.opts.Test {
			s.runner = util.NewDryRunner(s.log)
		} else {
			s.runner = util.NewDefaultRunner(s.log)
		}
	}
	return s
}

// Result is the outcome of RunRelease.
type Result struct {
	Source  string
	Plan    *Plan
	Output  *model.Output
	Skipped bool
	Reason  string // why the release was skipped
}

// RunRelease builds (and unless disabled, uploads) the release for source.
// It never prints; when a Reporter is present, it emits progress and a
// final Result.
func (s *Service) RunRelease(ctx context.Context, source string) (res Result, err error) {
	res.Source = source
	defer func() {
		if err != nil {
			s.emitError(err)
		}
	}()

	s.update(progress.StageName, -1, "Naming")
	plan, err := s.Plan(source)
	if err != nil {
		return res, err
	}
	res.Plan = plan
	rel, layout := plan.Release, plan.Layout
	s.log.Info().
		Str("scene", rel.SceneName).
		Str("tier", rel.Tier.String()).
		Str("origin", string(rel.TierOrigin)).
		Int("volume_mb", plan.VolumeMB).
		Msg("release named")

	if plan.Exists {
		return s.skip(res, "release already exists in "+s.opts.TempDir), nil
	}

	if err := util.EnsureDir(s.opts.TempDir); err != nil {
		return res, fmt.Errorf("%w: temp dir: %w", ErrPackaging, err)
	}
	lock := flock.New(layout.Lock)
	locked, err := lock.TryLock()
	if err != nil {
		return res, fmt.Errorf("%w: lock %s: %w", ErrPackaging, layout.Lock, err)
	}
	if !locked {
		return s.skip(res, "release is being built by another process"), nil
	}
	defer func() {
		_ = lock.Unlock()
		_ = util.RemoveIfExists(layout.Lock)
	}()
	// Another process may have finished it between planning and locking.
	if util.Exists(layout.Copy) || util.Exists(layout.Dir) {
		return s.skip(res, "release already exists in "+s.opts.TempDir), nil
	}

	out, err := s.build(ctx, plan)
	if err != nil {
		if !s.opts.NoCleanup {
			s.cleanup(layout)
		}
		return res, err
	}
	res.Output = out

	if !s.opts.NoUpload {
		s.update(progress.StageUpload, -1, "Uploading")
		err := uploader.Upload(ctx, layout.Dir, uploader.Options{
			Path:     s.opts.Tools.Uploader,
			Config:   s.opts.Tools.UploaderConfig,
			Runner:   s.runner,
			Reporter: s.reporter,
			JobID:    s.jobID,
		})
		if err != nil {
			// The built release is kept so the upload can be retried by hand.
			return res, fmt.Errorf("%w: %w", ErrUpload, err)
		}
		out.Uploaded = true
		s.log.Info().Str("dir", layout.Dir).Msg("release uploaded")
	}

	if !s.opts.NoCleanup {
		s.update(progress.StageCleanup, -1, "Cleaning up")
		s.cleanup(layout)
		out.Cleaned = true
	}

	s.emitDone(rel.SceneName, out)
	return res, nil
}

// build produces the release directory: copies, archive, sfv, nfo and par2.
func (s *Service) build(ctx context.Context, plan *Plan) (*model.Output, error) {
	rel, layout := plan.Release, plan.Layout
	popts := packager.Options{Runner: s.runner, Reporter: s.reporter, JobID: s.jobID, Test: s.opts.Test}
	fail := func(step string, err error) error {
		return fmt.Errorf("%w: %s: %w", ErrPackaging, step, err)
	}

	s.update(progress.StageCopy, -1, "Copying "+rel.Original)
	n, err := util.CopyFile(rel.Source, layout.Copy)
	if err != nil {
		return nil, fail("copy", err)
	}
	s.log.Debug().Str("dst", layout.Copy).Str("size", humanize.IBytes(uint64(n))).Msg("source copied")
	for i, sc := range rel.Sidecars {
		if _, err := util.CopyFile(sc.Source, layout.SidecarDst[i]); err != nil {
			return nil, fail("copy sidecar", err)
		}
		s.log.Debug().Str("src", sc.Source).Str("dst", layout.SidecarDst[i]).Msg("sidecar copied")
	}

	vols, err := packager.Archive(ctx, packager.ArchiveSpec{
		RarPath:  s.opts.Tools.Rar,
		Archive:  layout.Archive,
		Files:    plan.ArchiveInputs(),
		VolumeMB: plan.VolumeMB,
	}, popts)
	if err != nil {
		return nil, fail("archive", err)
	}
	s.log.Info().Int("volumes", len(vols)).Msg("archive created")

	if !s.opts.Test {
		s.update(progress.StageVerify, -1, "Verifying archive")
		want := make([]string, 0, 1+len(layout.SidecarDst))
		for _, in := range plan.ArchiveInputs() {
			want = append(want, filepath.Base(in))
		}
		entries, err := s.verify(vols[0], want)
		if err != nil {
			return nil, fail("verify", err)
		}
		s.log.Debug().Int("entries", len(entries)).Msg("archive verified")
	}

	if err := packager.Checksum(ctx, s.opts.Tools.SFV, layout.SFV, vols, popts); err != nil {
		return nil, fail("checksum", err)
	}

	s.update(progress.StageNFO, -1, "Writing nfo")
	w := nfo.Writer{Prober: s.prober, Log: s.log}
	if err := w.Write(ctx, layout.NFO, rel.Source); err != nil {
		return nil, fail("nfo", err)
	}

	par2, err := packager.Recovery(ctx, s.opts.Tools.Par2, layout.Archive, vols, layout.NFO, popts)
	if err != nil {
		return nil, fail("recovery", err)
	}

	out := &model.Output{
		Dir:     layout.Dir,
		Volumes: vols,
		SFV:     layout.SFV,
		NFO:     layout.NFO,
		Par2:    par2,
	}
	if !s.opts.Test {
		files := append(append(append([]string{}, vols...), layout.SFV, layout.NFO), par2...)
		if size, err := util.TotalSize(files); err == nil {
			out.Bytes = size
		}
	}
	s.log.Info().Str("dir", layout.Dir).Str("size", humanize.IBytes(uint64(out.Bytes))).Msg("release built")
	return out, nil
}

// cleanup removes the release directory and any leftover copies.
func (s *Service) cleanup(layout model.Layout) {
	paths := append([]string{layout.Dir, layout.Copy}, layout.SidecarDst...)
	for _, p := range paths {
		if err := os.RemoveAll(p); err != nil {
			s.log.Warn().Err(err).Str("path", p).Msg("cleanup failed")
		}
	}
}

func (s *Service) skip(res Result, reason string) Result {
	res.Skipped = true
	res.Reason = reason
	s.log.Warn().Str("scene", res.Plan.Release.SceneName).Msg("skipping: " + reason)
	if s.reporter != nil {
		s.reporter.Update(progress.Update{
			JobID:   s.jobID,
			Stage:   progress.StageSkipped,
			Percent: 100,
			Message: "Skipped: " + reason,
		})
		s.reporter.Result(progress.Result{
			JobID:     s.jobID,
			SceneName: res.Plan.Release.SceneName,
			Skipped:   true,
		})
	}
	return res
}

func (s *Service) update(stage progress.Stage, pct float64, msg string) {
	if s.reporter == nil {
		return
	}
	s.reporter.Update(progress.Update{
		JobID:   s.jobID,
		Stage:   stage,
		Percent: pct,
		Message: msg,
	})
}

// emitDone sends a final "done" update and reporter result for TUI.
func (s *Service) emitDone(sceneName string, out *model.Output) {
	if s.reporter == nil {
		return
	}
	msg := "Built: " + sceneName
	if out.Bytes > 0 {
		msg += " (" + humanize.IBytes(uint64(out.Bytes)) + ")"
	}
	if out.Uploaded {
		msg += ", uploaded"
	}
	s.reporter.Update(progress.Update{
		JobID:   s.jobID,
		Stage:   progress.StageCompleted,
		Percent: 100,
		Message: msg,
	})
	s.reporter.Result(progress.Result{
		JobID:     s.jobID,
		SceneName: sceneName,
		OutputDir: out.Dir,
		Bytes:     out.Bytes,
	})
}

func (s *Service) emitError(err error) {
	s.log.Error().Err(err).Msg("release failed")
	if s.reporter == nil {
		return
	}
	s.reporter.Update(progress.Update{
		JobID:   s.jobID,
		Stage:   progress.StageError,
		Percent: -1,
		Message: err.Error(),
	})
	s.reporter.Result(progress.Result{JobID: s.jobID, Err: err})
}
