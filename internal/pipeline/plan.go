package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"liftcup/internal/model"
	"liftcup/internal/nfo"
	"liftcup/internal/packager"
	"liftcup/internal/quality"
	"liftcup/internal/scene"
	"liftcup/internal/util"
)

// Plan is everything decided about a release before any file is touched.
type Plan struct {
	Release  model.Release
	Layout   model.Layout
	VolumeMB int
	// Exists is set when the release is already present in the temp dir.
	Exists      bool
	ExistingNFO string
	Commands    []util.CmdSpec
}

// NameRelease resolves the tier and scene name for a bare file name.
func NameRelease(name string, override quality.Tier, skipQuality bool) (quality.Tier, quality.Origin, string, error) {
	tier, origin := quality.Resolve(name, override)
	sceneName, err := scene.Synthesize(name, tier, skipQuality)
	if err != nil {
		return tier, origin, "", fmt.Errorf("%w: %s: %w", ErrNaming, filepath.Base(name), err)
	}
	return tier, origin, sceneName, nil
}

// LayoutFor places a release inside tempDir.
func LayoutFor(tempDir string, rel model.Release) model.Layout {
	dir := filepath.Join(tempDir, rel.SceneBase)
	archive := filepath.Join(dir, rel.SceneBase)
	l := model.Layout{
		Copy:    filepath.Join(tempDir, rel.SceneName),
		Dir:     dir,
		Archive: archive,
		SFV:     archive + ".sfv",
		NFO:     archive + ".nfo",
		Lock:    filepath.Join(tempDir, rel.SceneBase+".lock"),
	}
	for _, sc := range rel.Sidecars {
		l.SidecarDst = append(l.SidecarDst, filepath.Join(tempDir, sc.Name))
	}
	return l
}

// Plan computes the release identity, layout and the external commands for
// source. It only reads the filesystem.
func (s *Service) Plan(source string) (*Plan, error) {
	abs, err := filepath.Abs(source)
	if err != nil {
		return nil, err
	}
	fi, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}
	if fi.IsDir() {
		return nil, fmt.Errorf("source %s is a directory", abs)
	}

	original := filepath.Base(abs)
	tier, origin, sceneName, err := NameRelease(original, s.opts.Quality, s.opts.SkipQuality)
	if err != nil {
		return nil, err
	}

	rel := model.Release{
		Source:     abs,
		Original:   original,
		Tier:       tier,
		TierOrigin: origin,
		SceneName:  sceneName,
		SceneBase:  scene.BaseName(sceneName),
		SourceSize: fi.Size(),
	}

	total := fi.Size()
	if s.opts.Subs {
		sidecars, err := util.ListAssociatedFiles(abs, model.SubtitleExts)
		if err != nil {
			return nil, fmt.Errorf("list sidecars: %w", err)
		}
		for _, sc := range sidecars {
			rel.Sidecars = append(rel.Sidecars, model.Sidecar{
				Source: sc,
				Name:   scene.SidecarName(original, sceneName, sc),
			})
			if sfi, err := os.Stat(sc); err == nil {
				total += sfi.Size()
			}
		}
	}

	layout := LayoutFor(s.opts.TempDir, rel)
	p := &Plan{
		Release:     rel,
		Layout:      layout,
		VolumeMB:    packager.VolumeSizeMB(total),
		Exists:      util.Exists(layout.Copy) || util.Exists(layout.Dir),
		ExistingNFO: nfo.ExistingPath(abs),
	}
	p.Commands = s.plannedCommands(p)
	return p, nil
}

// ArchiveInputs are the files handed to rar, in order.
func (p *Plan) ArchiveInputs() []string {
	return append([]string{p.Layout.Copy}, p.Layout.SidecarDst...)
}

// plannedCommands lists the commands a run would execute, using the
// predicted first volume where real volumes are not known yet.
func (s *Service) plannedCommands(p *Plan) []util.CmdSpec {
	tools := s.opts.Tools
	inputs := p.ArchiveInputs()
	workDir := util.CommonDir(inputs)
	rel := make([]string, len(inputs))
	for i, in := range inputs {
		rel[i], _ = filepath.Rel(workDir, in)
	}
	vols := []string{packager.FirstVolume(p.Layout.Archive)}
	par2 := toolOr(tools.Par2, "par2create")

	cmds := []util.CmdSpec{
		{Path: toolOr(tools.Rar, "rar"), Args: packager.BuildRarArgs(p.VolumeMB, p.Layout.Archive, rel), Dir: workDir},
		{Path: toolOr(tools.SFV, "cksfv"), Args: packager.BuildSFVArgs(vols), Dir: p.Layout.Dir},
		{Path: par2, Args: packager.BuildPar2Args(par2, p.Layout.Archive, vols, p.Layout.NFO), Dir: p.Layout.Dir},
	}
	if !s.opts.NoUpload {
		cmds = append(cmds, util.CmdSpec{
			Path: toolOr(tools.Uploader, "uploader"),
			Args: packager.BuildUploadArgs(tools.UploaderConfig, p.Layout.Dir),
			Dir:  filepath.Dir(p.Layout.Dir),
		})
	}
	return cmds
}

func toolOr(p, def string) string {
	if p == "" {
		return def
	}
	return p
}
