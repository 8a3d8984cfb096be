package packager

import (
	"fmt"
	"path/filepath"
	"strings"
)

// VolumeSizesMB are the volume sizes a release may be split into.
var VolumeSizesMB = []int{15, 20, 50, 100}

// TargetVolumes is the volume count the size choice aims for.
const TargetVolumes = 30

// VolumeSizeMB picks the entry of VolumeSizesMB closest to totalBytes/30
// (in MiB). Ties go to the smaller size.
func VolumeSizeMB(totalBytes int64) int {
	per := float64(totalBytes) / (1024 * 1024) / TargetVolumes
	best := VolumeSizesMB[0]
	bestDist := abs(float64(best) - per)
	for _, s := range VolumeSizesMB[1:] {
		if d := abs(float64(s) - per); d < bestDist {
			best, bestDist = s, d
		}
	}
	return best
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

// BuildRarArgs constructs rar arguments for a store-only, volume-split
// archive with a 1% recovery record. Old-style volume names (.rar, .r00, ...)
// are forced. Source files are wiped once archived; files should be given
// relative to the working directory so no directory part ends up in the
// archive.
func BuildRarArgs(volumeMB int, archive string, files []string) []string {
	args := []string{
		"a",
		fmt.Sprintf("-v%dm", volumeMB),
		"-vn",
		"-m0",
		"-rr1",
		"-ed",
		"-dw",
		"-y",
		archive,
	}
	return append(args, files...)
}

// BuildSFVArgs constructs cksfv arguments. The tool prints the sfv body to
// stdout; -b strips directory parts from the listed names.
func BuildSFVArgs(volumes []string) []string {
	return append([]string{"-b"}, volumes...)
}

// BuildPar2Args constructs par2 arguments: 10% redundancy spread over 7
// recovery files. The "par2" multi-call binary needs the create verb; the
// standalone par2create does not.
func BuildPar2Args(par2Path, archive string, volumes []string, nfo string) []string {
	var args []string
	if strings.TrimSuffix(filepath.Base(par2Path), ".exe") == "par2" {
		args = append(args, "create")
	}
	args = append(args, "-r10", "-n7", archive)
	args = append(args, volumes...)
	if nfo != "" {
		args = append(args, nfo)
	}
	return args
}

// BuildUploadArgs constructs the uploader arguments. The release directory
// gets a trailing separator so posters treat it as a directory upload.
func BuildUploadArgs(config, dir string) []string {
	var args []string
	if config != "" {
		args = append(args, "-c", config)
	}
	if !strings.HasSuffix(dir, string(filepath.Separator)) {
		dir += string(filepath.Separator)
	}
	return append(args, dir)
}
