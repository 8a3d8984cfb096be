// Package deps locates the external tools a release is built with.
package deps

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
)

// ErrNotFound is wrapped by every lookup failure.
var ErrNotFound = errors.New("tool not found")

// Tool names searched in PATH when no explicit path is configured.
var (
	RarNames      = []string{"rar"}
	SFVNames      = []string{"cksfv"}
	Par2Names     = []string{"par2create", "par2"}
	UploaderNames = []string{"newsmangler", "poster.py", "nyuu"}
	FFProbeNames  = []string{"ffprobe"}
)

// FindTool resolves a tool. If customPath is non-empty, it tries that path
// or looks it up in PATH; otherwise the first of names found in PATH wins.
func FindTool(label, customPath string, names ...string) (string, error) {
	if customPath != "" {
		if fi, err := os.Stat(customPath); err == nil && !fi.IsDir() {
			return customPath, nil
		}
		if p, err := exec.LookPath(customPath); err == nil {
			return p, nil
		}
		return "", fmt.Errorf("%w: %s at %q", ErrNotFound, label, customPath)
	}
	for _, n := range names {
		if p, err := exec.LookPath(n); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: could not find %s in PATH (tried %v)", ErrNotFound, label, names)
}

// FindRar returns the path to the rar archiver.
func FindRar(customPath string) (string, error) {
	return FindTool("rar", customPath, RarNames...)
}

// FindSFV returns the path to the sfv checksum tool.
func FindSFV(customPath string) (string, error) {
	return FindTool("sfv tool", customPath, SFVNames...)
}

// FindPar2 returns the path to the par2 recovery tool.
func FindPar2(customPath string) (string, error) {
	return FindTool("par2", customPath, Par2Names...)
}

// FindUploader returns the path to the usenet poster.
func FindUploader(customPath string) (string, error) {
	return FindTool("uploader", customPath, UploaderNames...)
}

// FindFFProbe returns the path to ffprobe. It is optional; callers treat a
// miss as "no media info".
func FindFFProbe() (string, error) {
	return FindTool("ffprobe", "", FFProbeNames...)
}
