// Package scene builds scene-style release names: dot separated, with the
// quality token injected ahead of the release group suffix.
package scene

import (
	"path/filepath"
	"regexp"
	"strings"

	"liftcup/internal/quality"
)

var (
	groupSuffix = regexp.MustCompile(`^(.*\S)-(\S+)$`)
	separators  = regexp.MustCompile(`[_ !()+'.-]+`)
)

// ReleaseName is a file name split into the parts the synthesizer works on.
type ReleaseName struct {
	Original string // base name including extension
	Base     string // Original without Ext
	Ext      string // ".mkv", may be empty
	Stem     string // Base without the group suffix
	Group    string // text after the last hyphen, empty when absent
}

// Parse decomposes a file name. Any directory part is dropped.
func Parse(name string) ReleaseName {
	name = filepath.Base(name)
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	rn := ReleaseName{Original: name, Base: base, Ext: ext, Stem: base}
	if m := groupSuffix.FindStringSubmatch(base); m != nil {
		rn.Stem, rn.Group = m[1], m[2]
	}
	return rn
}

// HasGroup reports whether a release group suffix was found.
func (r ReleaseName) HasGroup() bool {
	return r.Group != ""
}

func collapse(s string) string {
	return separators.ReplaceAllString(s, ".")
}

// Normalize collapses every run of separator characters to a single dot.
// The hyphen in front of a release group suffix is kept.
func Normalize(name string) string {
	rn := Parse(name)
	if rn.HasGroup() {
		left := strings.TrimRight(collapse(rn.Stem), ".")
		right := strings.TrimLeft(collapse(rn.Group+rn.Ext), ".")
		if left != "" && right != "" {
			return left + "-" + right
		}
	}
	return collapse(rn.Original)
}

// hasToken reports whether token appears in the normalized stem as a whole
// dot-separated run.
func hasToken(stem, token string) bool {
	re := regexp.MustCompile(`(?i)(?:^|\.)` + regexp.QuoteMeta(collapse(token)) + `(?:\.|-|$)`)
	return re.MatchString(collapse(stem))
}

// Synthesize returns the scene name for name at the given tier. A name that
// already classifies to a tier, or already carries the tier's token, or
// skipQuality, only gets normalized, so running Synthesize on its own output
// is a no-op. Tiers without a scene token fail with quality.ErrInvalidTier.
func Synthesize(name string, tier quality.Tier, skipQuality bool) (string, error) {
	rn := Parse(name)
	if skipQuality || quality.Classify(rn.Original) != quality.Unknown {
		return Normalize(rn.Original), nil
	}
	token, err := tier.SceneToken()
	if err != nil {
		return "", err
	}
	stem := rn.Base
	if rn.HasGroup() {
		stem = rn.Stem
	}
	// A resolution marker can veto classification of a name we tagged
	// earlier (1080i next to HDTV.x264).
	if hasToken(stem, token) {
		return Normalize(rn.Original), nil
	}
	var candidate string
	if rn.HasGroup() {
		candidate = rn.Stem + "." + token + "-" + rn.Group + rn.Ext
	} else {
		candidate = rn.Base + "." + token + rn.Ext
	}
	return Normalize(candidate), nil
}

// BaseName strips the extension from a scene name.
func BaseName(sceneName string) string {
	return strings.TrimSuffix(sceneName, filepath.Ext(sceneName))
}

// SidecarName renames a sidecar of source (e.g. "Show.en.srt" next to
// "Show.mkv") so that it follows the scene name of the release.
func SidecarName(source, sceneName, sidecar string) string {
	srcBase := Parse(source).Base
	suffix := strings.TrimPrefix(filepath.Base(sidecar), srcBase)
	suffix = collapse(suffix)
	if !strings.HasPrefix(suffix, ".") {
		suffix = "." + suffix
	}
	return BaseName(sceneName) + suffix
}
