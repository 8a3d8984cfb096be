// Package cli holds the flag set shared by the commands that build
// releases.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"liftcup/internal/model"
	"liftcup/internal/quality"
)

// RunFlags are the per-invocation switches of run, plan, tui and hook.
type RunFlags struct {
	Quality     string
	SkipQuality bool
	Test        bool
	NoCleanup   bool
	NoUpload    bool
	Subs        bool
	NoUI        bool
}

// BindRunFlags registers the run flags on fs.
func BindRunFlags(fs *pflag.FlagSet) {
	fs.StringP("quality", "q", "", "Quality used when the file name carries none (e.g. HDTV, \"720p HD TV\", 720p.HDTV.x264)")
	fs.Bool("skipquality", false, "Do not add a quality token; only normalize the name")
	fs.BoolP("test", "t", false, "Log the commands that would run without executing them")
	fs.Bool("nocleanup", false, "Keep the release directory and copies in the temp dir")
	fs.Bool("noupload", false, "Build the release but do not post it")
	fs.Bool("subs", false, "Package subtitles (.srt, .sub, .idx) sharing the file's base name")
	fs.Bool("no-ui", false, "Disable the interactive view; log to the console instead")
}

// ReadRunFlags reads the flags registered by BindRunFlags.
func ReadRunFlags(fs *pflag.FlagSet) RunFlags {
	var f RunFlags
	f.Quality, _ = fs.GetString("quality")
	f.SkipQuality, _ = fs.GetBool("skipquality")
	f.Test, _ = fs.GetBool("test")
	f.NoCleanup, _ = fs.GetBool("nocleanup")
	f.NoUpload, _ = fs.GetBool("noupload")
	f.Subs, _ = fs.GetBool("subs")
	f.NoUI, _ = fs.GetBool("no-ui")
	return f
}

// Apply copies the flags into opts. An unrecognised quality is returned as
// a warning and leaves opts.Quality at quality.Unknown; it is not fatal.
func (f RunFlags) Apply(opts *model.Options) (warning error) {
	opts.SkipQuality = f.SkipQuality
	opts.Test = f.Test
	opts.NoCleanup = f.NoCleanup
	opts.NoUpload = f.NoUpload
	opts.Subs = f.Subs
	opts.NoUI = f.NoUI
	opts.Quality = quality.Unknown
	if q := strings.TrimSpace(f.Quality); q != "" {
		t, err := quality.ParseOverride(q)
		if err != nil {
			return fmt.Errorf("ignoring --quality: %w", err)
		}
		opts.Quality = t
	}
	return nil
}

// ValidateSources checks that every argument names an existing regular file.
func ValidateSources(args []string) error {
	for _, a := range args {
		fi, err := os.Stat(a)
		if err != nil {
			return fmt.Errorf("source %q: %w", a, err)
		}
		if !fi.Mode().IsRegular() {
			return fmt.Errorf("source %q is not a regular file", a)
		}
	}
	return nil
}
