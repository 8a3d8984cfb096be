package model

import "liftcup/internal/quality"

// ToolPaths holds the resolved (or configured) external tool locations.
type ToolPaths struct {
	Rar            string
	SFV            string
	Par2           string
	Uploader       string
	UploaderConfig string // Passed as "-c <path>" when non-empty
	FFProbe        string // Optional; empty disables media lines in the NFO
}

// Options holds user-configurable runtime options as parsed from flags and
// config.
type Options struct {
	TempDir string
	LogDir  string

	Quality     quality.Tier // Override; quality.Unknown when not given
	SkipQuality bool
	Subs        bool // Package sidecar subtitles next to the source

	Test      bool // Log external commands instead of running them
	NoCleanup bool
	NoUpload  bool
	Debug     bool
	NoLog     bool
	NoUI      bool

	Tools ToolPaths
}

// SubtitleExts are the sidecar extensions packaged with --subs.
var SubtitleExts = []string{"srt", "sub", "idx"}

// Sidecar is an extra file packaged alongside the main release file.
type Sidecar struct {
	Source string // Path next to the source file
	Name   string // Scene-style name inside the work dir
}

// Release is the planned identity of one source file.
type Release struct {
	Source     string // Absolute path of the input file
	Original   string // Base name of the input file
	Tier       quality.Tier
	TierOrigin quality.Origin
	SceneName  string // e.g. Show.S01E01.720p.HDTV.x264-GRP.mkv
	SceneBase  string // SceneName without extension
	Sidecars   []Sidecar
	SourceSize int64
}

// Layout is where a release is built inside the temp dir.
type Layout struct {
	Copy       string   // <temp>/<scene name>
	SidecarDst []string // <temp>/<sidecar scene name>, parallel to Release.Sidecars
	Dir        string   // <temp>/<scene base>, the directory that gets uploaded
	Archive    string   // <Dir>/<scene base>, no extension
	SFV        string   // <Archive>.sfv
	NFO        string   // <Archive>.nfo
	Lock       string   // <temp>/<scene base>.lock
}

// Output captures what a finished release produced.
type Output struct {
	Dir      string
	Volumes  []string
	SFV      string
	NFO      string
	Par2     []string
	Bytes    int64 // Size of everything in Dir
	Uploaded bool
	Cleaned  bool
}
