package packager

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestVolumeSizeMB(t *testing.T) {
	const mib = 1024 * 1024
	tests := []struct {
		name  string
		bytes int64
		want  int
	}{
		{name: "empty", bytes: 0, want: 15},
		{name: "small file", bytes: 100 * mib, want: 15},
		{name: "tie goes to smaller", bytes: 525 * mib, want: 15}, // 17.5 MiB per volume
		{name: "just past tie", bytes: 540 * mib, want: 20},       // 18 MiB
		{name: "one gig", bytes: 1024 * mib, want: 20},            // ~34 MiB, 20 is closer than 50
		{name: "1.5 gig", bytes: 1536 * mib, want: 50},            // ~51 MiB
		{name: "four gig", bytes: 4096 * mib, want: 100},          // ~136 MiB
		{name: "huge", bytes: 40 * 1024 * mib, want: 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VolumeSizeMB(tt.bytes); got != tt.want {
				t.Errorf("VolumeSizeMB(%d) = %d, want %d", tt.bytes, got, tt.want)
			}
		})
	}
}

func TestBuildRarArgs(t *testing.T) {
	got := BuildRarArgs(50, "/tmp/rel/Show.720p.HDTV.x264-GRP/Show.720p.HDTV.x264-GRP",
		[]string{"Show.720p.HDTV.x264-GRP.mkv", "Show.720p.HDTV.x264-GRP.en.srt"})
	want := []string{
		"a", "-v50m", "-vn", "-m0", "-rr1", "-ed", "-dw", "-y",
		"/tmp/rel/Show.720p.HDTV.x264-GRP/Show.720p.HDTV.x264-GRP",
		"Show.720p.HDTV.x264-GRP.mkv",
		"Show.720p.HDTV.x264-GRP.en.srt",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("BuildRarArgs mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildSFVArgs(t *testing.T) {
	got := BuildSFVArgs([]string{"/r/x.rar", "/r/x.r00"})
	want := []string{"-b", "/r/x.rar", "/r/x.r00"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("BuildSFVArgs mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildPar2Args(t *testing.T) {
	tests := []struct {
		name            string
		par2Path        string
		nfo             string
		wantPrefix      []string
		wantContains    []string
		wantNotContains []string
	}{
		{
			name:            "par2create",
			par2Path:        "/usr/bin/par2create",
			nfo:             "/r/x.nfo",
			wantPrefix:      []string{"-r10", "-n7", "/r/x"},
			wantContains:    []string{"/r/x.rar", "/r/x.r00", "/r/x.nfo"},
			wantNotContains: []string{"create"},
		},
		{
			name:         "multi-call par2",
			par2Path:     "/usr/bin/par2",
			nfo:          "/r/x.nfo",
			wantPrefix:   []string{"create", "-r10", "-n7", "/r/x"},
			wantContains: []string{"/r/x.nfo"},
		},
		{
			name:            "no nfo",
			par2Path:        "par2create",
			wantPrefix:      []string{"-r10", "-n7", "/r/x"},
			wantNotContains: []string{""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := BuildPar2Args(tt.par2Path, "/r/x", []string{"/r/x.rar", "/r/x.r00"}, tt.nfo)
			if len(args) < len(tt.wantPrefix) {
				t.Fatalf("args too short: %v", args)
			}
			if diff := cmp.Diff(tt.wantPrefix, args[:len(tt.wantPrefix)]); diff != "" {
				t.Errorf("prefix mismatch (-want +got):\n%s", diff)
			}
			for _, w := range tt.wantContains {
				if !contains(args, w) {
					t.Errorf("args missing %q: %v", w, args)
				}
			}
			for _, w := range tt.wantNotContains {
				if contains(args, w) {
					t.Errorf("args should not contain %q: %v", w, args)
				}
			}
		})
	}
}

func TestBuildUploadArgs(t *testing.T) {
	got := BuildUploadArgs("/etc/poster.conf", "/tmp/rel/X")
	want := []string{"-c", "/etc/poster.conf", "/tmp/rel/X/"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("BuildUploadArgs mismatch (-want +got):\n%s", diff)
	}

	got = BuildUploadArgs("", "/tmp/rel/X/")
	if strings.Join(got, " ") != "/tmp/rel/X/" {
		t.Errorf("BuildUploadArgs without config = %v", got)
	}
}

func contains(ss []string, q string) bool {
	for _, s := range ss {
		if s == q {
			return true
		}
	}
	return false
}
