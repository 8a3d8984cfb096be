package nfo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"gopkg.in/vansante/go-ffprobe.v2"
)

// probeFunc matches ffprobe.ProbeURL.
type probeFunc func(ctx context.Context, path string, extraOpts ...string) (*ffprobe.ProbeData, error)

// FFProbe is a Prober backed by the ffprobe binary.
type FFProbe struct {
	probe   probeFunc
	timeout time.Duration
}

// NewFFProbe returns a Prober that runs the ffprobe binary at binPath.
func NewFFProbe(binPath string) *FFProbe {
	if binPath != "" {
		ffprobe.SetFFProbeBinPath(binPath)
	}
	return &FFProbe{probe: ffprobe.ProbeURL, timeout: 30 * time.Second}
}

// Probe implements Prober.
func (p *FFProbe) Probe(ctx context.Context, path string) ([]string, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	data, err := p.probe(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("ffprobe %s: %w", path, err)
	}
	if data == nil || data.Format == nil {
		return nil, errors.New("ffprobe returned no format data")
	}
	return mediaLines(data), nil
}

func mediaLines(data *ffprobe.ProbeData) []string {
	var lines []string
	if d := data.Format.Duration(); d > 0 {
		lines = append(lines, "Duration: "+d.Round(time.Second).String())
	}
	if data.Format.Size != "" {
		var n uint64
		if _, err := fmt.Sscan(data.Format.Size, &n); err == nil && n > 0 {
			lines = append(lines, "Size: "+humanize.IBytes(n))
		}
	}
	if v := data.FirstVideoStream(); v != nil {
		line := "Video: " + codecName(v)
		if v.Width > 0 && v.Height > 0 {
			line += fmt.Sprintf(" %dx%d", v.Width, v.Height)
		}
		lines = append(lines, line)
	}
	for _, a := range data.StreamType(ffprobe.StreamAudio) {
		line := "Audio: " + codecName(&a)
		if a.Channels > 0 {
			line += fmt.Sprintf(" %dch", a.Channels)
		}
		if lang, err := a.TagList.GetString("language"); err == nil && lang != "" {
			line += " " + lang
		}
		lines = append(lines, line)
	}
	for _, s := range data.StreamType(ffprobe.StreamSubtitle) {
		line := "Subtitle: " + codecName(&s)
		if lang, err := s.TagList.GetString("language"); err == nil && lang != "" {
			line += " " + lang
		}
		lines = append(lines, line)
	}
	return lines
}

func codecName(s *ffprobe.Stream) string {
	if s.CodecName != "" {
		return s.CodecName
	}
	if s.CodecLongName != "" {
		return s.CodecLongName
	}
	return "unknown"
}
