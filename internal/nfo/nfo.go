// Package nfo writes the release info file that travels with a release.
package nfo

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// Signature identifies the tool in every NFO it writes.
const Signature = "Lift Cup 0.2"

// Prober extracts human-readable media lines ("Video: h264 1280x720") from
// a file.
type Prober interface {
	Probe(ctx context.Context, path string) ([]string, error)
}

// Content assembles an NFO body: the original file name, the signature,
// any media lines, then the text of an existing NFO.
func Content(original string, media []string, existing string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Original Name: %s\n", original)
	b.WriteString(Signature + "\n")
	if len(media) > 0 {
		b.WriteByte('\n')
		for _, l := range media {
			b.WriteString(l)
			b.WriteByte('\n')
		}
	}
	if existing = strings.TrimRight(existing, "\r\n"); existing != "" {
		b.WriteByte('\n')
		b.WriteString(existing)
		b.WriteByte('\n')
	}
	return b.String()
}

// ExistingPath returns the path of the NFO shipped next to source
// (<source base>.nfo), or "" when there is none.
func ExistingPath(source string) string {
	p := strings.TrimSuffix(source, filepath.Ext(source)) + ".nfo"
	if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
		return p
	}
	return ""
}

// Writer produces NFO files. A nil Prober skips media lines.
type Writer struct {
	Prober Prober
	Log    zerolog.Logger
}

// Write creates dst for the release built from source. Probe failures are
// logged and do not fail the write.
func (w Writer) Write(ctx context.Context, dst, source string) error {
	var media []string
	if w.Prober != nil {
		lines, err := w.Prober.Probe(ctx, source)
		if err != nil {
			w.Log.Warn().Err(err).Str("file", filepath.Base(source)).Msg("media probe failed, nfo written without media info")
		} else {
			media = lines
		}
	}

	var existing string
	if p := ExistingPath(source); p != "" {
		data, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("read existing nfo: %w", err)
		}
		existing = string(data)
		w.Log.Debug().Str("nfo", p).Msg("appending existing nfo")
	}

	body := Content(filepath.Base(source), media, existing)
	if err := os.WriteFile(dst, []byte(body), 0o644); err != nil {
		return fmt.Errorf("write nfo: %w", err)
	}
	return nil
}
